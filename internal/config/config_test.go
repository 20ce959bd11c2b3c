package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RECORDS_DIR", "./testdata")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ENVIRONMENT", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 6, cfg.ReportMaxWindow)
	assert.Equal(t, "€", cfg.ReportCurrency)
	assert.Equal(t, EngineGofpdf, cfg.DocumentEngine)
	assert.Equal(t, 24*time.Hour, cfg.ExportJobTTL)
	assert.Equal(t, 30*time.Second, cfg.BreakerTimeout)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/guia")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("REPORT_MAX_WINDOWS", "4")
	t.Setenv("DOCUMENT_ENGINE", "WKHTMLTOPDF")
	t.Setenv("EXPORT_JOB_TTL", "90m")
	t.Setenv("BREAKER_TIMEOUT", "not-a-duration")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.ReportMaxWindow)
	assert.Equal(t, EngineWkhtmltopdf, cfg.DocumentEngine)
	assert.Equal(t, 90*time.Minute, cfg.ExportJobTTL)
	assert.Equal(t, 30*time.Second, cfg.BreakerTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoadValidation(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("RECORDS_DIR", "")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("RECORDS_DIR", "./testdata")
	t.Setenv("DOCUMENT_ENGINE", "latex")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("DOCUMENT_ENGINE", EngineGofpdf)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "")
	_, err = Load()
	assert.Error(t, err)
}
