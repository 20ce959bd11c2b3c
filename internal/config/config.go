package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Document engines
const (
	EngineGofpdf      = "gofpdf"
	EngineWkhtmltopdf = "wkhtmltopdf"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string
	LogLevel    string

	// Data source: the hosted store, or a directory of JSON dumps
	DatabaseURL string
	RecordsDir  string

	// JWT
	JWTSecret string

	// Storage
	StoragePath string

	// Background Workers
	WorkerCount  int
	WorkerQueue  int
	ExportJobTTL time.Duration

	// CORS
	AllowedOrigins []string

	// Sentry
	SentryDSN string

	// Reports
	AppTitle        string
	ReportMaxWindow int
	ReportCurrency  string
	DocumentEngine  string
	WkhtmltopdfPath string

	// Data source circuit breaker
	BreakerFailureThreshold int
	BreakerTimeout          time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:                    getEnv("PORT", "8080"),
		Environment:             getEnv("ENVIRONMENT", "development"),
		LogLevel:                getEnv("LOG_LEVEL", ""),
		DatabaseURL:             getEnv("DATABASE_URL", ""),
		RecordsDir:              getEnv("RECORDS_DIR", ""),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		StoragePath:             getEnv("STORAGE_PATH", "./storage"),
		WorkerCount:             getEnvAsInt("WORKER_COUNT", 5),
		WorkerQueue:             getEnvAsInt("WORKER_QUEUE_SIZE", 100),
		ExportJobTTL:            getEnvAsDuration("EXPORT_JOB_TTL", 24*time.Hour),
		AllowedOrigins:          getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		SentryDSN:               getEnv("SENTRY_DSN", ""),
		AppTitle:                getEnv("APP_TITLE", "Guía Turística Virtual"),
		ReportMaxWindow:         getEnvAsInt("REPORT_MAX_WINDOWS", 6),
		ReportCurrency:          getEnv("REPORT_CURRENCY", "€"),
		DocumentEngine:          strings.ToLower(getEnv("DOCUMENT_ENGINE", EngineGofpdf)),
		WkhtmltopdfPath:         getEnv("WKHTMLTOPDF_PATH", ""),
		BreakerFailureThreshold: getEnvAsInt("BREAKER_FAILURE_THRESHOLD", 5),
		BreakerTimeout:          getEnvAsDuration("BREAKER_TIMEOUT", 30*time.Second),
	}

	if err := cfg.ValidateSource(); err != nil {
		return nil, err
	}

	if cfg.DocumentEngine != EngineGofpdf && cfg.DocumentEngine != EngineWkhtmltopdf {
		return nil, fmt.Errorf("DOCUMENT_ENGINE must be %q or %q", EngineGofpdf, EngineWkhtmltopdf)
	}

	if cfg.ReportMaxWindow < 1 {
		return nil, fmt.Errorf("REPORT_MAX_WINDOWS must be at least 1")
	}

	if cfg.JWTSecret == "" && cfg.Environment == "production" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}

	// Set default JWT secret for development
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret-change-in-production"
	}

	return cfg, nil
}

// ValidateSource checks that exactly one data source is usable
func (c *Config) ValidateSource() error {
	if c.DatabaseURL == "" && c.RecordsDir == "" {
		return fmt.Errorf("DATABASE_URL or RECORDS_DIR is required")
	}
	return nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration reads an environment variable as a time.Duration ("30s", "24h")
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

// getEnvAsSlice reads an environment variable as comma-separated slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
