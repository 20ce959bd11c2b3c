package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestTypesCommand(t *testing.T) {
	out, err := runCmd(t, "types")
	require.NoError(t, err)
	assert.Contains(t, out, "general_summary")
	assert.Contains(t, out, "Tendencias y Estadísticas")

	out, err = runCmd(t, "types", "--admin=false")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestRenderCommand(t *testing.T) {
	records := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(records, "bookings.json"), []byte(`[
		{"id": "b1", "user_id": "u1", "booking_date": "2026-03-02T10:00:00Z", "total_price": 80, "status": "completed"}
	]`), 0o644))
	out := t.TempDir()

	printed, err := runCmd(t, "render",
		"--type", "financial", "--start", "2026-03-01", "--end", "2026-03-14",
		"--format", "json", "--records", records, "--database-url", "", "--out", out)
	require.NoError(t, err)

	path := strings.TrimSpace(printed)
	assert.Equal(t, out, filepath.Dir(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Reporte Financiero")
}

func TestRenderCommandValidation(t *testing.T) {
	_, err := runCmd(t, "render", "--start", "2026-03-01", "--end", "2026-03-14", "--format", "docx", "--records", t.TempDir())
	assert.Error(t, err)

	_, err = runCmd(t, "render", "--start", "2026-03-01", "--end", "2026-03-14", "--records", "", "--database-url", "")
	assert.Error(t, err)
}
