package repository

import (
	"context"
	"testing"
	"time"

	"github.com/guiaturistica/reportes-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRepositoriesUsesDumpsWithoutDatabase(t *testing.T) {
	dir := t.TempDir()
	writeDump(t, dir, "bookings.json", `[
		{"id": "b1", "user_id": "u1", "booking_date": "2026-03-02T10:00:00Z", "total_price": 20, "status": "confirmed"}
	]`)

	repos := NewRepositories(nil, dir, BreakerSettings{Name: "test-dumps"})
	records, err := repos.Records.GetRecords(context.Background(), models.KindBookings,
		time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "b1", records[0].ID)
}
