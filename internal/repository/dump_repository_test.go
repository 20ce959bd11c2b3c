package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/guiaturistica/reportes-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDump(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestDumpRepositoryGetRecords(t *testing.T) {
	dir := t.TempDir()
	writeDump(t, dir, "visits.json", `[
		{"id": "v1", "user_id": "u1", "poi_id": "p1", "visit_date": "2026-03-02T10:00:00Z", "rating": 4,
		 "points_of_interest": {"id": "p1", "name": "Sagrada Familia", "category": "monumento", "city_id": "c1",
		                        "cities": {"id": "c1", "name": "Barcelona", "country": "España"}}},
		{"id": "v2", "user_id": "u2", "poi_id": "p1", "visit_date": "2026-03-05T10:00:00Z"},
		{"id": "v3", "user_id": "u2", "poi_id": "p1", "visit_date": null},
		{"id": "v4", "user_id": "u2", "poi_id": "p1", "visit_date": "2026-05-01T10:00:00Z"}
	]`)

	repo := NewDumpRepository(dir)
	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.March, 31, 23, 59, 59, 0, time.UTC)

	records, err := repo.GetRecords(context.Background(), models.KindVisits, start, end)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// newest first
	assert.Equal(t, "v2", records[0].ID)
	assert.Equal(t, "v1", records[1].ID)

	_, city, country := records[1].ResolveLocation()
	assert.Equal(t, "Barcelona", city)
	assert.Equal(t, "España", country)
	rating, ok := records[1].Rating()
	assert.True(t, ok)
	assert.Equal(t, 4.0, rating)
}

func TestDumpRepositoryMissingFile(t *testing.T) {
	repo := NewDumpRepository(t.TempDir())

	records, err := repo.GetRecords(context.Background(), models.KindBookings, time.Time{}, time.Now())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDumpRepositoryInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	writeDump(t, dir, "bookings.json", `{"not": "an array"`)

	_, err := NewDumpRepository(dir).GetRecords(context.Background(), models.KindBookings, time.Time{}, time.Now())
	assert.Error(t, err)
}

func TestDumpRepositoryUnknownKind(t *testing.T) {
	_, err := NewDumpRepository(t.TempDir()).GetRecords(context.Background(), models.RecordKind("reviews"), time.Time{}, time.Now())
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestDumpRepositoryGetActor(t *testing.T) {
	dir := t.TempDir()
	writeDump(t, dir, "users.json", `[
		{"id": "u1", "email": "ana@example.com", "name": "Ana", "total_points": 340, "created_at": "2026-01-10T08:00:00Z"}
	]`)
	repo := NewDumpRepository(dir)

	actor, err := repo.GetActor(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", actor.Email)
	assert.Equal(t, 340, actor.TotalPoints)

	_, err = repo.GetActor(context.Background(), "u9")
	assert.ErrorIs(t, err, ErrNotFound)

	users, err := repo.GetRecords(context.Background(), models.KindNewUsers,
		time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "u1", users[0].ResolveActorID())
}
