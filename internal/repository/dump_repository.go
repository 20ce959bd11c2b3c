package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"github.com/guiaturistica/reportes-api/internal/models"
)

// dumpFiles maps each kind to the export file holding its rows
var dumpFiles = map[models.RecordKind]string{
	models.KindVisits:       "visits.json",
	models.KindBookings:     "bookings.json",
	models.KindUsageEvents:  "usage_events.json",
	models.KindAchievements: "achievements.json",
	models.KindNewUsers:     "users.json",
}

type dumpRepository struct {
	dir string
}

// NewDumpRepository serves records from JSON table exports in dir. Each file
// holds an array of rows shaped like the hosted store's REST output, with
// joins nested under points_of_interest / cities / users. A missing file
// means no records of that kind.
func NewDumpRepository(dir string) RecordRepository {
	return &dumpRepository{dir: dir}
}

func (r *dumpRepository) GetRecords(ctx context.Context, kind models.RecordKind, start, end time.Time) ([]models.Record, error) {
	if _, ok := dumpFiles[kind]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	rows, err := r.load(ctx, kind)
	if err != nil {
		return nil, err
	}

	field := kind.TimestampField()
	type stamped struct {
		rec models.Record
		at  time.Time
	}
	matched := make([]stamped, 0, len(rows))
	for _, row := range rows {
		rec := models.RecordFromMap(kind, row)
		at, ok := rec.Timestamp(field)
		if !ok || at.Before(start) || at.After(end) {
			continue
		}
		matched = append(matched, stamped{rec: rec, at: at})
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].at.After(matched[j].at)
	})

	records := make([]models.Record, len(matched))
	for i, m := range matched {
		records[i] = m.rec
	}
	return records, nil
}

func (r *dumpRepository) GetActor(ctx context.Context, actorID string) (*models.ActorRef, error) {
	rows, err := r.load(ctx, models.KindNewUsers)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		rec := models.RecordFromMap(models.KindNewUsers, row)
		if rec.ID != actorID {
			continue
		}
		return &models.ActorRef{
			ID:          rec.ID,
			Name:        rec.String("name"),
			Email:       rec.String("email"),
			TotalPoints: int(rec.Number("total_points")),
		}, nil
	}
	return nil, ErrNotFound
}

func (r *dumpRepository) load(ctx context.Context, kind models.RecordKind) ([]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(r.dir, dumpFiles[kind])
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []map[string]any{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var rows []map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return rows, nil
}
