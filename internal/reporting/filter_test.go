package reporting

import (
	"testing"
	"time"

	"github.com/guiaturistica/reportes-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func visit(id, actor, cityID, country, when string) models.Record {
	rec := models.Record{
		Kind:    models.KindVisits,
		ID:      id,
		ActorID: actor,
		Fields:  map[string]any{"visit_date": when},
	}
	if cityID != "" || country != "" {
		rec.Place = &models.PlaceRef{
			ID:         "poi-" + id,
			LocationID: cityID,
			Location:   &models.LocationRef{ID: cityID, Name: "Ciudad " + cityID, Country: country},
		}
	}
	return rec
}

func ids(records []models.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func sampleRecords() []models.Record {
	nested := models.Record{
		Kind:   models.KindVisits,
		ID:     "v4",
		Actor:  &models.ActorRef{ID: "u1"},
		Fields: map[string]any{"visit_date": "2026-03-04T09:00:00Z", "city_id": "c2", "country": "Perú"},
	}
	return []models.Record{
		visit("v1", "u1", "c1", "España", "2026-03-02T10:00:00Z"),
		visit("v2", "u2", "c1", "España", "2026-03-03T10:00:00Z"),
		visit("v3", "u1", "", "", "2026-03-03T12:00:00Z"),
		nested,
		visit("v5", "u3", "c3", "España", "not a date"),
	}
}

func TestFilterRecordsActor(t *testing.T) {
	records := sampleRecords()

	assert.Equal(t, []string{"v1", "v3", "v4"}, ids(FilterRecords(records, Criteria{ActorID: "u1"})))
	assert.Equal(t, ids(records), ids(FilterRecords(records, Criteria{})))
	assert.Empty(t, FilterRecords(records, Criteria{ActorID: "nobody"}))
}

func TestFilterRecordsLocation(t *testing.T) {
	records := sampleRecords()

	tests := []struct {
		name     string
		criteria Criteria
		expected []string
	}{
		{name: "city", criteria: Criteria{LocationID: "c1"}, expected: []string{"v1", "v2"}},
		{name: "flat fallback", criteria: Criteria{LocationID: "c2"}, expected: []string{"v4"}},
		{name: "country", criteria: Criteria{Country: "España"}, expected: []string{"v1", "v2", "v5"}},
		{name: "city and country", criteria: Criteria{LocationID: "c1", Country: "España"}, expected: []string{"v1", "v2"}},
		{name: "city and wrong country", criteria: Criteria{LocationID: "c1", Country: "Perú"}, expected: []string{}},
		{name: "actor and city", criteria: Criteria{ActorID: "u1", LocationID: "c1"}, expected: []string{"v1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(FilterRecords(records, tt.criteria)))
		})
	}
}

func TestFilterRecordsMissingLocation(t *testing.T) {
	rec := visit("v1", "u1", "", "", "2026-03-02T10:00:00Z")

	assert.Len(t, FilterRecords([]models.Record{rec}, Criteria{}), 1)
	assert.Empty(t, FilterRecords([]models.Record{rec}, Criteria{LocationID: "c1"}))
	assert.Empty(t, FilterRecords([]models.Record{rec}, Criteria{Country: "España"}))
}

func TestFilterRecordsIdempotent(t *testing.T) {
	records := sampleRecords()

	for _, c := range []Criteria{{ActorID: "u1"}, {ActorID: "u2"}, {ActorID: ""}, {ActorID: "missing"}} {
		once := FilterRecords(records, c)
		assert.Equal(t, once, FilterRecords(once, c))
	}
}

func TestFilterByDate(t *testing.T) {
	records := sampleRecords()
	start := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)
	end := EndOfDay(start)

	filtered := FilterByDate(records, "visit_date", start, end)
	assert.Equal(t, []string{"v2", "v3"}, ids(filtered))

	inclusive := FilterByDate(records, "visit_date",
		time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 4, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, []string{"v1", "v2", "v3", "v4"}, ids(inclusive))
}

func TestFiltersCommute(t *testing.T) {
	records := sampleRecords()
	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.March, 3, 23, 59, 59, 0, time.UTC)
	c := Criteria{ActorID: "u1"}

	dateFirst := FilterRecords(FilterByDate(records, "visit_date", start, end), c)
	actorFirst := FilterByDate(FilterRecords(records, c), "visit_date", start, end)
	assert.Equal(t, dateFirst, actorFirst)
}

func TestBookingStatusFilters(t *testing.T) {
	bookings := []models.Record{
		{Kind: models.KindBookings, ID: "b1", Fields: map[string]any{"status": "confirmed"}},
		{Kind: models.KindBookings, ID: "b2", Fields: map[string]any{"status": "pending"}},
		{Kind: models.KindBookings, ID: "b3", Fields: map[string]any{"status": "completed"}},
		{Kind: models.KindBookings, ID: "b4", Fields: map[string]any{"status": "cancelled"}},
		{Kind: models.KindBookings, ID: "b5", Fields: map[string]any{"status": "refunded"}},
		{Kind: models.KindBookings, ID: "b6"},
	}

	assert.Equal(t, []string{"b1", "b3"}, ids(Confirmed(bookings)))
	assert.Equal(t, []string{"b2"}, ids(Pending(bookings)))
	assert.Equal(t, []string{"b4", "b5"}, ids(Refunded(bookings)))
}
