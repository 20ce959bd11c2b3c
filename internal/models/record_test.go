package models

import (
	"math"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestRecordFromMapNestedJoins(t *testing.T) {
	var row map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "v1",
		"poi_id": "p1",
		"visit_date": "2026-03-02T10:00:00+00:00",
		"rating": 4.5,
		"points_of_interest": {
			"id": "p1", "name": "Museo del Prado", "category": "museo", "city_id": "c1",
			"cities": {"id": "c1", "name": "Madrid", "country": "España"}
		},
		"users": {"id": "u1", "email": "ana@example.com", "total_points": 120}
	}`), &row))

	rec := RecordFromMap(KindVisits, row)

	assert.Equal(t, "v1", rec.ID)
	assert.Equal(t, "u1", rec.ResolveActorID())
	assert.Equal(t, "Museo del Prado", rec.PlaceName())
	assert.Equal(t, "museo", rec.Category())
	assert.Equal(t, "p1", rec.ResolvePlaceID())

	id, name, country := rec.ResolveLocation()
	assert.Equal(t, "c1", id)
	assert.Equal(t, "Madrid", name)
	assert.Equal(t, "España", country)

	rating, ok := rec.Rating()
	assert.True(t, ok)
	assert.Equal(t, 4.5, rating)

	ts, ok := rec.Timestamp(KindVisits.TimestampField())
	require.True(t, ok)
	assert.True(t, ts.Equal(time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)))
	assert.Nil(t, rec.Field("points_of_interest"))
}

func TestRecordFromMapAlternateJoins(t *testing.T) {
	rec := RecordFromMap(KindBookings, map[string]any{
		"id":  "b1",
		"poi": map[string]any{"name": "Machu Picchu", "city": map[string]any{"id": "c9", "name": "Cusco", "country": "Perú"}},
	})

	id, name, country := rec.ResolveLocation()
	assert.Equal(t, "c9", id)
	assert.Equal(t, "Cusco", name)
	assert.Equal(t, "Perú", country)
	assert.Equal(t, "bookings-b1", rec.ResolvePlaceID())
	assert.Equal(t, "", rec.ResolveActorID())
}

func TestRecordNumericCoercion(t *testing.T) {
	rec := Record{Fields: map[string]any{
		"null":   nil,
		"text":   "abc",
		"string": " 12.5 ",
		"int":    7,
		"number": json.Number("3.25"),
		"rating": "5",
		"nan":    "NaN",
		"inf":    "Infinity",
		"neginf": "-Inf",
		"float":  math.NaN(),
		"huge":   json.Number("1e400"),
	}}

	assert.Equal(t, 0.0, rec.Number("null"))
	assert.Equal(t, 0.0, rec.Number("missing"))
	assert.Equal(t, 0.0, rec.Number("text"))
	assert.Equal(t, 12.5, rec.Number("string"))
	assert.Equal(t, 7.0, rec.Number("int"))
	assert.Equal(t, 3.25, rec.Number("number"))
	for _, field := range []string{"nan", "inf", "neginf", "float", "huge"} {
		assert.Equal(t, 0.0, rec.Number(field), field)
		_, ok := ToFloat(rec.Field(field))
		assert.False(t, ok, field)
	}

	_, ok := rec.Rating()
	assert.False(t, ok, "text ratings are not ratings")
}

func TestParseTime(t *testing.T) {
	valid := []any{
		"2026-03-02T10:00:00Z",
		"2026-03-02T10:00:00.123456Z",
		"2026-03-02T10:00:00",
		"2026-03-02 10:00:00",
		"2026-03-02",
		time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
	}
	for _, v := range valid {
		_, ok := ParseTime(v)
		assert.True(t, ok, "%v", v)
	}

	var nilTime *time.Time
	for _, v := range []any{nil, "", "yesterday", 42, nilTime, time.Time{}} {
		_, ok := ParseTime(v)
		assert.False(t, ok, "%v", v)
	}
}

func TestRowModelsToRecord(t *testing.T) {
	when := time.Date(2026, time.March, 3, 12, 0, 0, 0, time.UTC)
	price := 80.0

	booking := Booking{
		ID:          "b1",
		UserID:      "u1",
		PoiID:       "p1",
		BookingDate: &when,
		TotalPrice:  &price,
		Status:      BookingStatusConfirmed,
		PointOfInterest: &PointOfInterest{
			ID: "p1", Name: "Alhambra", Category: "monumento", CityID: "c2",
			City: &City{ID: "c2", Name: "Granada", Country: "España"},
		},
	}
	rec := booking.ToRecord()
	assert.Equal(t, KindBookings, rec.Kind)
	assert.Equal(t, 80.0, rec.Number("total_price"))
	assert.Equal(t, BookingStatusConfirmed, rec.Status())
	_, name, _ := rec.ResolveLocation()
	assert.Equal(t, "Granada", name)

	noPrice := Booking{ID: "b2", BookingDate: &when}
	assert.Equal(t, 0.0, noPrice.ToRecord().Number("total_price"))

	userID := "u1"
	stat := UsageStat{
		ID:         "s1",
		UserID:     &userID,
		ActionType: "view_poi",
		Timestamp:  &when,
		Metadata:   datatypes.JSON(`{"channel":"web","action_type":"ignored"}`),
	}
	statRec := stat.ToRecord()
	assert.Equal(t, "u1", statRec.ResolveActorID())
	assert.Equal(t, "view_poi", statRec.String("action_type"))
	assert.Equal(t, "web", statRec.String("channel"))
	_, ok := statRec.Timestamp(KindUsageEvents.TimestampField())
	assert.True(t, ok)
}
