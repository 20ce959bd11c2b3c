package reporting

import (
	"testing"
	"time"

	"github.com/guiaturistica/reportes-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountByWindow(t *testing.T) {
	windows := BuildWindows(date(2026, time.March, 2), date(2026, time.March, 15), 2)
	require.Len(t, windows, 2)

	visits := []models.Record{
		visit("v1", "u1", "c1", "España", "2026-03-02T00:00:00Z"),
		visit("v2", "u1", "c1", "España", "2026-03-04T10:00:00Z"),
		visit("v3", "u2", "c1", "España", "2026-03-08T23:59:59Z"),
		visit("v4", "u2", "c1", "España", "2026-03-10T08:00:00Z"),
		visit("v5", "u2", "c1", "España", ""),
		visit("v6", "u2", "c1", "España", "2026-04-10T08:00:00Z"),
	}

	assert.Equal(t, []int{3, 1}, CountByWindow(visits, "visit_date", windows))
}

func TestSumByWindowCoercesMissingValues(t *testing.T) {
	windows := BuildWindows(date(2026, time.March, 2), date(2026, time.March, 8), 6)
	bookings := []models.Record{
		{Kind: models.KindBookings, ID: "b1", Fields: map[string]any{"booking_date": "2026-03-03", "total_price": nil}},
		{Kind: models.KindBookings, ID: "b2", Fields: map[string]any{"booking_date": "2026-03-03", "total_price": "abc"}},
		{Kind: models.KindBookings, ID: "b3", Fields: map[string]any{"booking_date": "2026-03-04"}},
		{Kind: models.KindBookings, ID: "b4", Fields: map[string]any{"booking_date": "2026-03-05", "total_price": "12.5"}},
		{Kind: models.KindBookings, ID: "b5", Fields: map[string]any{"booking_date": "2026-03-05", "total_price": 7}},
	}

	assert.NotPanics(t, func() {
		assert.Equal(t, []float64{19.5}, SumByWindow(bookings, "booking_date", windows, "total_price"))
	})
	assert.Equal(t, []float64{0}, SumByWindow(bookings[:1], "booking_date", windows, "total_price"))
}

func TestConfirmedRevenue(t *testing.T) {
	bookings := []models.Record{
		{Kind: models.KindBookings, ID: "b1", Fields: map[string]any{"total_price": 50, "status": "confirmed"}},
		{Kind: models.KindBookings, ID: "b2", Fields: map[string]any{"total_price": 30, "status": "pending"}},
	}

	assert.Equal(t, 50.0, Sum(Confirmed(bookings), "total_price"))
}

func TestGroupBy(t *testing.T) {
	rating := func(v any) map[string]any { return map[string]any{"rating": v} }
	records := []models.Record{
		{ID: "1", Place: &models.PlaceRef{Category: "museo"}, Fields: rating(4.0)},
		{ID: "2", Place: &models.PlaceRef{Category: "playa"}, Fields: rating(nil)},
		{ID: "3", Place: &models.PlaceRef{Category: "museo"}, Fields: rating(5)},
		{ID: "4", Place: &models.PlaceRef{Category: "museo"}, Fields: rating("n/a")},
		{ID: "5", Fields: rating(3.0)},
	}

	groups := GroupBy(records, GroupSpec{
		Key:            func(r models.Record) string { return r.Category() },
		CollectRatings: true,
		Tally:          "visits",
	})

	require.Equal(t, 2, groups.Len())
	list := groups.List()
	assert.Equal(t, "museo", list[0].Key)
	assert.Equal(t, 3, list[0].Count)
	assert.Equal(t, 3, list[0].Tally["visits"])
	assert.Equal(t, []float64{4, 5}, list[0].Ratings)
	assert.Equal(t, 4.5, list[0].MeanRating())
	assert.Equal(t, "playa", list[1].Key)
	assert.Equal(t, 0.0, list[1].MeanRating())
}

func TestGroupByMergesSources(t *testing.T) {
	byCity := GroupSpec{
		Key: func(r models.Record) string {
			_, name, _ := r.ResolveLocation()
			return name
		},
		Attrs: func(r models.Record) map[string]string {
			_, _, country := r.ResolveLocation()
			return map[string]string{"country": country}
		},
		SumField: "total_price",
	}
	visits := []models.Record{visit("v1", "u1", "c1", "España", "")}
	bookings := []models.Record{
		{ID: "b1", Fields: map[string]any{"city_name": "Ciudad c1", "total_price": 10.0}},
		{ID: "b2", Fields: map[string]any{"city_name": "Lima", "country": "Perú", "total_price": 5.0}},
	}

	visitSpec := byCity
	visitSpec.Tally = "visits"
	bookingSpec := byCity
	bookingSpec.Tally = "bookings"
	groups := NewGroups().Add(visits, visitSpec).Add(bookings, bookingSpec)

	city, ok := groups.Get("Ciudad c1")
	require.True(t, ok)
	assert.Equal(t, "España", city.Attr("country"))
	assert.Equal(t, 1, city.Tally["visits"])
	assert.Equal(t, 1, city.Tally["bookings"])
	assert.Equal(t, 10.0, city.Sum)

	lima, ok := groups.Get("Lima")
	require.True(t, ok)
	assert.Equal(t, "Perú", lima.Attr("country"))
}

func TestTopNTieBreak(t *testing.T) {
	groups := []*Group{
		{Key: "C", Count: 3},
		{Key: "A", Count: 5},
		{Key: "B", Count: 5},
	}

	top := TopN(groups, ByCount, 1)
	require.Len(t, top, 1)
	assert.Equal(t, "A", top[0].Key)

	all := TopN(groups, ByCount, 0)
	assert.Equal(t, "A", all[0].Key)
	assert.Equal(t, "B", all[1].Key)
	assert.Equal(t, "C", all[2].Key)
	assert.Equal(t, "C", groups[0].Key, "input must not be reordered")
}

func TestTopNDeterministic(t *testing.T) {
	groups := []*Group{
		{Key: "x", Tally: map[string]int{"visits": 2}},
		{Key: "y", Tally: map[string]int{"visits": 2}},
		{Key: "z", Tally: map[string]int{"visits": 2}},
	}
	first := TopN(groups, ByTally("visits"), 2)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, TopN(groups, ByTally("visits"), 2))
	}
	assert.Equal(t, "x", first[0].Key)
	assert.Equal(t, "y", first[1].Key)
}

func TestUniqueCounters(t *testing.T) {
	records := []models.Record{
		{Kind: models.KindVisits, ID: "1", ActorID: "u1", Fields: map[string]any{"poi_id": "p1"}},
		{Kind: models.KindVisits, ID: "2", Actor: &models.ActorRef{ID: "u2"}, Fields: map[string]any{"poi_id": "p1"}},
		{Kind: models.KindVisits, ID: "3"},
		{Kind: models.KindVisits, ID: "4"},
	}

	assert.Equal(t, 2, UniqueActors(records))
	assert.Equal(t, 2, UniqueActors(records[:1], records[1:]))
	assert.Equal(t, 3, UniquePlaces(records))
}

func TestMeanAndRatio(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
	assert.Equal(t, 0.0, Ratio(3, 0))
	assert.Equal(t, 0.5, Ratio(1, 2))
}
