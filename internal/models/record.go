package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// RecordKind identifies which collection a Record was pulled from
type RecordKind string

// Record kinds served by the data source
const (
	KindVisits       RecordKind = "visits"
	KindBookings     RecordKind = "bookings"
	KindUsageEvents  RecordKind = "usage_events"
	KindAchievements RecordKind = "achievements"
	KindNewUsers     RecordKind = "users_created_in_range"
)

// TimestampField returns the field holding the instant a record of this kind happened
func (k RecordKind) TimestampField() string {
	switch k {
	case KindVisits:
		return "visit_date"
	case KindBookings:
		return "booking_date"
	case KindUsageEvents:
		return "timestamp"
	case KindAchievements:
		return "earned_at"
	case KindNewUsers:
		return "created_at"
	}
	return "created_at"
}

// Booking statuses used by the reports
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
	BookingStatusRefunded  = "refunded"
)

// ActorRef is the joined user object some records carry
type ActorRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	TotalPoints int    `json:"total_points"`
}

// LocationRef is the city a place belongs to
type LocationRef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

// PlaceRef is the joined point of interest of a record
type PlaceRef struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Category   string       `json:"category"`
	LocationID string       `json:"city_id"`
	Location   *LocationRef `json:"city,omitempty"`
}

// Record is a single raw event consumed by the reports. Joined objects are
// optional and kind-specific values live in Fields with no schema guarantee.
type Record struct {
	Kind    RecordKind     `json:"kind"`
	ID      string         `json:"id"`
	ActorID string         `json:"user_id,omitempty"`
	Actor   *ActorRef      `json:"user,omitempty"`
	Place   *PlaceRef      `json:"place,omitempty"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// Field returns a raw field value, nil when absent
func (r Record) Field(name string) any {
	if r.Fields == nil {
		return nil
	}
	return r.Fields[name]
}

// ResolveActorID returns the flat actor id, falling back to the joined user
func (r Record) ResolveActorID() string {
	if r.ActorID != "" {
		return r.ActorID
	}
	if r.Actor != nil {
		return r.Actor.ID
	}
	return ""
}

// ResolveLocation walks record → place → location and falls back to flat
// city_id / city_name / country fields. Empty strings mean unresolved.
func (r Record) ResolveLocation() (id, name, country string) {
	if r.Place != nil {
		id = r.Place.LocationID
		if r.Place.Location != nil {
			if id == "" {
				id = r.Place.Location.ID
			}
			name = r.Place.Location.Name
			country = r.Place.Location.Country
		}
	}
	if id == "" {
		id = r.String("city_id")
	}
	if name == "" {
		name = r.String("city_name")
	}
	if country == "" {
		country = r.String("country")
	}
	return id, name, country
}

// ResolvePlaceID returns the place key used for grouping. Records without a
// place get a key derived from their own id so they never merge.
func (r Record) ResolvePlaceID() string {
	if id := r.String("poi_id"); id != "" {
		return id
	}
	if r.Place != nil && r.Place.ID != "" {
		return r.Place.ID
	}
	return fmt.Sprintf("%s-%s", r.Kind, r.ID)
}

// PlaceName returns the joined place name or the flat poi_name field
func (r Record) PlaceName() string {
	if r.Place != nil && r.Place.Name != "" {
		return r.Place.Name
	}
	return r.String("poi_name")
}

// Category returns the place category, empty when unknown
func (r Record) Category() string {
	if r.Place != nil {
		return r.Place.Category
	}
	return ""
}

// Status returns the status field (bookings)
func (r Record) Status() string {
	return r.String("status")
}

// String returns a field as text. Numbers are formatted, anything else is "".
func (r Record) String(name string) string {
	switch v := r.Field(name).(type) {
	case string:
		return v
	case *string:
		if v != nil {
			return *v
		}
	case json.Number:
		return v.String()
	case fmt.Stringer:
		return v.String()
	case int, int32, int64, uint, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// Number returns a numeric field. Missing, null or non-numeric values are 0.
func (r Record) Number(name string) float64 {
	n, _ := ToFloat(r.Field(name))
	return n
}

// Rating returns the rating field and whether it holds a real number.
// Text ratings are rejected even when they look numeric.
func (r Record) Rating() (float64, bool) {
	value := r.Field("rating")
	if _, isText := value.(string); isText {
		return 0, false
	}
	return ToFloat(value)
}

// Timestamp resolves a timestamp field; ok is false when absent or unparsable
func (r Record) Timestamp(field string) (time.Time, bool) {
	return ParseTime(r.Field(field))
}

// ToFloat coerces any value to float64. The bool reports whether the value
// was genuinely numeric; the float is 0 otherwise. NaN and infinities are
// not numeric.
func ToFloat(value any) (float64, bool) {
	f, ok := toFloat(value)
	if !ok || !IsFinite(f) {
		return 0, false
	}
	return f, true
}

// IsFinite reports whether f is neither NaN nor an infinity
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case *float64:
		if v == nil {
			return 0, false
		}
		return *v, true
	case *int:
		if v == nil {
			return 0, false
		}
		return float64(*v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999-07",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime resolves a timestamp from a time value or an ISO-8601 string
func ParseTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, false
		}
		return *v, true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// RecordFromMap builds a Record from a row shaped like the hosted store's
// REST output, where joins appear as nested objects:
// {"poi_id": .., "points_of_interest": {"name": .., "cities": {..}}, "users": {..}}
func RecordFromMap(kind RecordKind, row map[string]any) Record {
	rec := Record{
		Kind:   kind,
		ID:     stringOf(row["id"]),
		Fields: make(map[string]any, len(row)),
	}
	for key, value := range row {
		switch value.(type) {
		case map[string]any:
			continue
		}
		rec.Fields[key] = value
	}
	rec.ActorID = stringOf(row["user_id"])
	if kind == KindNewUsers && rec.ActorID == "" {
		rec.ActorID = rec.ID
	}

	if users, ok := row["users"].(map[string]any); ok {
		points, _ := ToFloat(users["total_points"])
		rec.Actor = &ActorRef{
			ID:          stringOf(users["id"]),
			Name:        stringOf(users["name"]),
			Email:       stringOf(users["email"]),
			TotalPoints: int(points),
		}
	}

	poi := firstMap(row["points_of_interest"], row["poi"])
	city := firstMap(poi["cities"], poi["city"], row["city"])
	if len(poi) > 0 || len(city) > 0 {
		rec.Place = &PlaceRef{
			ID:         stringOf(poi["id"]),
			Name:       stringOf(poi["name"]),
			Category:   stringOf(poi["category"]),
			LocationID: stringOf(poi["city_id"]),
		}
		if len(city) > 0 {
			rec.Place.Location = &LocationRef{
				ID:      stringOf(city["id"]),
				Name:    stringOf(city["name"]),
				Country: stringOf(city["country"]),
			}
		}
	}
	return rec
}

func firstMap(values ...any) map[string]any {
	for _, v := range values {
		if m, ok := v.(map[string]any); ok && len(m) > 0 {
			return m
		}
	}
	return map[string]any{}
}

func stringOf(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return fmt.Sprintf("%v", value)
}
