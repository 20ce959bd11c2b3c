package reporting

import (
	"time"

	"github.com/guiaturistica/reportes-api/internal/models"
)

// Criteria narrows a record set by actor and location. Empty fields are
// inactive.
type Criteria struct {
	ActorID    string `json:"user_id,omitempty"`
	LocationID string `json:"city_id,omitempty"`
	Country    string `json:"country,omitempty"`
}

// HasLocation reports whether a location or country filter is active
func (c Criteria) HasLocation() bool {
	return c.LocationID != "" || c.Country != ""
}

// LocationOnly drops the actor part of the criteria
func (c Criteria) LocationOnly() Criteria {
	return Criteria{LocationID: c.LocationID, Country: c.Country}
}

// MatchesActor reports whether rec belongs to actorID. An empty actorID
// matches everything.
func MatchesActor(rec models.Record, actorID string) bool {
	if actorID == "" {
		return true
	}
	return rec.ResolveActorID() == actorID
}

// MatchesLocation reports whether rec resolves to the requested location.
// Records with no location data pass when no filter is active and fail
// otherwise. When both locationID and country are set both must match.
func MatchesLocation(rec models.Record, locationID, country string) bool {
	if locationID == "" && country == "" {
		return true
	}
	recLocation, _, recCountry := rec.ResolveLocation()
	if locationID != "" && recLocation != locationID {
		return false
	}
	if country != "" && recCountry != country {
		return false
	}
	return true
}

// FilterRecords keeps the records matching every active criterion,
// preserving order
func FilterRecords(records []models.Record, c Criteria) []models.Record {
	filtered := make([]models.Record, 0, len(records))
	for _, rec := range records {
		if !MatchesActor(rec, c.ActorID) {
			continue
		}
		if !MatchesLocation(rec, c.LocationID, c.Country) {
			continue
		}
		filtered = append(filtered, rec)
	}
	return filtered
}

// FilterByDate keeps records whose field timestamp is within [start, end].
// Records with a missing or unparsable timestamp are dropped.
func FilterByDate(records []models.Record, field string, start, end time.Time) []models.Record {
	filtered := make([]models.Record, 0, len(records))
	for _, rec := range records {
		ts, ok := rec.Timestamp(field)
		if !ok || ts.Before(start) || ts.After(end) {
			continue
		}
		filtered = append(filtered, rec)
	}
	return filtered
}

// FilterByStatus keeps records whose status is one of statuses
func FilterByStatus(records []models.Record, statuses ...string) []models.Record {
	allowed := make(map[string]struct{}, len(statuses))
	for _, s := range statuses {
		allowed[s] = struct{}{}
	}
	filtered := make([]models.Record, 0, len(records))
	for _, rec := range records {
		if _, ok := allowed[rec.Status()]; ok {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

// Confirmed keeps bookings that count as paid
func Confirmed(bookings []models.Record) []models.Record {
	return FilterByStatus(bookings, models.BookingStatusConfirmed, models.BookingStatusCompleted)
}

// Refunded keeps bookings that were cancelled or refunded
func Refunded(bookings []models.Record) []models.Record {
	return FilterByStatus(bookings, models.BookingStatusCancelled, models.BookingStatusRefunded)
}

// Pending keeps bookings still waiting for confirmation
func Pending(bookings []models.Record) []models.Record {
	return FilterByStatus(bookings, models.BookingStatusPending)
}
