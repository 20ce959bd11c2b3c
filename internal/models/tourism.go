package models

import (
	"time"

	"github.com/goccy/go-json"
	"gorm.io/datatypes"
)

// City is a destination offered by the guide
type City struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Country   string    `json:"country"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for City
func (City) TableName() string {
	return "cities"
}

// PointOfInterest is a place that can be visited or booked
type PointOfInterest struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	CityID       string    `gorm:"type:uuid;index" json:"city_id"`
	Name         string    `gorm:"not null" json:"name"`
	Category     string    `json:"category"`
	Rating       float64   `json:"rating"`
	TotalReviews int       `json:"total_reviews"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`

	// Associations
	City *City `gorm:"foreignKey:CityID" json:"cities,omitempty"`
}

// TableName specifies the table name for PointOfInterest
func (PointOfInterest) TableName() string {
	return "points_of_interest"
}

// ToPlace converts the joined point of interest into a record reference
func (p *PointOfInterest) ToPlace() *PlaceRef {
	if p == nil {
		return nil
	}
	place := &PlaceRef{
		ID:         p.ID,
		Name:       p.Name,
		Category:   p.Category,
		LocationID: p.CityID,
	}
	if p.City != nil {
		place.Location = &LocationRef{
			ID:      p.City.ID,
			Name:    p.City.Name,
			Country: p.City.Country,
		}
	}
	return place
}

// Visit is a user's registered visit to a point of interest
type Visit struct {
	ID        string     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string     `gorm:"type:uuid;index" json:"user_id"`
	PoiID     string     `gorm:"column:poi_id;type:uuid;index" json:"poi_id"`
	VisitDate *time.Time `gorm:"index" json:"visit_date"`
	Rating    *float64   `json:"rating"`
	Review    *string    `json:"review"`

	// Associations
	PointOfInterest *PointOfInterest `gorm:"foreignKey:PoiID" json:"points_of_interest,omitempty"`
	User            *User            `gorm:"foreignKey:UserID" json:"users,omitempty"`
}

// TableName specifies the table name for Visit
func (Visit) TableName() string {
	return "user_visits"
}

// ToRecord converts a visit row into a report record
func (v *Visit) ToRecord() Record {
	rec := Record{
		Kind:    KindVisits,
		ID:      v.ID,
		ActorID: v.UserID,
		Place:   v.PointOfInterest.ToPlace(),
		Fields: map[string]any{
			"poi_id":     v.PoiID,
			"visit_date": v.VisitDate,
			"rating":     v.Rating,
		},
	}
	if v.User != nil {
		rec.Actor = v.User.ToActor()
	}
	return rec
}

// Booking is a reservation for a point of interest
type Booking struct {
	ID          string     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string     `gorm:"type:uuid;index" json:"user_id"`
	PoiID       string     `gorm:"column:poi_id;type:uuid;index" json:"poi_id"`
	BookingDate *time.Time `gorm:"index" json:"booking_date"`
	NumPeople   int        `gorm:"column:num_people;default:1" json:"num_people"`
	TotalPrice  *float64   `json:"total_price"`
	Status      string     `gorm:"default:pending" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`

	// Associations
	PointOfInterest *PointOfInterest `gorm:"foreignKey:PoiID" json:"points_of_interest,omitempty"`
	User            *User            `gorm:"foreignKey:UserID" json:"users,omitempty"`
}

// TableName specifies the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// ToRecord converts a booking row into a report record
func (b *Booking) ToRecord() Record {
	rec := Record{
		Kind:    KindBookings,
		ID:      b.ID,
		ActorID: b.UserID,
		Place:   b.PointOfInterest.ToPlace(),
		Fields: map[string]any{
			"poi_id":       b.PoiID,
			"booking_date": b.BookingDate,
			"total_price":  b.TotalPrice,
			"num_people":   b.NumPeople,
			"status":       b.Status,
		},
	}
	if b.User != nil {
		rec.Actor = b.User.ToActor()
	}
	return rec
}

// UsageStat is a tracked interaction with the dashboard
type UsageStat struct {
	ID         string         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     *string        `gorm:"type:uuid;index" json:"user_id"`
	ActionType string         `gorm:"index" json:"action_type"`
	Timestamp  *time.Time     `gorm:"index" json:"timestamp"`
	Metadata   datatypes.JSON `json:"metadata"`
}

// TableName specifies the table name for UsageStat
func (UsageStat) TableName() string {
	return "usage_stats"
}

// ToRecord converts a usage row into a report record. Metadata keys are
// copied into the fields unless they would shadow a column.
func (u *UsageStat) ToRecord() Record {
	rec := Record{
		Kind: KindUsageEvents,
		ID:   u.ID,
		Fields: map[string]any{
			"action_type": u.ActionType,
			"timestamp":   u.Timestamp,
		},
	}
	if u.UserID != nil {
		rec.ActorID = *u.UserID
	}
	if len(u.Metadata) > 0 {
		var meta map[string]any
		if err := json.Unmarshal(u.Metadata, &meta); err == nil {
			for key, value := range meta {
				if _, exists := rec.Fields[key]; !exists {
					rec.Fields[key] = value
				}
			}
		}
	}
	return rec
}

// Achievement is a badge earned by a user
type Achievement struct {
	ID              string     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          string     `gorm:"type:uuid;index" json:"user_id"`
	AchievementType string     `json:"achievement_type"`
	Points          *int       `json:"points"`
	EarnedAt        *time.Time `gorm:"index" json:"earned_at"`
}

// TableName specifies the table name for Achievement
func (Achievement) TableName() string {
	return "user_achievements"
}

// ToRecord converts an achievement row into a report record
func (a *Achievement) ToRecord() Record {
	return Record{
		Kind:    KindAchievements,
		ID:      a.ID,
		ActorID: a.UserID,
		Fields: map[string]any{
			"achievement_type": a.AchievementType,
			"points":           a.Points,
			"earned_at":        a.EarnedAt,
		},
	}
}
