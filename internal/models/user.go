package models

import (
	"time"
)

// User represents a tourist or administrator of the guide
type User struct {
	ID               string    `gorm:"type:uuid;primaryKey" json:"id"`
	Email            string    `gorm:"uniqueIndex;not null" json:"email"`
	Name             string    `json:"name"`
	Role             string    `gorm:"default:user" json:"role"`
	SubscriptionTier string    `gorm:"default:free" json:"subscription_tier"`
	PreferredLang    string    `gorm:"column:preferred_language;default:es" json:"preferred_language"`
	TotalPoints      int       `gorm:"default:0" json:"total_points"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// IsAdmin returns true if user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Role constants
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ToActor converts the user to the reference embedded in records
func (u *User) ToActor() *ActorRef {
	return &ActorRef{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		TotalPoints: u.TotalPoints,
	}
}

// ToRecord converts a user row into a users_created_in_range record
func (u *User) ToRecord() Record {
	return Record{
		Kind:    KindNewUsers,
		ID:      u.ID,
		ActorID: u.ID,
		Actor:   u.ToActor(),
		Fields: map[string]any{
			"created_at":        u.CreatedAt,
			"role":              u.Role,
			"subscription_tier": u.SubscriptionTier,
			"total_points":      u.TotalPoints,
		},
	}
}
