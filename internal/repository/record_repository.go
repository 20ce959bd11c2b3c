package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guiaturistica/reportes-api/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup matches nothing
var ErrNotFound = errors.New("registro no encontrado")

// ErrUnknownKind is returned for a record kind the source does not serve
var ErrUnknownKind = errors.New("tipo de registro desconocido")

// RecordRepository is the data source the report engine pulls from
type RecordRepository interface {
	// GetRecords returns the records of kind whose timestamp lies in [start, end]
	GetRecords(ctx context.Context, kind models.RecordKind, start, end time.Time) ([]models.Record, error)
	// GetActor returns the profile of a user
	GetActor(ctx context.Context, actorID string) (*models.ActorRef, error)
}

type recordRepository struct {
	db *gorm.DB
}

// NewRecordRepository creates a record repository over the hosted store
func NewRecordRepository(db *gorm.DB) RecordRepository {
	return &recordRepository{db: db}
}

func (r *recordRepository) GetRecords(ctx context.Context, kind models.RecordKind, start, end time.Time) ([]models.Record, error) {
	column := kind.TimestampField()
	scoped := r.db.WithContext(ctx).
		Where(fmt.Sprintf("%s BETWEEN ? AND ?", column), start, end).
		Order(fmt.Sprintf("%s DESC", column))

	switch kind {
	case models.KindVisits:
		var visits []models.Visit
		err := scoped.
			Preload("PointOfInterest.City").
			Preload("User").
			Find(&visits).Error
		if err != nil {
			return nil, err
		}
		records := make([]models.Record, 0, len(visits))
		for i := range visits {
			records = append(records, visits[i].ToRecord())
		}
		return records, nil

	case models.KindBookings:
		var bookings []models.Booking
		err := scoped.
			Preload("PointOfInterest.City").
			Preload("User").
			Find(&bookings).Error
		if err != nil {
			return nil, err
		}
		records := make([]models.Record, 0, len(bookings))
		for i := range bookings {
			records = append(records, bookings[i].ToRecord())
		}
		return records, nil

	case models.KindUsageEvents:
		var stats []models.UsageStat
		if err := scoped.Find(&stats).Error; err != nil {
			return nil, err
		}
		records := make([]models.Record, 0, len(stats))
		for i := range stats {
			records = append(records, stats[i].ToRecord())
		}
		return records, nil

	case models.KindAchievements:
		var achievements []models.Achievement
		if err := scoped.Find(&achievements).Error; err != nil {
			return nil, err
		}
		records := make([]models.Record, 0, len(achievements))
		for i := range achievements {
			records = append(records, achievements[i].ToRecord())
		}
		return records, nil

	case models.KindNewUsers:
		var users []models.User
		if err := scoped.Find(&users).Error; err != nil {
			return nil, err
		}
		records := make([]models.Record, 0, len(users))
		for i := range users {
			records = append(records, users[i].ToRecord())
		}
		return records, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
}

func (r *recordRepository) GetActor(ctx context.Context, actorID string) (*models.ActorRef, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("id = ?", actorID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user.ToActor(), nil
}
