package booking

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// bookingRepository implements Repository backed by GORM
type bookingRepository struct {
	db *gorm.DB
}

// NewRepository creates a new GORM-backed booking repository
func NewRepository(db *gorm.DB) Repository {
	return &bookingRepository{db: db}
}

// FindConfirmed returns (nil, nil) when the user holds no confirmed
// booking for the event
func (r *bookingRepository) FindConfirmed(ctx context.Context, userID, eventID uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ? AND status = ?", userID, eventID, StatusConfirmed).
		First(&booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

// ListByUser returns the user's bookings with their events attached
func (r *bookingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Preload("Event").
		Where("user_id = ?", userID).
		Order("booking_date DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
