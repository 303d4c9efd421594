package booking

import (
	"time"

	"github.com/danevents/api/internal/event"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status represents the possible statuses of a booking
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Booking represents a user's booking of an event. The unique index on
// (user_id, event_id) is the authority for the one-booking-per-event
// rule: concurrent duplicate attempts race past the application check
// and the second insert fails there.
type Booking struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID    `gorm:"type:uuid;not null;index;uniqueIndex:idx_bookings_user_event" json:"userId"`
	EventID     uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_bookings_user_event" json:"eventId"`
	BookingDate time.Time    `json:"bookingDate"`
	Status      Status       `gorm:"not null;default:confirmed" json:"status"`
	Event       *event.Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
}

// BeforeCreate hook for Booking model
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.BookingDate.IsZero() {
		b.BookingDate = time.Now()
	}
	if b.Status == "" {
		b.Status = StatusConfirmed
	}
	return nil
}
