package event

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultImageURL is applied when an event is created without an image
const DefaultImageURL = "https://default-image-url.com/placeholder.jpg"

// Event represents a bookable event. The unique index on (name, date)
// is the authority for the no-duplicate-event rule under concurrent
// creates.
type Event struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null;index" json:"createdBy"`
	Name        string    `gorm:"not null;index;uniqueIndex:idx_events_name_date" json:"name"`
	Description string    `gorm:"not null" json:"description"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Price       float64   `gorm:"not null" json:"price"`
	Date        time.Time `gorm:"not null;index;uniqueIndex:idx_events_name_date" json:"date"`
	Venue       string    `json:"venue,omitempty"`
	Category    string    `gorm:"not null;index" json:"category"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BeforeCreate hook for Event model
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// ListOptions provides filtering, sorting and pagination for event
// listings
type ListOptions struct {
	Page      int
	Limit     int
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
	SortOrder string // asc or desc
	Booked    string // "", "all", "true", "false"
	UserID    uuid.UUID
}

// Pagination describes the position of a listing page
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalEvents int64 `json:"totalEvents"`
	HasMore     bool  `json:"hasMore"`
}

// PaginatedEvents represents one page of an events listing
type PaginatedEvents struct {
	Events     []Event    `json:"events"`
	Pagination Pagination `json:"pagination"`
}

// UpdateRequest carries the allow-listed updatable fields of an event.
// Nil fields are left untouched. New sensitive fields added to the model
// later are not updatable unless explicitly listed here.
type UpdateRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Price       *float64   `json:"price,omitempty"`
	Venue       *string    `json:"venue,omitempty"`
	Category    *string    `json:"category,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	ImageURL    *string    `json:"imageUrl,omitempty"`
}
