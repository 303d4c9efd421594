package event

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// eventRepository implements Repository backed by GORM
type eventRepository struct {
	db *gorm.DB
}

// NewRepository creates a new GORM-backed event repository
func NewRepository(db *gorm.DB) Repository {
	return &eventRepository{db: db}
}

// List applies the filter, sort and pagination options and returns one
// page of events plus the total match count.
func (r *eventRepository) List(ctx context.Context, opts ListOptions) ([]Event, int64, error) {
	query := r.db.WithContext(ctx).Model(&Event{})

	if opts.Category != "" {
		query = query.Where("category = ?", opts.Category)
	}
	if opts.StartDate != nil {
		query = query.Where("date >= ?", *opts.StartDate)
	}
	if opts.EndDate != nil {
		query = query.Where("date <= ?", *opts.EndDate)
	}

	// booked filter subselects the user's confirmed bookings
	if opts.Booked == "true" || opts.Booked == "false" {
		sub := r.db.Table("bookings").
			Select("event_id").
			Where("user_id = ? AND status = ?", opts.UserID, "confirmed")
		if opts.Booked == "true" {
			query = query.Where("id IN (?)", sub)
		} else {
			query = query.Where("id NOT IN (?)", sub)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "date ASC"
	if opts.SortOrder == "desc" {
		order = "date DESC"
	}

	offset := (opts.Page - 1) * opts.Limit

	var events []Event
	if err := query.Order(order).Offset(offset).Limit(opts.Limit).Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// GetByID returns (nil, nil) when no event matches the id
func (r *eventRepository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// ExistsOnDay reports whether an event with the given name already
// exists on the same calendar day as date.
func (r *eventRepository) ExistsOnDay(ctx context.Context, name string, date time.Time) (bool, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var count int64
	err := r.db.WithContext(ctx).Model(&Event{}).
		Where("name = ? AND date >= ? AND date < ?", name, dayStart, dayEnd).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *eventRepository) Create(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) Save(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

// Delete removes an event and reports the number of affected rows
func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&Event{}, "id = ?", id)
	return result.RowsAffected, result.Error
}
