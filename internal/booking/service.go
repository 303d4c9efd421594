package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/danevents/api/internal/cache"
	"github.com/danevents/api/internal/config"
	apperrors "github.com/danevents/api/internal/errors"
	"github.com/danevents/api/internal/event"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service implements booking business logic
type Service struct {
	repo   Repository
	events event.Repository
	cache  cache.Service
	ttl    config.CacheConfig
	logger Logger
}

// NewService creates a new booking service instance
func NewService(repo Repository, events event.Repository, cacheService cache.Service, ttl config.CacheConfig, logger Logger) *Service {
	return &Service{
		repo:   repo,
		events: events,
		cache:  cacheService,
		ttl:    ttl,
		logger: logger,
	}
}

// CreateBooking books an event for a user and evicts the user's
// bookings listing from the cache. The event lookup goes through the
// cache; the duplicate check is advisory and the unique constraint on
// (user, event) settles races.
func (s *Service) CreateBooking(ctx context.Context, userID, eventID uuid.UUID) (*Booking, error) {
	_, _, err := cache.GetOrFetch(ctx, s.cache, cache.EventKey(eventID.String()), s.ttl.BookingTTL, func() (*event.Event, error) {
		evt, err := s.events.GetByID(ctx, eventID)
		if err != nil {
			return nil, err
		}
		if evt == nil {
			return nil, apperrors.NewNotFoundError("event")
		}
		return evt, nil
	})
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindConfirmed(ctx, userID, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing booking: %w", err)
	}
	if existing != nil {
		return nil, apperrors.NewConflictError(apperrors.ErrMsgBookingExists)
	}

	booking := &Booking{
		UserID:  userID,
		EventID: eventID,
		Status:  StatusConfirmed,
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.NewConflictError(apperrors.ErrMsgBookingExists)
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.invalidate(ctx, cache.UserBookingsKey(userID.String()))
	return booking, nil
}

// ListBookings returns the user's bookings with their events, served
// from the cache when possible
func (s *Service) ListBookings(ctx context.Context, userID uuid.UUID) ([]Booking, bool, error) {
	return cache.GetOrFetch(ctx, s.cache, cache.UserBookingsKey(userID.String()), s.ttl.BookingTTL, func() ([]Booking, error) {
		return s.repo.ListByUser(ctx, userID)
	})
}

// invalidate deletes cache keys, logging failures without escalation
func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.LogWarn("Failed to invalidate booking cache", map[string]interface{}{
			"keys":  keys,
			"error": err.Error(),
		})
	}
}
