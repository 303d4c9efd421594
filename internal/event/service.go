package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/danevents/api/internal/cache"
	"github.com/danevents/api/internal/config"
	apperrors "github.com/danevents/api/internal/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service implements event business logic with a read-through cache in
// front of the repository. The repository is always the source of
// truth; cached copies are disposable.
type Service struct {
	repo   Repository
	cache  cache.Service
	ttl    config.CacheConfig
	logger Logger
}

// NewService creates a new event service instance
func NewService(repo Repository, cacheService cache.Service, ttl config.CacheConfig, logger Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cacheService,
		ttl:    ttl,
		logger: logger,
	}
}

// ListEvents returns one page of events for the given options, served
// from the cache when possible.
func (s *Service) ListEvents(ctx context.Context, opts ListOptions) (*PaginatedEvents, bool, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 10
	}

	userID := ""
	if opts.Booked == "true" || opts.Booked == "false" {
		userID = opts.UserID.String()
	}
	startDate, endDate := "", ""
	if opts.StartDate != nil {
		startDate = opts.StartDate.Format("2006-01-02")
	}
	if opts.EndDate != nil {
		endDate = opts.EndDate.Format("2006-01-02")
	}
	key := cache.EventListKey(opts.Page, opts.Limit, opts.Category, startDate, endDate, opts.SortOrder, opts.Booked, userID)

	return cacheGetOrFetch(ctx, s, key, func() (*PaginatedEvents, error) {
		events, total, err := s.repo.List(ctx, opts)
		if err != nil {
			return nil, err
		}
		totalPages := int(math.Ceil(float64(total) / float64(opts.Limit)))
		return &PaginatedEvents{
			Events: events,
			Pagination: Pagination{
				CurrentPage: opts.Page,
				TotalPages:  totalPages,
				TotalEvents: total,
				HasMore:     int64((opts.Page-1)*opts.Limit+len(events)) < total,
			},
		}, nil
	})
}

// GetEvent returns a single event by id, served from the cache when
// possible.
func (s *Service) GetEvent(ctx context.Context, id uuid.UUID) (*Event, bool, error) {
	return cacheGetOrFetch(ctx, s, cache.EventKey(id.String()), func() (*Event, error) {
		event, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if event == nil {
			return nil, apperrors.NewNotFoundError("event")
		}
		return event, nil
	})
}

// CreateEvent validates and persists a new event, then evicts the
// events listing cache. Only the unparameterized listing key is evicted;
// parameterized listing pages age out by TTL.
func (s *Service) CreateEvent(ctx context.Context, event *Event) error {
	if event.ImageURL == "" {
		event.ImageURL = DefaultImageURL
	}
	if err := validateNew(event); err != nil {
		return err
	}

	exists, err := s.repo.ExistsOnDay(ctx, event.Name, event.Date)
	if err != nil {
		return fmt.Errorf("failed to check for existing event: %w", err)
	}
	if exists {
		return apperrors.NewConflictError(apperrors.ErrMsgEventExists)
	}

	if err := s.repo.Create(ctx, event); err != nil {
		// two concurrent creates race past the check; the unique
		// index decides
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.NewConflictError(apperrors.ErrMsgEventExists)
		}
		return fmt.Errorf("failed to create event: %w", err)
	}

	s.invalidate(ctx, cache.AllEventsKey)
	return nil
}

// UpdateEvent applies the allow-listed fields to an existing event and
// overwrites its cache entry with the new value. Writing through avoids
// a miss window on the updated key; listing caches are left to expire.
func (s *Service) UpdateEvent(ctx context.Context, id uuid.UUID, req *UpdateRequest) (*Event, error) {
	if err := validateUpdate(req); err != nil {
		return nil, err
	}

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	if event == nil {
		return nil, apperrors.NewNotFoundError("event")
	}

	if req.Name != nil {
		event.Name = *req.Name
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Price != nil {
		event.Price = *req.Price
	}
	if req.Venue != nil {
		event.Venue = *req.Venue
	}
	if req.Category != nil {
		event.Category = *req.Category
	}
	if req.Date != nil {
		event.Date = *req.Date
	}
	if req.ImageURL != nil {
		event.ImageURL = *req.ImageURL
	}

	if err := s.repo.Save(ctx, event); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.NewConflictError(apperrors.ErrMsgEventExists)
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	s.writeThrough(ctx, cache.EventKey(id.String()), event)
	return event, nil
}

// DeleteEvent removes an event and evicts its cache entry
func (s *Service) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFoundError("event")
	}

	s.invalidate(ctx, cache.EventKey(id.String()))
	return nil
}

// writeThrough overwrites a cache entry with a fresh value. Failures
// are logged and swallowed; the persisted mutation has already
// committed.
func (s *Service) writeThrough(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), s.ttl.EventTTL); err != nil {
		s.logger.LogWarn("Failed to write through event cache", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

// invalidate deletes cache keys, logging failures without escalation
func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.LogWarn("Failed to invalidate event cache", map[string]interface{}{
			"keys":  keys,
			"error": err.Error(),
		})
	}
}

// cacheGetOrFetch binds the service's store and event TTL to the
// cache-aside wrapper
func cacheGetOrFetch[T any](ctx context.Context, s *Service, key string, fetch func() (T, error)) (T, bool, error) {
	return cache.GetOrFetch(ctx, s.cache, key, s.ttl.EventTTL, fetch)
}
