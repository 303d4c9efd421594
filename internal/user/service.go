package user

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/danevents/api/internal/auth"
	"github.com/danevents/api/internal/cache"
	"github.com/danevents/api/internal/config"
	apperrors "github.com/danevents/api/internal/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UpdateProfileRequest carries the allow-listed fields a user may
// change on their own profile
type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// Service implements user management business logic
type Service struct {
	users  auth.UserRepository
	cache  cache.Service
	ttl    config.CacheConfig
	logger Logger
}

// NewService creates a new user service instance
func NewService(users auth.UserRepository, cacheService cache.Service, ttl config.CacheConfig, logger Logger) *Service {
	return &Service{
		users:  users,
		cache:  cacheService,
		ttl:    ttl,
		logger: logger,
	}
}

// ListUsers returns all users, served from the cache when possible
func (s *Service) ListUsers(ctx context.Context) ([]auth.User, bool, error) {
	return cache.GetOrFetch(ctx, s.cache, cache.AllUsersKey, s.ttl.UserTTL, func() ([]auth.User, error) {
		return s.users.List(ctx)
	})
}

// GetUser returns a single user by id, served from the cache when
// possible
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*auth.User, bool, error) {
	return cache.GetOrFetch(ctx, s.cache, cache.UserKey(id.String()), s.ttl.UserTTL, func() (*auth.User, error) {
		user, err := s.users.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, apperrors.NewNotFoundError("user")
		}
		return user, nil
	})
}

// ToggleRole flips the admin flag of a user and evicts the affected
// cache keys
func (s *Service) ToggleRole(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, apperrors.NewNotFoundError("user")
	}

	user.IsAdmin = !user.IsAdmin
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user role: %w", err)
	}

	s.invalidate(ctx, id.String())
	return user, nil
}

// UpdateProfile applies the allow-listed profile fields for the user
// and evicts the affected cache keys
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, req *UpdateProfileRequest) (*auth.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, apperrors.NewNotFoundError("user")
	}

	if req.Name != nil {
		if len(*req.Name) < 3 || len(*req.Name) > 50 {
			return nil, apperrors.NewValidationError("name", "name must be between 3 and 50 characters")
		}
		user.Name = *req.Name
	}
	if req.Email != nil {
		if !emailPattern.MatchString(*req.Email) {
			return nil, apperrors.NewValidationError("email", "invalid email format")
		}
		user.Email = *req.Email
	}

	if err := s.users.Save(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.NewConflictError(apperrors.ErrMsgEmailExists)
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.invalidate(ctx, id.String())
	return user, nil
}

// SetProfileImage stores the uploaded image URL on the user and evicts
// the affected cache keys
func (s *Service) SetProfileImage(ctx context.Context, id uuid.UUID, imageURL string) (*auth.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, apperrors.NewNotFoundError("user")
	}

	user.ImageURL = imageURL
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile image: %w", err)
	}

	s.invalidate(ctx, id.String())
	return user, nil
}

// invalidate evicts the user's cache entry and the all-users listing.
// Failures are logged, never escalated.
func (s *Service) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.UserKey(userID), cache.AllUsersKey); err != nil {
		s.logger.LogWarn("Failed to invalidate user cache", map[string]interface{}{
			"userID": userID,
			"error":  err.Error(),
		})
	}
}
