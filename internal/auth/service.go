package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/danevents/api/internal/cache"
	apperrors "github.com/danevents/api/internal/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service handles registration and login
type Service struct {
	users  UserRepository
	token  TokenService
	cache  cache.Service
	logger Logger
}

// NewService creates a new auth service instance
func NewService(users UserRepository, token TokenService, cacheService cache.Service, logger Logger) *Service {
	return &Service{
		users:  users,
		token:  token,
		cache:  cacheService,
		logger: logger,
	}
}

// Register creates a new user with a hashed password. New users are
// never admins.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}
	if existing != nil {
		return nil, apperrors.NewConflictError(apperrors.ErrMsgEmailExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
		IsAdmin:  false,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// the unique index is the authority under concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.NewConflictError(apperrors.ErrMsgEmailExists)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.invalidateUserKeys(ctx, user.ID.String())
	return user, nil
}

// Login authenticates a user and returns a signed access token
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	token, err := s.token.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   86400,
		User:        user,
	}, nil
}

// ValidateToken validates an access token
func (s *Service) ValidateToken(token string) (*TokenClaims, error) {
	return s.token.ValidateAccessToken(token)
}

// invalidateUserKeys evicts the user's cache entry and the all-users
// listing. Failures are logged, never escalated: the mutation has
// already committed.
func (s *Service) invalidateUserKeys(ctx context.Context, userID string) {
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
