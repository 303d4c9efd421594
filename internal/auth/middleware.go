package auth

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys set by the middleware
const (
	ContextUserIDKey = "userID"
	ContextRoleKey   = "userRole"
	ContextEmailKey  = "userEmail"
)

// AuthMiddleware validates the bearer token and attaches identity and
// role claims to the request context. When roles are given, the claim
// role must be a member of the set.
func AuthMiddleware(token TokenService, responseHandler ResponseHandler, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c, token, responseHandler)
		if !ok {
			return
		}

		if len(roles) > 0 && !containsRole(roles, claims.Role) {
			responseHandler.ForbiddenResponse(c, "Access denied")
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextRoleKey, claims.Role)
		c.Set(ContextEmailKey, claims.Email)
		c.Next()
	}
}

// RequireAdminLookup authenticates the request and then re-confirms the
// admin role with a fresh read from the persistence layer. The token is
// only a hint for the highest-privilege operations; the store is the
// authority.
func RequireAdminLookup(token TokenService, users UserRepository, responseHandler ResponseHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c, token, responseHandler)
		if !ok {
			return
		}

		id, err := uuid.Parse(claims.UserID)
		if err != nil {
			responseHandler.UnauthorizedResponse(c, "TOKEN_INVALID", "Invalid token")
			c.Abort()
			return
		}

		user, err := users.FindByID(c.Request.Context(), id)
		if err != nil {
			responseHandler.InternalErrorResponse(c, "Failed to verify privileges", err)
			c.Abort()
			return
		}
		if user == nil || !user.IsAdmin {
			responseHandler.ForbiddenResponse(c, "Access denied")
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextRoleKey, RoleAdmin)
		c.Set(ContextEmailKey, claims.Email)
		c.Next()
	}
}

// OptionalAuthMiddleware attaches identity claims when a valid bearer
// token is present but never rejects the request. Handlers that need
// the identity check for it themselves.
func OptionalAuthMiddleware(token TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			if claims, err := token.ValidateAccessToken(parts[1]); err == nil {
				c.Set(ContextUserIDKey, claims.UserID)
				c.Set(ContextRoleKey, claims.Role)
				c.Set(ContextEmailKey, claims.Email)
			}
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, token TokenService, responseHandler ResponseHandler) (*TokenClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		responseHandler.UnauthorizedResponse(c, "TOKEN_MISSING", "No authentication token provided")
		c.Abort()
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		responseHandler.UnauthorizedResponse(c, "TOKEN_INVALID", "Invalid authorization header format")
		c.Abort()
		return nil, false
	}

	claims, err := token.ValidateAccessToken(parts[1])
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			responseHandler.UnauthorizedResponse(c, "TOKEN_EXPIRED", "Authentication token has expired")
		} else {
			responseHandler.UnauthorizedResponse(c, "TOKEN_INVALID", "Invalid token")
		}
		c.Abort()
		return nil, false
	}

	return claims, true
}

// CurrentUserID returns the authenticated user's id from the gin context
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	s, ok := raw.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func containsRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
