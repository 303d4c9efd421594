package booking

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Repository defines the persistence operations for bookings
type Repository interface {
	FindConfirmed(ctx context.Context, userID, eventID uuid.UUID) (*Booking, error)
	Create(ctx context.Context, booking *Booking) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Booking, error)
}

// ResponseHandler handles HTTP responses
type ResponseHandler interface {
	SuccessResponse(c *gin.Context, data interface{}, message string)
	CreatedResponse(c *gin.Context, data interface{}, message string)
	ErrorResponse(c *gin.Context, status int, code, message string, err error)
	ValidationErrorResponse(c *gin.Context, field, message string)
	NotFoundResponse(c *gin.Context, message string)
	ConflictResponse(c *gin.Context, message string)
	UnauthorizedResponse(c *gin.Context, code, message string)
	InternalErrorResponse(c *gin.Context, message string, err error)
}

// Logger interface for logging operations
type Logger interface {
	LogInfo(msg string, fields map[string]interface{})
	LogError(err error, msg string) error
	LogWarn(msg string, fields map[string]interface{})
}
