package booking

import (
	"errors"

	"github.com/danevents/api/internal/auth"
	apperrors "github.com/danevents/api/internal/errors"
	"github.com/danevents/api/internal/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for booking endpoints
type Handler struct {
	service         *Service
	responseHandler ResponseHandler
}

// NewHandler creates a new booking handler instance
func NewHandler(service *Service, responseHandler ResponseHandler) *Handler {
	return &Handler{
		service:         service,
		responseHandler: responseHandler,
	}
}

// @Summary Book event
// @Description Book an event for the authenticated user
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 201 {object} http.Response{data=Booking} "Booking created"
// @Failure 400 {object} http.Response "Invalid event ID format"
// @Failure 404 {object} http.Response "Event not found"
// @Failure 409 {object} http.Response "Event already booked"
// @Router /events/book/{id} [post]
func (h *Handler) HandleCreate(c *gin.Context) {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		h.responseHandler.UnauthorizedResponse(c, "TOKEN_MISSING", "Authentication required")
		return
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.responseHandler.ValidationErrorResponse(c, "id", "Invalid event ID format")
		return
	}

	booking, err := h.service.CreateBooking(c.Request.Context(), userID, eventID)
	if err != nil {
		var notFound *apperrors.NotFoundError
		if errors.As(err, &notFound) {
			h.responseHandler.NotFoundResponse(c, apperrors.ErrMsgEventNotFound)
			return
		}
		var conflict *apperrors.ConflictError
		if errors.As(err, &conflict) {
			h.responseHandler.ConflictResponse(c, conflict.Message)
			return
		}
		h.responseHandler.InternalErrorResponse(c, "Failed to create booking", err)
		return
	}

	h.responseHandler.CreatedResponse(c, booking, "Event booked successfully")
}

// @Summary List bookings
// @Description List the authenticated user's bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} http.Response{data=[]Booking} "Bookings listed"
// @Failure 401 {object} http.Response "Unauthorized"
// @Router /events/bookings [get]
func (h *Handler) HandleList(c *gin.Context) {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		h.responseHandler.UnauthorizedResponse(c, "TOKEN_MISSING", "Authentication required")
		return
	}

	bookings, fromCache, err := h.service.ListBookings(c.Request.Context(), userID)
	if err != nil {
		h.responseHandler.InternalErrorResponse(c, "Failed to list bookings", err)
		return
	}

	middleware.GetLogger(c).LogDebug("Bookings listed", map[string]interface{}{
		"userID":    userID.String(),
		"count":     len(bookings),
		"fromCache": fromCache,
	})
	h.responseHandler.SuccessResponse(c, bookings, "Bookings retrieved successfully")
}
