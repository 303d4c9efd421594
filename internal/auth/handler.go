package auth

import (
	"errors"
	stdhttp "net/http"

	apperrors "github.com/danevents/api/internal/errors"
	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for auth endpoints
type Handler struct {
	service         *Service
	responseHandler ResponseHandler
}

// NewHandler creates a new auth handler instance
func NewHandler(service *Service, responseHandler ResponseHandler) *Handler {
	return &Handler{
		service:         service,
		responseHandler: responseHandler,
	}
}

// RegisterRoutes registers all auth routes
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/register", h.handleRegister)
	api.POST("/login", h.handleLogin)
}

// @Summary Register new user
// @Description Register a new user account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration details"
// @Success 201 {object} http.Response{data=User} "Registration successful"
// @Failure 400 {object} http.Response "Invalid request format"
// @Failure 409 {object} http.Response "Email already exists"
// @Router /register [post]
func (h *Handler) handleRegister(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responseHandler.ValidationErrorResponse(c, "request", "All fields are required")
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		var conflict *apperrors.ConflictError
		if errors.As(err, &conflict) {
			h.responseHandler.ConflictResponse(c, conflict.Message)
			return
		}
		h.responseHandler.InternalErrorResponse(c, "Failed to register user", err)
		return
	}

	h.responseHandler.CreatedResponse(c, user, "User registered successfully")
}

// @Summary Login user
// @Description Authenticate user and return a JWT access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} http.Response{data=LoginResponse} "Login successful"
// @Failure 400 {object} http.Response "Invalid request format"
// @Failure 401 {object} http.Response "Invalid credentials"
// @Router /login [post]
func (h *Handler) handleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responseHandler.ValidationErrorResponse(c, "request", "All fields are required")
		return
	}

	response, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.responseHandler.ErrorResponse(c, stdhttp.StatusUnauthorized, "AUTH_ERROR", "Invalid email or password", err)
		return
	}

	h.responseHandler.SuccessResponse(c, response, "Login successful")
}
