package user

import (
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/danevents/api/internal/auth"
	"github.com/danevents/api/internal/config"
	apperrors "github.com/danevents/api/internal/errors"
	"github.com/danevents/api/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for user management endpoints
type Handler struct {
	service         *Service
	storage         storage.Service
	upload          config.UploadConfig
	responseHandler ResponseHandler
}

// NewHandler creates a new user handler instance
func NewHandler(service *Service, storageService storage.Service, upload config.UploadConfig, responseHandler ResponseHandler) *Handler {
	return &Handler{
		service:         service,
		storage:         storageService,
		upload:          upload,
		responseHandler: responseHandler,
	}
}

// @Summary List users
// @Description List all users (admin only)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} http.Response{data=[]auth.User} "Users listed"
// @Failure 403 {object} http.Response "Forbidden"
// @Router /users [get]
func (h *Handler) HandleList(c *gin.Context) {
	users, _, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		h.responseHandler.InternalErrorResponse(c, "Failed to list users", err)
		return
	}
	h.responseHandler.SuccessResponse(c, users, "Users retrieved successfully")
}

// @Summary Get user
// @Description Get a single user by id (admin only)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} http.Response{data=auth.User} "User retrieved"
// @Failure 404 {object} http.Response "User not found"
// @Router /users/{id} [get]
func (h *Handler) HandleGet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.responseHandler.ValidationErrorResponse(c, "id", "Invalid user ID format")
		return
	}

	user, _, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err, "Failed to get user")
		return
	}
	h.responseHandler.SuccessResponse(c, user, "User retrieved successfully")
}

// @Summary Toggle user role
// @Description Toggle admin privileges for a user (admin only, verified against the store)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} http.Response "Role updated"
// @Failure 404 {object} http.Response "User not found"
// @Router /users/{id}/role [patch]
func (h *Handler) HandleToggleRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.responseHandler.ValidationErrorResponse(c, "id", "Invalid user ID format")
		return
	}

	user, err := h.service.ToggleRole(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err, "Failed to update user role")
		return
	}
	h.responseHandler.SuccessResponse(c, user, "User role updated successfully")
}

// @Summary Update own profile
// @Description Update the authenticated user's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} http.Response{data=auth.User} "Profile updated"
// @Failure 400 {object} http.Response "Validation error"
// @Router /users/me [patch]
func (h *Handler) HandleUpdateProfile(c *gin.Context) {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		h.responseHandler.UnauthorizedResponse(c, "TOKEN_MISSING", "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responseHandler.ValidationErrorResponse(c, "request", "Invalid request format")
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		h.respondServiceError(c, err, "Failed to update profile")
		return
	}
	h.responseHandler.SuccessResponse(c, user, "Profile updated successfully")
}

// @Summary Upload profile image
// @Description Upload a profile image for the authenticated user
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param profileImage formData file true "Profile image"
// @Success 200 {object} http.Response{data=auth.User} "Image uploaded"
// @Failure 400 {object} http.Response "Validation or upload error"
// @Router /users/me/image [post]
func (h *Handler) HandleUploadImage(c *gin.Context) {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		h.responseHandler.UnauthorizedResponse(c, "TOKEN_MISSING", "Authentication required")
		return
	}

	fileHeader, err := c.FormFile("profileImage")
	if err != nil {
		h.responseHandler.ValidationErrorResponse(c, "profileImage", "No image file received")
		return
	}

	url, err := h.uploadImage(c, fileHeader)
	if err != nil {
		h.responseHandler.ErrorResponse(c, 400, "UPLOAD_FAILED", apperrors.ErrMsgImageUpload, err)
		return
	}

	user, err := h.service.SetProfileImage(c.Request.Context(), userID, url)
	if err != nil {
		h.respondServiceError(c, err, "Failed to update profile image")
		return
	}
	h.responseHandler.SuccessResponse(c, user, "Profile image updated successfully")
}

// uploadImage validates the image file and stores it under the profile
// prefix
func (h *Handler) uploadImage(c *gin.Context, fileHeader *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	allowed := false
	for _, e := range h.upload.AllowedExtensions {
		if e == ext {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", apperrors.NewValidationError("profileImage", apperrors.ErrMsgImageType)
	}
	if fileHeader.Size > h.upload.MaxProfileImageSize {
		return "", apperrors.NewValidationError("profileImage", apperrors.ErrMsgImageSize)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", apperrors.NewStorageError("failed to open uploaded file", err)
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	key := storage.ProfileImagePrefix + uuid.New().String() + ext
	return h.storage.UploadImage(c.Request.Context(), key, file, fileHeader.Size, contentType)
}

// respondServiceError maps service errors to HTTP responses
func (h *Handler) respondServiceError(c *gin.Context, err error, message string) {
	var validation *apperrors.ValidationError
	if errors.As(err, &validation) {
		h.responseHandler.ValidationErrorResponse(c, validation.Field, validation.Message)
		return
	}
	var notFound *apperrors.NotFoundError
	if errors.As(err, &notFound) {
		h.responseHandler.NotFoundResponse(c, apperrors.ErrMsgUserNotFound)
		return
	}
	var conflict *apperrors.ConflictError
	if errors.As(err, &conflict) {
		h.responseHandler.ConflictResponse(c, conflict.Message)
		return
	}
	h.responseHandler.InternalErrorResponse(c, message, err)
}
