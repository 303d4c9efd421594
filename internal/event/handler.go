package event

import (
	"errors"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/danevents/api/internal/auth"
	"github.com/danevents/api/internal/config"
	apperrors "github.com/danevents/api/internal/errors"
	"github.com/danevents/api/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for event endpoints
type Handler struct {
	service         *Service
	storage         storage.Service
	upload          config.UploadConfig
	responseHandler ResponseHandler
	logger          Logger
}

// NewHandler creates a new event handler instance
func NewHandler(service *Service, storageService storage.Service, upload config.UploadConfig, responseHandler ResponseHandler, logger Logger) *Handler {
	return &Handler{
		service:         service,
		storage:         storageService,
		upload:          upload,
		responseHandler: responseHandler,
		logger:          logger,
	}
}

// @Summary List events
// @Description List events with pagination, filtering and sorting
// @Tags events
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param category query string false "Filter by category"
// @Param startDate query string false "Filter by start date (YYYY-MM-DD)"
// @Param endDate query string false "Filter by end date (YYYY-MM-DD)"
// @Param sort query string false "Sort by date (asc or desc)"
// @Param booked query string false "Filter by booking status (true or false, requires auth)"
// @Success 200 {object} http.Response{data=PaginatedEvents} "Events listed"
// @Failure 401 {object} http.Response "Authentication required for booked filter"
// @Router /events [get]
func (h *Handler) HandleList(c *gin.Context) {
	opts := ListOptions{
		Page:      1,
		Limit:     10,
		Category:  c.Query("category"),
		SortOrder: "asc",
		Booked:    c.Query("booked"),
	}

	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		opts.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		opts.Limit = limit
	}
	if c.Query("sort") == "desc" {
		opts.SortOrder = "desc"
	}
	if raw := c.Query("startDate"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			h.responseHandler.ValidationErrorResponse(c, "startDate", "Invalid date format")
			return
		}
		opts.StartDate = &t
	}
	if raw := c.Query("endDate"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			h.responseHandler.ValidationErrorResponse(c, "endDate", "Invalid date format")
			return
		}
		opts.EndDate = &t
	}

	// filtering by booking status only makes sense for a known user
	if opts.Booked == "true" || opts.Booked == "false" {
		userID, ok := auth.CurrentUserID(c)
		if !ok {
			h.responseHandler.UnauthorizedResponse(c, "TOKEN_MISSING", "Authentication required to filter by booking status")
			return
		}
		opts.UserID = userID
	}

	page, fromCache, err := h.service.ListEvents(c.Request.Context(), opts)
	if err != nil {
		h.responseHandler.InternalErrorResponse(c, "Failed to list events", err)
		return
	}

	c.Header("X-Cache", cacheHeader(fromCache))
	h.responseHandler.SuccessResponse(c, page, "Events retrieved successfully")
}

// @Summary Get event
// @Description Get a single event by id
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} http.Response{data=Event} "Event retrieved"
// @Failure 400 {object} http.Response "Invalid event ID format"
// @Failure 404 {object} http.Response "Event not found"
// @Router /events/{id} [get]
func (h *Handler) HandleGet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.responseHandler.ValidationErrorResponse(c, "id", "Invalid event ID format")
		return
	}

	event, fromCache, err := h.service.GetEvent(c.Request.Context(), id)
	if err != nil {
		var notFound *apperrors.NotFoundError
		if errors.As(err, &notFound) {
			h.responseHandler.NotFoundResponse(c, apperrors.ErrMsgEventNotFound)
			return
		}
		h.responseHandler.InternalErrorResponse(c, "Failed to get event", err)
		return
	}

	c.Header("X-Cache", cacheHeader(fromCache))
	h.responseHandler.SuccessResponse(c, event, "Event retrieved successfully")
}

// @Summary Create event
// @Description Create a new event (admin only)
// @Tags events
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param name formData string true "Event name (3-100 characters)"
// @Param description formData string true "Event description (10-500 characters)"
// @Param price formData number true "Ticket price"
// @Param date formData string true "Event date"
// @Param category formData string true "Event category"
// @Param venue formData string false "Event venue"
// @Param imageUrl formData string false "Image URL (https)"
// @Param file formData file false "Event image"
// @Success 201 {object} http.Response{data=Event} "Event created"
// @Failure 400 {object} http.Response "Validation or upload error"
// @Failure 401 {object} http.Response "Unauthorized"
// @Failure 403 {object} http.Response "Forbidden"
// @Failure 409 {object} http.Response "Event already exists"
// @Router /events [post]
func (h *Handler) HandleCreate(c *gin.Context) {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		h.responseHandler.UnauthorizedResponse(c, "TOKEN_MISSING", "Authentication required")
		return
	}

	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil {
		h.responseHandler.ValidationErrorResponse(c, "price", "Invalid price")
		return
	}
	date, err := parseDate(c.PostForm("date"))
	if err != nil {
		h.responseHandler.ValidationErrorResponse(c, "date", "Invalid date format")
		return
	}

	event := &Event{
		CreatedBy:   userID,
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Price:       price,
		Date:        date,
		Venue:       c.PostForm("venue"),
		Category:    c.PostForm("category"),
		ImageURL:    c.PostForm("imageUrl"),
	}

	if fileHeader, err := c.FormFile("file"); err == nil {
		url, uploadErr := h.uploadImage(c, fileHeader, storage.EventImagePrefix, h.upload.MaxEventImageSize)
		if uploadErr != nil {
			h.logger.LogWarn("Event image upload failed", map[string]interface{}{
				"filename": fileHeader.Filename,
				"error":    uploadErr.Error(),
			})
			h.responseHandler.ErrorResponse(c, 400, "UPLOAD_FAILED", apperrors.ErrMsgImageUpload, uploadErr)
			return
		}
		event.ImageURL = url
	}

	if err := h.service.CreateEvent(c.Request.Context(), event); err != nil {
		h.respondMutationError(c, err, "Failed to create event")
		return
	}

	h.responseHandler.CreatedResponse(c, event, "Event created successfully")
}

// @Summary Update event
// @Description Update an existing event (admin only)
// @Tags events
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} http.Response{data=Event} "Event updated"
// @Failure 400 {object} http.Response "Validation or upload error"
// @Failure 404 {object} http.Response "Event not found"
// @Router /events/{id} [put]
func (h *Handler) HandleUpdate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.responseHandler.ValidationErrorResponse(c, "id", "Invalid event ID format")
		return
	}

	req := &UpdateRequest{}
	if v, ok := c.GetPostForm("name"); ok {
		req.Name = &v
	}
	if v, ok := c.GetPostForm("description"); ok {
		req.Description = &v
	}
	if v, ok := c.GetPostForm("price"); ok {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			h.responseHandler.ValidationErrorResponse(c, "price", "Invalid price")
			return
		}
		req.Price = &price
	}
	if v, ok := c.GetPostForm("venue"); ok {
		req.Venue = &v
	}
	if v, ok := c.GetPostForm("category"); ok {
		req.Category = &v
	}
	if v, ok := c.GetPostForm("date"); ok {
		date, err := parseDate(v)
		if err != nil {
			h.responseHandler.ValidationErrorResponse(c, "date", "Invalid date format")
			return
		}
		req.Date = &date
	}
	if v, ok := c.GetPostForm("imageUrl"); ok {
		req.ImageURL = &v
	}

	if fileHeader, err := c.FormFile("file"); err == nil {
		url, uploadErr := h.uploadImage(c, fileHeader, storage.EventImagePrefix, h.upload.MaxEventImageSize)
		if uploadErr != nil {
			h.logger.LogWarn("Event image upload failed", map[string]interface{}{
				"filename": fileHeader.Filename,
				"error":    uploadErr.Error(),
			})
			h.responseHandler.ErrorResponse(c, 400, "UPLOAD_FAILED", apperrors.ErrMsgImageUpload, uploadErr)
			return
		}
		req.ImageURL = &url
	}

	event, err := h.service.UpdateEvent(c.Request.Context(), id, req)
	if err != nil {
		h.respondMutationError(c, err, "Failed to update event")
		return
	}

	h.responseHandler.SuccessResponse(c, event, "Event updated successfully")
}

// @Summary Delete event
// @Description Delete an event (admin only)
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} http.Response "Event deleted"
// @Failure 400 {object} http.Response "Invalid event ID format"
// @Failure 404 {object} http.Response "Event not found"
// @Router /events/{id} [delete]
func (h *Handler) HandleDelete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.responseHandler.ValidationErrorResponse(c, "id", "Invalid event ID format")
		return
	}

	if err := h.service.DeleteEvent(c.Request.Context(), id); err != nil {
		h.respondMutationError(c, err, "Failed to delete event")
		return
	}

	h.responseHandler.SuccessResponse(c, nil, "Event deleted successfully")
}

// uploadImage validates the image file and stores it, returning the
// public URL
func (h *Handler) uploadImage(c *gin.Context, fileHeader *multipart.FileHeader, prefix string, maxSize int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	allowed := false
	for _, e := range h.upload.AllowedExtensions {
		if e == ext {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", apperrors.NewValidationError("file", apperrors.ErrMsgImageType)
	}
	if fileHeader.Size > maxSize {
		return "", apperrors.NewValidationError("file", apperrors.ErrMsgImageSize)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", apperrors.NewStorageError("failed to open uploaded file", err)
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	key := prefix + uuid.New().String() + ext
	return h.storage.UploadImage(c.Request.Context(), key, file, fileHeader.Size, contentType)
}

func cacheHeader(fromCache bool) string {
	if fromCache {
		return "HIT"
	}
	return "MISS"
}

// respondMutationError maps service errors to HTTP responses
func (h *Handler) respondMutationError(c *gin.Context, err error, message string) {
	var validation *apperrors.ValidationError
	if errors.As(err, &validation) {
		h.responseHandler.ValidationErrorResponse(c, validation.Field, validation.Message)
		return
	}
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
	h.responseHandler.InternalErrorResponse(c, message, err)
}
