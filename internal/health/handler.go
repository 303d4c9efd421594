package health

import (
	"time"

	"github.com/danevents/api/internal/cache"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler reports liveness of the API and its backing services
type Handler struct {
	db              *gorm.DB
	cache           cache.Service
	responseHandler ResponseHandler
	started         time.Time
}

// NewHandler creates a new health check handler
func NewHandler(db *gorm.DB, cacheService cache.Service, responseHandler ResponseHandler) *Handler {
	return &Handler{
		db:              db,
		cache:           cacheService,
		responseHandler: responseHandler,
		started:         time.Now(),
	}
}

// @Summary Health check endpoint
// @Description Reports API liveness and the status of the database and cache
// @Tags health
// @Produce json
// @Success 200 {object} interface{} "Health check successful"
// @Router /health [get]
func (h *Handler) HandleHealthCheck(c *gin.Context) {
	status := gin.H{
		"uptime":   time.Since(h.started).String(),
		"database": h.databaseStatus(),
		"cache":    h.cacheStatus(c),
	}
	h.responseHandler.SuccessResponse(c, status, "Health check successful")
}

func (h *Handler) databaseStatus() string {
	if h.db == nil {
		return "unconfigured"
	}
	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.Ping() != nil {
		return "unreachable"
	}
	return "up"
}

func (h *Handler) cacheStatus(c *gin.Context) string {
	if h.cache == nil {
		return "unconfigured"
	}
	// a failing cache only degrades caching, the API stays healthy
	if err := h.cache.Delete(c.Request.Context(), "health:probe"); err != nil {
		return "degraded"
	}
	return "up"
}
