package main

import (
	"context"
	"fmt"
	"time"

	"github.com/danevents/api/internal/auth"
	"github.com/danevents/api/internal/booking"
	"github.com/danevents/api/internal/cache"
	"github.com/danevents/api/internal/config"
	"github.com/danevents/api/internal/database"
	"github.com/danevents/api/internal/event"
	"github.com/danevents/api/internal/health"
	apphttp "github.com/danevents/api/internal/http"
	"github.com/danevents/api/internal/http/middleware"
	"github.com/danevents/api/internal/logger"
	"github.com/danevents/api/internal/storage"
	"github.com/danevents/api/internal/storage/s3"
	"github.com/danevents/api/internal/user"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// App holds all application dependencies
type App struct {
	ctx    context.Context
	Config *config.Config
	db     *gorm.DB
	dbSvc  database.Service
	cache  cache.Service
	router *gin.Engine
	logger logger.Logger

	tokenService auth.TokenService
	userRepo     auth.UserRepository

	authHandler    *auth.Handler
	eventHandler   *event.Handler
	bookingHandler *booking.Handler
	userHandler    *user.Handler
	healthHandler  *health.Handler
}

// NewApp creates a new application instance with all dependencies
func NewApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	dbService := database.NewDatabaseService(&cfg.Database, log)
	db, err := dbService.Connect()
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %v", err)
	}

	cacheService, err := cache.NewRedisService(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis: %v", err)
	}

	storageService, err := s3.NewService(&storage.S3Config{
		Endpoint:        cfg.Storage.S3.Endpoint,
		Bucket:          cfg.Storage.S3.Bucket,
		Region:          cfg.Storage.S3.Region,
		AccessKeyID:     cfg.Storage.S3.AccessKeyID,
		SecretAccessKey: cfg.Storage.S3.SecretAccessKey,
		UseSSL:          cfg.Storage.S3.UseSSL,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage: %v", err)
	}

	responseHandler := apphttp.NewResponseHandler(log)
	tokenService := auth.NewJWTService(auth.NewConfigFromAuthConfig(&cfg.Auth))

	userRepo := auth.NewUserRepository(db)
	eventRepo := event.NewRepository(db)
	bookingRepo := booking.NewRepository(db)

	authService := auth.NewService(userRepo, tokenService, cacheService, log)
	eventService := event.NewService(eventRepo, cacheService, cfg.Cache, log)
	bookingService := booking.NewService(bookingRepo, eventRepo, cacheService, cfg.Cache, log)
	userService := user.NewService(userRepo, cacheService, cfg.Cache, log)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLoggerMiddleware(log))
	router.Use(apphttp.RecoveryMiddleware(responseHandler, log))
	router.Use(apphttp.CORSMiddleware())

	app := &App{
		ctx:            ctx,
		Config:         cfg,
		db:             db,
		dbSvc:          dbService,
		cache:          cacheService,
		router:         router,
		logger:         log,
		tokenService:   tokenService,
		userRepo:       userRepo,
		authHandler:    auth.NewHandler(authService, responseHandler),
		eventHandler:   event.NewHandler(eventService, storageService, cfg.Upload, responseHandler, log),
		bookingHandler: booking.NewHandler(bookingService, responseHandler),
		userHandler:    user.NewHandler(userService, storageService, cfg.Upload, responseHandler),
		healthHandler:  health.NewHandler(db, cacheService, responseHandler),
	}

	app.setupRoutes(responseHandler)

	return app, nil
}

func (a *App) setupRoutes(responseHandler apphttp.ResponseHandler) {
	requireAuth := auth.AuthMiddleware(a.tokenService, responseHandler)
	requireAdmin := auth.AuthMiddleware(a.tokenService, responseHandler, auth.RoleAdmin)
	requireAdminFresh := auth.RequireAdminLookup(a.tokenService, a.userRepo, responseHandler)
	optionalAuth := auth.OptionalAuthMiddleware(a.tokenService)

	a.router.GET("/health", a.healthHandler.HandleHealthCheck)

	api := a.router.Group("/api")
	a.authHandler.RegisterRoutes(api)

	events := api.Group("/events")
	{
		events.GET("", optionalAuth, a.eventHandler.HandleList)
		events.GET("/bookings", requireAuth, a.bookingHandler.HandleList)
		events.GET("/:id", a.eventHandler.HandleGet)
		events.POST("", requireAdmin, a.eventHandler.HandleCreate)
		events.POST("/book/:id", requireAuth, a.bookingHandler.HandleCreate)
		events.PUT("/:id", requireAdmin, a.eventHandler.HandleUpdate)
		events.DELETE("/:id", requireAdmin, a.eventHandler.HandleDelete)
	}

	users := api.Group("/users")
	{
		users.GET("", requireAdmin, a.userHandler.HandleList)
		users.PATCH("/me", requireAuth, a.userHandler.HandleUpdateProfile)
		users.POST("/me/image", requireAuth, a.userHandler.HandleUploadImage)
		users.GET("/:id", requireAdmin, a.userHandler.HandleGet)
		users.PATCH("/:id/role", requireAdminFresh, a.userHandler.HandleToggleRole)
	}
}

// Run starts the application
func (a *App) Run() error {
	port := a.Config.Server.Port
	a.logger.LogInfo(fmt.Sprintf("Starting server on port %d", port), nil)
	if err := a.router.Run(fmt.Sprintf(":%d", port)); err != nil {
		return a.logger.LogError(err, "server failed to start")
	}
	return nil
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown() error {
	a.logger.LogInfo("Initiating graceful shutdown", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.LogWarn("Error closing cache connections", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	if a.dbSvc != nil {
		if err := a.dbSvc.Close(); err != nil {
			a.logger.LogWarn("Error closing database connections", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	select {
	case <-ctx.Done():
		if err := ctx.Err(); err != nil && err != context.Canceled {
			a.logger.LogWarn("Shutdown timed out", map[string]interface{}{
				"error": err.Error(),
			})
			return err
		}
	default:
	}

	a.logger.LogInfo("Application shutdown complete", nil)
	return nil
}
