package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"jobboard/database"
	"jobboard/internal/api/handler"
	"jobboard/internal/api/middleware"
	"jobboard/internal/api/repository"
	"jobboard/internal/api/service"
	"jobboard/internal/cache"
	"jobboard/internal/config"
	"jobboard/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	// Cache is optional: without REDIS_URL every read goes to the database.
	redisCache, err := cache.Connect(context.Background(), cfg.RedisURL, cfg.RedisPassword, time.Duration(cfg.CacheTTL)*time.Second)
	if err != nil {
		logger.Warn("redis unavailable, caching disabled", "error", err)
		redisCache = nil
	}

	store, err := storage.NewFileStore(cfg)
	if err != nil {
		log.Fatalf("could not initialize file storage: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	jobRepo := repository.NewJobRepository(db)
	appRepo := repository.NewApplicationRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Services
	authService := service.NewAuthService(db, userRepo, refreshTokenRepo, cfg)
	jobService := service.NewJobService(db, jobRepo, appRepo, profileRepo, store, redisCache, logger)
	applicationService := service.NewApplicationService(db, appRepo, jobRepo, profileRepo, redisCache, logger)
	notificationService := service.NewNotificationService(notificationRepo, redisCache, logger)
	profileService := service.NewProfileService(profileRepo, store, logger)
	adminService := service.NewAdminService(db, userRepo, jobRepo, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, int64(cfg.AccessTokenTTL.Seconds()))
	jobHandler := handler.NewJobHandler(jobService)
	applicationHandler := handler.NewApplicationHandler(applicationService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	profileHandler := handler.NewProfileHandler(profileService)
	adminHandler := handler.NewAdminHandler(adminService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// Auth endpoints are rate limited per client IP.
	authGroup := api.Group("/auth", middleware.RateLimit(rate.Limit(5), 10))
	authHandler.RegisterRoutes(authGroup)

	// Public browsing needs no session.
	jobHandler.RegisterPublicRoutes(api.Group("/jobs"))

	protected := api.Group("", middleware.AuthMiddleware(authService))

	jobHandler.RegisterRecruiterRoutes(protected.Group("/jobs"))
	applicationHandler.RegisterJobRoutes(protected.Group("/jobs"))
	applicationHandler.RegisterRoutes(protected.Group("/applications"))
	notificationHandler.RegisterRoutes(protected.Group("/notifications"))
	profileHandler.RegisterRoutes(protected.Group("/profile"))
	adminHandler.RegisterRoutes(protected.Group("/admin"))

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("starting server", "addr", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
