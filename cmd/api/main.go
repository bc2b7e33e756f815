package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/proyecthub/proyecthub-api/docs" // Swagger docs
	"github.com/proyecthub/proyecthub-api/internal/config"
	"github.com/proyecthub/proyecthub-api/internal/database"
	"github.com/proyecthub/proyecthub-api/internal/handlers"
	"github.com/proyecthub/proyecthub-api/internal/middleware"
	"github.com/proyecthub/proyecthub-api/internal/repository"
	"github.com/proyecthub/proyecthub-api/internal/services"
	"github.com/proyecthub/proyecthub-api/internal/storage"
	"github.com/proyecthub/proyecthub-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title ProyectHub API
// @version 1.0
// @description REST API for the ProyectHub project portfolio and its audit log

// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.MigrateOnBoot {
		if err := database.Migrate(cfg.DatabaseURL, database.Up); err != nil {
			logger.Error("Failed to migrate database", "error", err)
			os.Exit(1)
		}
	}

	db, err := database.Connect(cfg.DatabaseURL, cfg.DatabaseLogging)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized local storage", "path", store.BasePath(), "mount", cfg.ImagesMount)

	repos := repository.NewRepositories(db)
	svcs := services.NewServices(repos, store, cfg)
	h := handlers.NewHandlers(svcs)

	router := setupRouter(h, store, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, store *storage.LocalStorage, cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxUploadBytes()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger("/api/health", cfg.ImagesMount))
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{cfg.ImagesMount})))

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Uploaded project images
	router.Static(strings.TrimSuffix(cfg.ImagesMount, "/"), store.BasePath())

	validator := middleware.NewTokenValidator(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
	h.RegisterRoutes(router.Group("/api"), validator)

	return router
}
