package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "github.com/guiaturistica/reportes-api/docs" // Swagger docs
	"github.com/guiaturistica/reportes-api/internal/config"
	"github.com/guiaturistica/reportes-api/internal/database"
	"github.com/guiaturistica/reportes-api/internal/handlers"
	"github.com/guiaturistica/reportes-api/internal/jobs"
	"github.com/guiaturistica/reportes-api/internal/middleware"
	"github.com/guiaturistica/reportes-api/internal/repository"
	"github.com/guiaturistica/reportes-api/internal/services"
	"github.com/guiaturistica/reportes-api/internal/storage"
	"github.com/guiaturistica/reportes-api/pkg/logger"
)

// @title Reportes API
// @version 1.0
// @description Reporting and analytics engine for the virtual tourist guide

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Setup(cfg.Environment, cfg.LogLevel)

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

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Connect(cfg.DatabaseURL, database.Options{Environment: cfg.Environment})
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		logger.Info("Connected to database")
	} else {
		logger.Info("Serving records from JSON dumps", "dir", cfg.RecordsDir)
	}

	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized local storage", "path", cfg.StoragePath)

	repos := repository.NewRepositories(db, cfg.RecordsDir, repository.BreakerSettings{
		FailureThreshold: uint32(cfg.BreakerFailureThreshold),
		Timeout:          cfg.BreakerTimeout,
	})

	worker := jobs.NewWorker(cfg.WorkerCount, cfg.WorkerQueue)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	svcs := services.NewServices(repos.Records, worker, store, cfg)
	logger.Info("Document engine selected", "engine", cfg.DocumentEngine)

	scheduleJobs(worker, svcs)

	router := setupRouter(handlers.NewHandlers(svcs), cfg)

	// WriteTimeout covers synchronous exports
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
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

	dropped := worker.Shutdown()
	failed := svcs.Job.FailPending(ctx, services.ErrShuttingDown)
	logger.Info("Background worker stopped", "discarded", len(dropped), "failed_export_jobs", failed)

	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterRoutes(router, h, cfg.JWTSecret)
	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services) {
	// Purge expired export jobs every 15 minutes
	worker.ScheduleEvery("purge-export-jobs", 15*time.Minute, func(ctx context.Context) error {
		logger.Info("[Job] Purging expired export jobs...")
		_, err := svcs.Job.Purge(ctx)
		return err
	})

	logger.Info("Scheduled recurring jobs")
}
