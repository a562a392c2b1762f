package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Reainz/Snapflow-sub000/internal/config"
	"github.com/Reainz/Snapflow-sub000/internal/database"
	"github.com/Reainz/Snapflow-sub000/internal/handlers"
	"github.com/Reainz/Snapflow-sub000/internal/ingest"
	"github.com/Reainz/Snapflow-sub000/internal/middleware"
	"github.com/Reainz/Snapflow-sub000/internal/models"
	"github.com/Reainz/Snapflow-sub000/internal/quota"
	"github.com/Reainz/Snapflow-sub000/internal/rollback"
	"github.com/Reainz/Snapflow-sub000/internal/services"
	"github.com/Reainz/Snapflow-sub000/internal/storage"
	"github.com/Reainz/Snapflow-sub000/internal/transcode"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := models.AutoMigrate(database.DB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Quota engine
	retention := time.Duration(cfg.QuotaRetentionDays) * 24 * time.Hour
	limiter := quota.NewLimiter(quota.NewGormStore(database.DB), retention)

	// Collaborator clients
	objectStore := storage.NewClient(
		cfg.StorageBaseURL,
		cfg.StorageBucket,
		cfg.StorageServiceToken,
		cfg.JWTSecret,
		time.Duration(cfg.SignedURLTTLMinutes)*time.Minute,
	)
	transcoder := transcode.NewClient(cfg.TranscoderBaseURL, cfg.TranscoderAPIKey, cfg.TranscoderName)

	// Supporting services
	assetStore := services.NewAssetStore(database.DB)
	alertService := services.NewAlertService(database.DB)
	notifier := services.NewNotificationService(database.DB, database.Redis)

	// Ingestion pipeline and rollback triggers
	pipeline := ingest.NewPipeline(limiter, objectStore, transcoder, assetStore, notifier, alertService)
	rollbackService := rollback.NewService(
		limiter,
		rollback.NewGormArtifactStore(database.DB),
		rollback.NewRedisGuard(database.Redis),
		alertService,
	)

	// Start quota retention sweeper
	retentionService := services.NewQuotaRetentionService(6 * time.Hour)
	retentionService.Start()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Snapflow API v1.0",
		ServerHeader: "Snapflow",
		BodyLimit:    10 * 1024 * 1024, // 10MB, events only - uploads go straight to storage
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(compress.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "snapflow-api",
		})
	})

	// Initialize handlers
	eventsHandler := handlers.NewEventsHandler(pipeline, rollbackService)
	videoHandler := handlers.NewVideoHandler(pipeline)
	quotaHandler := handlers.NewQuotaHandler(limiter)
	alertHandler := handlers.NewAlertHandler()

	// API routes
	api := app.Group("/api")

	// Platform event webhooks (at-least-once delivery)
	events := api.Group("/events", middleware.WebhookAuth(cfg))
	events.Post("/storage/finalize", eventsHandler.StorageFinalize)
	events.Post("/engagement", eventsHandler.EngagementCreated)

	// Internal service surface
	api.Post("/quota/check", middleware.WebhookAuth(cfg), quotaHandler.Check)

	// Admin routes
	admin := api.Group("", middleware.AdminRequired(cfg))
	admin.Get("/videos/:id", videoHandler.Get)
	admin.Post("/videos/:id/retry", videoHandler.Retry)
	admin.Get("/quota/:userId", quotaHandler.Status)
	admin.Get("/alerts", alertHandler.List)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down gracefully...")
		retentionService.Stop()
		app.Shutdown()
	}()

	// Start server
	addr := fmt.Sprintf(":%d", cfg.APIPort)
	log.Printf("Snapflow API listening on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
