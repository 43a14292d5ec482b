package main

import (
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/apps/social"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/apps/threads"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/apps/watchlists"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/seed"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/tmdb"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Structured logging (JSON to stdout)
	stdout := logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	db := database.DB

	if err := database.MigrateShared(db); err != nil {
		slog.Error("shared migration failed", "error", err)
		os.Exit(1)
	}

	// ERROR+ records are also batched into system_logs
	dbLogHandler := logging.NewDBHandler(db, 5*time.Second)
	slog.SetDefault(slog.New(logging.NewMultiHandler(stdout, dbLogHandler)))

	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cfg.LogRetentionDays, cleanupDone)

	// Services
	authService := services.NewAuthService(db, cfg)
	userService := services.NewUserService(db)
	subscriptionService := services.NewSubscriptionService(db)
	moderationService := services.NewModerationService(db)
	movieService := services.NewMovieService(db)
	interactionService := services.NewInteractionService(db)

	// Ratings and likes are unwound before the account goes away.
	authService.OnDeleteUser(interactionService.ForgetUser)

	listsPlugin := watchlists.New(db)
	plugins := []apps.Plugin{
		social.New(db),
		threads.New(db, moderationService),
		listsPlugin,
	}

	for _, p := range plugins {
		if models := p.Models(); len(models) > 0 {
			if err := database.MigrateModels(db, models); err != nil {
				slog.Error("plugin migration failed", "plugin", p.ID(), "error", err)
				os.Exit(1)
			}
			slog.Info("plugin migrated", "plugin", p.ID(), "models", len(models))
		}
		if owner, ok := p.(apps.UserDataOwner); ok {
			authService.OnDeleteUser(owner.DeleteUserData)
		}
		if owner, ok := p.(apps.MovieDataOwner); ok {
			movieService.OnDeleteMovie(owner.DeleteMovieData)
		}
	}

	if cfg.SeedFile != "" {
		catalog, err := seed.LoadFromFile(cfg.SeedFile)
		if err != nil {
			slog.Error("failed to load seed file", "path", cfg.SeedFile, "error", err)
			os.Exit(1)
		}
		if _, err := seed.Apply(catalog, movieService, listsPlugin.Service()); err != nil {
			slog.Error("catalog seed failed", "error", err)
			os.Exit(1)
		}
	}

	// Movie metadata import
	tmdbClient := tmdb.NewClient(tmdb.Config{
		APIKey:     cfg.TMDBAPIKey,
		BaseURL:    cfg.TMDBBaseURL,
		Timeout:    cfg.TMDBTimeout,
		RatePerSec: cfg.TMDBRatePerSec,
	})
	if !tmdbClient.Configured() {
		slog.Warn("TMDB_API_KEY not set, movie import disabled")
	}
	importer := tmdb.NewImporter(tmdbClient, movieService)

	// Handlers
	h := routes.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		Health:      handlers.NewHealthHandler(db),
		Webhook:     handlers.NewWebhookHandler(subscriptionService, cfg),
		Moderation:  handlers.NewModerationHandler(moderationService),
		User:        handlers.NewUserHandler(userService, subscriptionService),
		Movie:       handlers.NewMovieHandler(movieService, interactionService),
		Interaction: handlers.NewInteractionHandler(interactionService),
		Import:      handlers.NewImportHandler(tmdbClient, importer),
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(metrics.Middleware())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, db, h, plugins)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fe *fiber.Error
	var ae *apperr.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
		message = fe.Message
	case errors.As(err, &ae):
		code = apperr.Status(err)
		message = ae.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{Error: true, Message: message})
}
