package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/themessagevault/vault-backend/internal/config"
	"github.com/themessagevault/vault-backend/internal/database"
	"github.com/themessagevault/vault-backend/internal/handlers"
	"github.com/themessagevault/vault-backend/internal/logging"
	"github.com/themessagevault/vault-backend/internal/middleware"
	"github.com/themessagevault/vault-backend/internal/moderation"
	"github.com/themessagevault/vault-backend/internal/routes"
	"github.com/themessagevault/vault-backend/internal/services"
	"github.com/themessagevault/vault-backend/internal/session"
	"github.com/themessagevault/vault-backend/internal/store"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	logging.Setup(cfg.LogLevel)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// Redis
	if err := database.ConnectRedis(ctx, cfg); err != nil {
		slog.Error("redis connection failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(logging.GormWriter{DB: database.DB})
	slog.SetDefault(slog.New(logging.NewFanoutHandler(
		logging.NewStdoutHandler(cfg.LogLevel),
		pgLogHandler,
	)))

	logging.StartCleanup(ctx, database.DB, cfg.LogRetentionDays)

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

	// Moderation pipeline
	preFilter := moderation.NewPreFilter()
	preFilter.MinLength = cfg.MinMessageLength
	preFilter.MaxLength = cfg.MaxMessageLength
	scorer := moderation.NewPerspectiveScorer(cfg.Perspective(), preFilter, nil)
	if !scorer.Configured() {
		slog.Warn("PERSPECTIVE_API_KEY not set, moderation runs on the pre-filter only")
	}
	moderator := moderation.NewService(preFilter, scorer)

	// Stores
	messageStore := store.NewMessageStore(database.DB)
	candleStore := store.NewCandleStore(database.DB)
	supporterStore := store.NewSupporterStore(database.DB)
	counters := store.NewRedisCounters(database.Redis)

	// Services
	messageService := services.NewMessageService(messageStore, counters, moderator, preFilter)
	candleService := services.NewCandleService(candleStore, counters, moderator, cfg.CandleLifetime)
	supporterService := services.NewSupporterService(supporterStore, moderator)
	statsService := services.NewStatsService(counters, messageStore, candleStore)

	candleService.StartExpiry(ctx, time.Hour)

	// Handlers
	h := routes.Handlers{
		Health:     handlers.NewHealthHandler(database.Ping),
		Moderation: handlers.NewModerationHandler(moderator),
		Messages:   handlers.NewMessageHandler(messageService),
		Candles:    handlers.NewCandleHandler(candleService),
		Supporters: handlers.NewSupporterHandler(supporterService),
		Stats:      handlers.NewStatsHandler(statsService, cfg.MinMessageLength, cfg.MaxMessageLength),
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    64 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.Metrics())
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})
	app.Use(session.Middleware(session.NewHasher(cfg.SessionHashKey), cfg.AppEnv == "production"))

	// Routes
	routes.Setup(app, cfg, h)

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

	cancel()

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)
	database.Close()

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
