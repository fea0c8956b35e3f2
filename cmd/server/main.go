package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/admin"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/session"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	console := logging.Setup(cfg.AppEnv)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBDriver != "sqlite" && cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	m := metrics.Default
	cache := session.NewUserCache(database.DB, cfg.UserCacheTTL, m)
	userService := services.NewUserService(database.DB, cache)
	authService := services.NewAuthService(database.DB, cfg, userService, m)

	plugins := apps.Default(userService)

	// One migration pass so cross-app foreign keys resolve
	if err := database.Migrate(database.DB, append(apps.Models(plugins), database.SharedModels()...)...); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// Database log handler (ERROR+ async batch)
	dbLogHandler := logging.NewDBHandler(database.DB, m)
	slog.SetDefault(slog.New(logging.NewMultiHandler(console, dbLogHandler)))

	ctx, cancel := context.WithCancel(context.Background())
	logging.StartCleanup(ctx, database.DB, cfg.LogRetentionDays)

	site := admin.NewSite(database.DB, m, cfg.AdminPageSize)
	if err := apps.Init(plugins, database.DB, cfg, site); err != nil {
		slog.Error("app init failed", "error", err)
		os.Exit(1)
	}
	slog.Info("apps initialized", "apps", len(plugins))

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, userService)
	healthHandler := handlers.NewHealthHandler(database.DB, len(plugins))

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler,
	})

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
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	prometheus := fiberprometheus.New("jetbench")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Routes
	routes.Setup(app, cfg, authHandler, healthHandler, cache, site)

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

	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(database.DB); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}
