// FrancescoMazzola | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/FrancescoMazzola11/secure-insight-room/internal/ai"
	"github.com/FrancescoMazzola11/secure-insight-room/internal/config"
	"github.com/FrancescoMazzola11/secure-insight-room/internal/core"
	"github.com/FrancescoMazzola11/secure-insight-room/internal/dataroom"
	"github.com/FrancescoMazzola11/secure-insight-room/internal/document"
	"github.com/FrancescoMazzola11/secure-insight-room/internal/health"
	"github.com/FrancescoMazzola11/secure-insight-room/internal/middleware"
	"github.com/FrancescoMazzola11/secure-insight-room/internal/migrate"
	"github.com/FrancescoMazzola11/secure-insight-room/internal/notification"
	"github.com/FrancescoMazzola11/secure-insight-room/internal/permission"
	"github.com/FrancescoMazzola11/secure-insight-room/internal/server"
	"github.com/FrancescoMazzola11/secure-insight-room/internal/sharing"
	"github.com/FrancescoMazzola11/secure-insight-room/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected", "path", cfg.Database.Path)

	if err := migrate.Up(ctx, db.DB.DB); err != nil {
		return err
	}
	logger.Info("migrations applied")

	var rdb *core.Redis
	if cfg.Redis.Enabled {
		rdb, err = core.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		logger.Info("redis connected", "pool_size", cfg.Redis.PoolSize)
	}

	notifRepo := notification.NewRepository(db.DB)
	notifSvc := notification.NewService(notifRepo, logger)
	notifHandler := notification.NewHandler(notifSvc)

	permRepo := permission.NewRepository(db.DB)
	permSvc := permission.NewService(permRepo, notifSvc)
	permHandler := permission.NewHandler(permSvc)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc)

	docRepo := document.NewRepository(db.DB)
	docSvc := document.NewService(db.DB, docRepo, permSvc, cfg.Upload, notifSvc, logger)
	docHandler := document.NewHandler(docSvc)

	roomRepo := dataroom.NewRepository(db.DB)
	roomSvc := dataroom.NewService(db.DB, roomRepo, permSvc, logger)
	roomHandler := dataroom.NewHandler(roomSvc, docSvc)

	sharingRepo := sharing.NewRepository(db.DB)
	sharingSvc := sharing.NewService(sharingRepo, permSvc, logger)
	sharingHandler := sharing.NewHandler(sharingSvc)

	aiRepo := ai.NewRepository(db.DB)
	aiSvc := ai.NewService(aiRepo, permSvc, nil, logger)
	aiHandler := ai.NewHandler(aiSvc)

	var redisChecker health.Checker
	if rdb != nil {
		redisChecker = rdb
	}
	healthHandler := health.NewHandler(db, redisChecker)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))

	var redisClient *redis.Client
	if rdb != nil {
		redisClient = rdb.Client
	}
	router.Use(
		middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	userHandler.RegisterRoutes(router)
	roomHandler.RegisterRoutes(router)
	docHandler.RegisterRoutes(router)
	permHandler.RegisterRoutes(router)
	sharingHandler.RegisterRoutes(router)
	aiHandler.RegisterRoutes(router)
	notifHandler.RegisterRoutes(router)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
