package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vbonduro/boatlog/internal/config"
	"github.com/vbonduro/boatlog/internal/db"
	"github.com/vbonduro/boatlog/internal/logging"
	"github.com/vbonduro/boatlog/internal/ratelimit"
	"github.com/vbonduro/boatlog/internal/service"
	"github.com/vbonduro/boatlog/internal/store"
	"github.com/vbonduro/boatlog/internal/web"
)

func main() {
	if err := run(); err != nil {
		slog.Error("boatlog exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return err
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Printf("failed to initialize logger: %v", err)
		return err
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err, "path", cfg.DBPath)
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	svc := web.Services{
		Bookings:  service.NewBookingService(store.NewBookingStore(database), logger),
		Inventory: service.NewInventoryService(store.NewInventoryStore(database), cfg.LowStockThreshold, logger),
		Logs:      service.NewLogService(store.NewLogStore(database), logger),
	}

	limiter, err := newLimiter(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize rate limiter", "error", err)
		return err
	}
	var webLimiter web.Limiter
	if limiter != nil {
		defer func() { _ = limiter.Close() }()
		webLimiter = limiter
	}

	server := web.NewServer(svc, database, webLimiter, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, cfg.ListenAddr, cfg.ShutdownTimeout); err != nil {
		logger.Error("server error", "error", err)
		return err
	}
	logger.Info("server stopped")
	return nil
}

// newLimiter returns nil when no Redis address is configured.
func newLimiter(cfg *config.Config, logger *slog.Logger) (*ratelimit.FixedWindowLimiter, error) {
	if cfg.RedisAddr == "" {
		logger.Info("rate limiting disabled: REDIS_ADDR not set")
		return nil, nil
	}
	limiter, err := ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RateLimit, cfg.RateWindow, logger)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := limiter.Ping(ctx); err != nil {
		logger.Warn("redis unreachable at startup, limiter will allow requests until it recovers", "addr", cfg.RedisAddr, "error", err)
	}
	logger.Info("rate limiting enabled", "limit", cfg.RateLimit, "window", cfg.RateWindow.String())
	return limiter, nil
}
