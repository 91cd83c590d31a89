package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"booking-registry/internal/application"
	"booking-registry/internal/config"
	infraconfig "booking-registry/internal/infrastructure/config"
	"booking-registry/internal/infrastructure/grpc/bookingserver"
	httpserver "booking-registry/internal/infrastructure/http"
	"booking-registry/internal/infrastructure/logx"
	"booking-registry/internal/infrastructure/memstore"
	"booking-registry/internal/infrastructure/metrics"
	"booking-registry/internal/infrastructure/pg"
	redisstore "booking-registry/internal/infrastructure/redis"
	"booking-registry/internal/infrastructure/sqlite"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	ErrMissingDBURL   = errors.New("DATABASE_URL is required for STORAGE=pg")
	ErrUnknownStorage = errors.New("unknown STORAGE")
)

func ProvideLogger() *zap.Logger { return logx.L() }

func ProvideConfig() config.Config { return config.Load() }

func ProvideMetrics() *metrics.Metrics { return metrics.Default() }

// ProvideRepo opens the store selected by STORAGE.
func ProvideRepo(ctx context.Context, cfg config.Config, log *zap.Logger) (application.BookingRepo, func(), error) {
	switch cfg.Storage {
	case "pg":
		if cfg.DatabaseURL == "" {
			return nil, func() {}, ErrMissingDBURL
		}
		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, func() {}, err
		}
		if err := pg.RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, func() {}, err
		}
		cleanup := func() {
			log.Info("closing pg")
			db.Close()
		}
		return pg.NewBookingRepo(db), cleanup, nil
	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, func() {}, err
		}
		cleanup := func() {
			log.Info("closing sqlite", zap.String("path", cfg.SQLitePath))
			_ = db.Close()
		}
		return sqlite.NewBookingRepo(db), cleanup, nil
	case "memory":
		log.Warn("STORAGE=memory: bookings are lost on restart")
		return memstore.NewBookingRepo(), func() {}, nil
	default:
		return nil, func() {}, fmt.Errorf("%w: %q", ErrUnknownStorage, cfg.Storage)
	}
}

func ProvideRegistry(repo application.BookingRepo, log *zap.Logger, m *metrics.Metrics) *application.BookingRegistry {
	return application.NewBookingRegistry(repo,
		application.WithLogger(log),
		application.WithRecorder(m),
	)
}

// ProvideRateLimiter returns the redis limiter when RATE_LIMIT_BACKEND=redis,
// otherwise a limiter that allows everything.
func ProvideRateLimiter(ctx context.Context, cfg config.Config, log *zap.Logger) (httpserver.RateLimiter, func(), error) {
	if cfg.RateLimitBackend != "redis" {
		return redisstore.NoopLimiter{}, func() {}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redisstore.Ping(ctx, client); err != nil {
		_ = client.Close()
		return nil, func() {}, err
	}
	log.Info("rate limiting enabled", zap.Int("per_min", cfg.RateLimitPerMin))
	lim := redisstore.NewLimiter(client, cfg.RateLimitPerMin, infraconfig.DefaultRateLimitWindow)
	return lim, func() { _ = client.Close() }, nil
}

func ProvideHTTPServer(reg *application.BookingRegistry, lim httpserver.RateLimiter, m *metrics.Metrics, cfg config.Config) *httpserver.Server {
	return httpserver.NewServer(reg,
		httpserver.WithRateLimiter(lim),
		httpserver.WithMetrics(m),
		httpserver.WithRequestTimeout(cfg.RequestTimeout),
	)
}

func ProvideGRPCServer(reg *application.BookingRegistry, log *zap.Logger) *bookingserver.Server {
	return bookingserver.NewServer(reg, log)
}
