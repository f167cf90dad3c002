package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/airport-go/internal/config"
	"github.com/kirinyoku/airport-go/internal/kafka"
	"github.com/kirinyoku/airport-go/internal/postgres"
	"github.com/kirinyoku/airport-go/internal/redis"
	postgresrepo "github.com/kirinyoku/airport-go/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/airport-go/internal/repository/redis"
	"github.com/kirinyoku/airport-go/internal/service"
	"github.com/kirinyoku/airport-go/internal/service/query"
	httpgin "github.com/kirinyoku/airport-go/internal/transport/http/gin"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const (
	idempotencyTTL  = 24 * time.Hour
	shutdownTimeout = 5 * time.Second
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
	pool       *pgxpool.Pool
	rdb        *goredis.Client
	cache      *redisrepo.Cache
	pubsub     *redisrepo.FlightsPubSub
	producer   *kafka.Producer
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	pool, err := postgres.New(ctx, postgres.Config{
		DSN:      cfg.Postgres.DSN(),
		MaxConns: cfg.Postgres.MaxConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate postgres: %w", err)
	}

	rdb, err := redis.New(ctx, redis.Config{
		URL:             cfg.Redis.URL,
		Addr:            cfg.Redis.Addr,
		Password:        cfg.Redis.Password,
		DB:              cfg.Redis.DB,
		PoolSize:        cfg.Redis.PoolSize,
		ConnectAttempts: cfg.Redis.ConnectAttempts,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	// Initialize repositories
	store := postgresrepo.NewStore(pool)
	cache := redisrepo.NewCache(rdb)
	pubsub := redisrepo.NewFlightsPubSub(rdb)
	limiter := redisrepo.NewSlidingWindowLimiter(rdb, "orders", cfg.Booking.RateLimit, cfg.Booking.RateWindow)
	idempotencyStore := redisrepo.NewIdempotencyStore(rdb, idempotencyTTL)

	var producer *kafka.Producer
	if cfg.Kafka.Enabled() {
		producer = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.OrdersTopic)
		logger.Info("publishing order events", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.OrdersTopic)
	}

	// Initialize services
	svcs := service.NewServices(store, cache, pubsub, limiter, producer, service.Config{
		Query: query.Config{
			FlightDetailTTL: time.Minute,
			AirplaneTTL:     5 * time.Minute,
		},
	})

	router := httpgin.NewRouter(httpgin.Services{
		Booking: svcs.Booking,
		Query:   svcs.Query,
		Admin:   svcs.Admin,
		Orders:  svcs.Orders,
	}, idempotencyStore, logger)

	return &App{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		pool:     pool,
		rdb:      rdb,
		cache:    cache,
		pubsub:   pubsub,
		producer: producer,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	defer a.close()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Flight changes published after commit
	g.Go(func() error {
		err := a.pubsub.Subscribe(gCtx, onFlightChanged(a.cache, a.logger))
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("flights subscription: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}

type flightInvalidator interface {
	InvalidateFlight(ctx context.Context, flightID int64) error
}

// onFlightChanged drops the cached detail of a flight announced on the
// flights channel. The publisher has already deleted the key after commit;
// this second delete is best effort and covers a publisher whose delete
// failed. Failures are logged, never returned.
func onFlightChanged(cache flightInvalidator, logger *slog.Logger) func(ctx context.Context, flightID int64) {
	return func(ctx context.Context, flightID int64) {
		logger.Debug("flight changed", "flight_id", flightID)
		if err := cache.InvalidateFlight(ctx, flightID); err != nil {
			logger.Warn("failed to invalidate flight cache", "flight_id", flightID, "error", err)
		}
	}
}

func (a *App) close() {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Warn("failed to close kafka producer", "error", err)
		}
	}
	if err := a.rdb.Close(); err != nil {
		a.logger.Warn("failed to close redis", "error", err)
	}
	a.pool.Close()
}
