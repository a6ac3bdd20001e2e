package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/config"
	"github.com/utafrali/storefront/internal/event"
	handler "github.com/utafrali/storefront/internal/handler/http"
	"github.com/utafrali/storefront/internal/storage"
	"github.com/utafrali/storefront/internal/storage/memory"
	redisstore "github.com/utafrali/storefront/internal/storage/redis"
	"github.com/utafrali/storefront/pkg/database"
	"github.com/utafrali/storefront/pkg/health"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
	"github.com/utafrali/storefront/pkg/middleware"
	"github.com/utafrali/storefront/pkg/tracing"
)

const serviceName = "storefront"

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client      // nil with the memory backend
	producer       *pkgkafka.Producer // nil when Kafka is disabled
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	a := &App{
		cfg:            cfg,
		logger:         logger,
		tracerShutdown: tracerShutdown,
	}
	healthHandler := health.NewHandler(serviceName)

	// Session storage.
	var st storage.Storage
	switch cfg.StorageBackend {
	case config.StorageRedis:
		rdb, err := database.NewRedisClient(ctx, database.RedisConfig{
			Addr:                 cfg.RedisAddr,
			Password:             cfg.RedisPass,
			DB:                   cfg.RedisDB,
			PoolSize:             cfg.RedisPoolSize,
			SlowCommandThreshold: cfg.RedisSlowCommandThreshold(),
		}, logger)
		if err != nil {
			_ = tracerShutdown(context.Background())
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("connected to Redis",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)
		if err := database.RegisterPoolMetrics(rdb, serviceName); err != nil {
			logger.Warn("redis pool metrics not registered", slog.String("error", err.Error()))
		}
		healthHandler.Register("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
		a.rdb = rdb
		st = redisstore.New(rdb, cfg.SessionTTL())
	default:
		logger.Warn("using in-memory session storage, state is lost on restart")
		st = memory.New()
	}

	// Optional Kafka publishing of cart and wishlist changes.
	var events *event.Producer
	if cfg.KafkaEnabled {
		producer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		if err := pingKafkaWithRetry(ctx, producer, logger); err != nil {
			logger.Warn("kafka unreachable, continuing without event publishing",
				slog.String("error", err.Error()),
			)
			if cerr := producer.Close(); cerr != nil {
				logger.Warn("failed to close kafka producer", slog.String("error", cerr.Error()))
			}
		} else {
			logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
			a.producer = producer
			events = event.NewProducer(producer, logger)
		}
	}

	catalogClient := catalog.NewClient(cfg.CatalogBaseURL, cfg.CatalogTimeout(), logger)

	// HTTP router.
	router := handler.NewRouter(handler.RouterConfig{
		Catalog:    catalogClient,
		Storage:    st,
		Events:     events,
		Health:     healthHandler,
		CORS:       middleware.DefaultCORSConfig(cfg.CORSAllowedOrigins, cfg.Environment),
		PprofCIDRs: cfg.PprofAllowedCIDRs,
		Logger:     logger,
	})

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return a, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in order: HTTP server, tracer,
// Kafka producer, Redis client.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	// Drain in-flight HTTP requests first so their state writes complete.
	httpCtx, httpCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

// pingKafkaWithRetry attempts to ping the Kafka producer with exponential
// backoff (3 attempts, 1s/2s with ±25% jitter between them).
func pingKafkaWithRetry(ctx context.Context, producer *pkgkafka.Producer, logger *slog.Logger) error {
	const attempts = 3
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if lastErr = producer.Ping(ctx); lastErr == nil {
			return nil
		}
		if attempt == attempts-1 {
			break
		}
		base := time.Duration(1<<uint(attempt)) * time.Second
		jitter := time.Duration(float64(base) * 0.25 * (2*rand.Float64() - 1)) // #nosec G404 -- non-cryptographic jitter for retry backoff
		wait := base + jitter
		logger.Warn("kafka producer ping failed, retrying",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", attempts),
			slog.Duration("backoff", wait),
			slog.String("error", lastErr.Error()),
		)
		select {
		case <-ctx.Done():
			return fmt.Errorf("kafka ping: context canceled during retry: %w", ctx.Err())
		case <-time.After(wait):
		}
	}
	return fmt.Errorf("kafka producer ping failed after %d attempts: %w", attempts, lastErr)
}
