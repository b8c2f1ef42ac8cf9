package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/ledgerdash/internal/adapter/http"
	"github.com/iho/ledgerdash/internal/adapter/http/handler"
	"github.com/iho/ledgerdash/internal/adapter/http/middleware"
	"github.com/iho/ledgerdash/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/ledgerdash/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/ledgerdash/internal/adapter/repository/redis"
	"github.com/iho/ledgerdash/internal/app"
	"github.com/iho/ledgerdash/internal/infrastructure/clock"
	"github.com/iho/ledgerdash/internal/infrastructure/config"
	"github.com/iho/ledgerdash/internal/infrastructure/eventpublisher"
	"github.com/iho/ledgerdash/internal/infrastructure/idgen"
	"github.com/iho/ledgerdash/internal/infrastructure/logger"
	"github.com/iho/ledgerdash/internal/infrastructure/metrics"
	"github.com/iho/ledgerdash/internal/infrastructure/postgres"
	"github.com/iho/ledgerdash/internal/infrastructure/redis"
	"github.com/iho/ledgerdash/internal/infrastructure/seed"
	"github.com/iho/ledgerdash/internal/usecase"
)

const (
	limiterCleanupInterval = time.Minute
	limiterIdleTimeout     = 10 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	zerolog.DefaultContextLogger = &log

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(log.WithContext(ctx), cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// The HTTP middleware metrics live in the default registry too.
	m := metrics.New(prometheus.DefaultRegisterer)

	store := memory.NewStore()
	clk := clock.New(time.Local)
	checks := map[string]handler.Check{}

	dispatcher := eventpublisher.NewDispatcher(log, eventpublisher.NewLogPublisher(log), m)

	// Redis
	var (
		statsCache       usecase.StatsCache
		idempotencyStore usecase.IdempotencyStore
	)
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, cfg.RedisURL, cfg.DatabaseTimeout)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer client.Close()
		log.Info().Msg("connected to redis")

		cache := redisRepo.NewStatsCache(client, redisRepo.WithObserver(m))
		statsCache = cache
		idempotencyStore = redisRepo.NewIdempotencyStore(client)
		dispatcher.Add(eventpublisher.NewCacheInvalidator(cache))
		checks["redis"] = redisCheck(client)
	} else {
		cache := memory.NewStatsCache(time.Minute).WithObserver(m)
		statsCache = cache
		dispatcher.Add(eventpublisher.NewCacheInvalidator(cache))
	}

	// AMQP
	if cfg.AMQPURL != "" {
		amqpPublisher, err := eventpublisher.NewAMQPPublisher(ctx, cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return fmt.Errorf("connect to amqp: %w", err)
		}
		defer amqpPublisher.Close()
		dispatcher.Add(amqpPublisher)
		log.Info().Str("exchange", cfg.AMQPExchange).Msg("publishing ledger events to amqp")
	}

	ledger := app.NewLedger(store, app.Options{
		IDGen:         idgen.NewULIDGenerator(),
		Clock:         clk,
		Publisher:     dispatcher,
		OwnerID:       cfg.DefaultUserID,
		StatsCache:    statsCache,
		StatsCacheTTL: cfg.StatsCacheTTL,
	})

	// Postgres snapshots
	var snapshots *usecase.SnapshotUseCase
	if cfg.DatabaseURL != "" {
		if err := postgres.RunMigrations(cfg.DatabaseURL, log); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}

		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()
		log.Info().Msg("connected to postgres")

		repo := postgresRepo.NewSnapshotRepository(pool, postgresRepo.NewRetrier(log, postgresRepo.WithRetryHook(m.SnapshotRetries.Inc)))
		snapshots = usecase.NewSnapshotUseCase(store, repo, clk)
		checks["postgres"] = pool.Ping

		if _, err := snapshots.Restore(ctx); err != nil {
			return fmt.Errorf("restore snapshot: %w", err)
		}
	}

	result, err := seed.New(ledger.Categories, ledger.Accounts).Run(ctx, seed.Options{
		Categories:   cfg.SeedDefaultCategories,
		DemoAccounts: cfg.SeedDemoAccounts,
	})
	if err != nil {
		return fmt.Errorf("seed ledger: %w", err)
	}
	log.Debug().Int("categories", result.Categories).Int("accounts", result.Accounts).Msg("seed finished")

	var limiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		limiter.OnLimited = m.RateLimitHits.Inc
	}

	router := newRouter(ledger, clk, routerOptions{
		Checks:           checks,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      limiter,
		MetricsHandler:   promhttp.Handler(),
		Logger:           log,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if limiter != nil {
		g.Go(func() error {
			limiter.RunCleanup(gctx, limiterCleanupInterval, limiterIdleTimeout)
			return nil
		})
	}

	if snapshots != nil {
		g.Go(func() error {
			runSnapshotLoop(gctx, snapshots, cfg.SnapshotInterval, m)
			return nil
		})
	}

	err = g.Wait()

	if snapshots != nil {
		finalCtx, cancel := context.WithTimeout(log.WithContext(context.Background()), cfg.HTTPShutdownTimeout)
		defer cancel()
		if perr := persistSnapshot(finalCtx, snapshots, m); perr != nil {
			err = errors.Join(err, perr)
		} else {
			log.Info().Msg("final snapshot saved")
		}
	}

	return err
}

type routerOptions struct {
	Checks           map[string]handler.Check
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	MetricsHandler   http.Handler
	Logger           zerolog.Logger
}

func newRouter(ledger *app.Ledger, clk usecase.Clock, opts routerOptions) http.Handler {
	loc := clk.Now().Location()

	return httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:     handler.NewAccountHandler(ledger.Accounts),
		CategoryHandler:    handler.NewCategoryHandler(ledger.Categories),
		TransactionHandler: handler.NewTransactionHandler(ledger.Transactions, loc),
		DashboardHandler:   handler.NewDashboardHandler(ledger.Dashboard, clk),
		BudgetHandler:      handler.NewBudgetHandler(ledger.Budgets, clk),
		SettingsHandler:    handler.NewSettingsHandler(ledger.Settings),
		LedgerHandler:      handler.NewLedgerHandler(ledger.Ledger, ledger.Reconciliation),
		HealthHandler:      handler.NewHealthHandler(opts.Checks),
		IdempotencyStore:   opts.IdempotencyStore,
		IdempotencyTTL:     opts.IdempotencyTTL,
		RateLimiter:        opts.RateLimiter,
		MetricsHandler:     opts.MetricsHandler,
		Logger:             opts.Logger,
	})
}

type snapshotPersister interface {
	Persist(ctx context.Context) error
}

// runSnapshotLoop saves the ledger every interval until ctx is done.
func runSnapshotLoop(ctx context.Context, p snapshotPersister, interval time.Duration, m *metrics.Metrics) {
	if interval <= 0 {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := persistSnapshot(ctx, p, m); err != nil {
				zerolog.Ctx(ctx).Error().Err(err).Msg("periodic snapshot failed")
			}
		}
	}
}

func persistSnapshot(ctx context.Context, p snapshotPersister, m *metrics.Metrics) error {
	start := time.Now()
	err := p.Persist(ctx)
	m.SnapshotDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		m.SnapshotErrors.Inc()
		return err
	}

	m.SnapshotsSaved.Inc()
	return nil
}

func redisCheck(client *goredis.Client) handler.Check {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
