package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/contractledger/internal/adapter/accounting"
	httpAdapter "github.com/iho/contractledger/internal/adapter/http"
	"github.com/iho/contractledger/internal/adapter/http/handler"
	postgresRepo "github.com/iho/contractledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/contractledger/internal/adapter/repository/redis"
	"github.com/iho/contractledger/internal/domain"
	"github.com/iho/contractledger/internal/infrastructure/config"
	"github.com/iho/contractledger/internal/infrastructure/logger"
	"github.com/iho/contractledger/internal/infrastructure/metrics"
	"github.com/iho/contractledger/internal/infrastructure/postgres"
	"github.com/iho/contractledger/internal/infrastructure/redis"
	"github.com/iho/contractledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	fulfillmentRepo := postgresRepo.NewFulfillmentRepository(pool)
	scheduleRepo := postgresRepo.NewScheduleRepository(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	quotationRepo := postgresRepo.NewQuotationRepository(pool)
	featureRepo := postgresRepo.NewFeatureRepository(pool)
	chainStateRepo := postgresRepo.NewChainStateRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	locker := redisRepo.NewScheduleLock(redisClient, cfg.ScheduleLockTTL)

	// Account scheme is immutable configuration, loaded once.
	scheme, err := postgresRepo.LoadAccountScheme(ctx, pool, cfg.CustomerAccountPrefix, cfg.ScheduleAccountPrefix)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load account scheme")
	}

	// Wire the engine
	builder := usecase.NewPostingBuilder(scheme, idGen)
	sink := accounting.NewSink(entryRepo, fulfillmentRepo)
	queries := usecase.NewLedgerQuery(fulfillmentRepo)

	visitors := []usecase.Visitor{
		usecase.NewAttributionVisitor(builder, transactionRepo, cfg.Book),
		usecase.NewSecurityOrderVisitor(builder, transactionRepo, quotationRepo, cfg.Book),
		usecase.NewQuotationRevaluationVisitor(builder, quotationRepo, cfg.Book),
		usecase.NewTransactionCompletionVisitor(builder, transactionRepo, featureRepo, cfg.Book),
		usecase.NewInterestVisitor(builder, transactionRepo, featureRepo, cfg.Book),
		usecase.NewFinancedCommissionVisitor(builder, transactionRepo, featureRepo, cfg.Book),
		usecase.NewLoanRepaymentVisitor(builder, transactionRepo, cfg.Book),
	}

	chain, err := usecase.NewChain(visitors, scheduleRepo, entryRepo, chainStateRepo, txManager, sink, queries, locker, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to order the visitor chain")
	}

	retrier := postgresRepo.NewRetrier(log)
	chainSvc := retriedChain{chain: chain, retrier: retrier, metrics: m}

	runner := usecase.NewBatchRunner(chain, scheduleRepo, cfg.BatchWorkers, cfg.BatchPageSize, log)
	runner.OnScheduleVisited = func(result *usecase.VisitResult) {
		m.SchedulesVisited.Inc()
		m.PostingsCreated.Add(float64(result.Postings))
	}
	batchSvc := meteredRunner{runner: runner, metrics: m}

	// Initialize handlers
	visitHandler := handler.NewVisitHandler(chainSvc)
	batchHandler := handler.NewBatchHandler(batchSvc)
	ledgerHandler := handler.NewLedgerHandler(queries)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		VisitHandler:  visitHandler,
		BatchHandler:  batchHandler,
		LedgerHandler: ledgerHandler,
		HealthHandler: healthHandler,
		Logger:        log,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Period scheduler: catch every schedule up to today on an interval.
	schedulerCtx, stopScheduler := context.WithCancel(ctx)
	defer stopScheduler()

	if cfg.SchedulerEnabled {
		go runPeriodScheduler(schedulerCtx, batchSvc, cfg.SchedulerInterval, log)
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopScheduler()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// retriedChain re-runs a pass on deadlock or serialization failure and
// records pass metrics.
type retriedChain struct {
	chain   *usecase.Chain
	retrier *postgresRepo.Retrier
	metrics *metrics.Metrics
}

func (c retriedChain) VisitSchedule(ctx context.Context, scheduleID string, thru time.Time) (*usecase.VisitResult, error) {
	start := time.Now()

	var result *usecase.VisitResult
	err := c.retrier.Retry(ctx, func() error {
		var visitErr error
		result, visitErr = c.chain.VisitSchedule(ctx, scheduleID, thru)
		return visitErr
	})

	c.metrics.PassDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		c.metrics.PassFailures.WithLabelValues(failureKind(err)).Inc()
		return nil, err
	}

	c.metrics.SchedulesVisited.Inc()
	c.metrics.PostingsCreated.Add(float64(result.Postings))

	return result, nil
}

type meteredRunner struct {
	runner  *usecase.BatchRunner
	metrics *metrics.Metrics
}

func (r meteredRunner) Run(ctx context.Context, thru time.Time) (*usecase.BatchResult, error) {
	start := time.Now()

	result, err := r.runner.Run(ctx, thru)
	if err != nil {
		return nil, err
	}

	r.metrics.BatchRuns.Inc()
	r.metrics.BatchDuration.Observe(time.Since(start).Seconds())
	r.metrics.BatchBacklog.Set(float64(result.Skipped + len(result.Failures)))

	return result, nil
}

func runPeriodScheduler(ctx context.Context, runner meteredRunner, interval time.Duration, log zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			thru := time.Now().UTC().Truncate(24 * time.Hour)

			result, err := runner.Run(ctx, thru)
			if err != nil {
				log.Error().Err(err).Msg("scheduled batch run failed")
				continue
			}

			log.Info().
				Str("run_id", result.RunID).
				Int("visited", result.Visited).
				Int("skipped", result.Skipped).
				Int("failed", len(result.Failures)).
				Msg("scheduled batch run completed")
		}
	}
}

func failureKind(err error) string {
	if _, ok := domain.AsRuleViolation(err); ok {
		return "business"
	}

	return "fault"
}
