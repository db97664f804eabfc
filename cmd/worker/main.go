package main

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

	"github.com/prometheus/client_golang/prometheus"

	"hynews/internal/bootstrap"
	"hynews/internal/domain/entity"
	"hynews/internal/infra/cache"
	workerPkg "hynews/internal/infra/worker"
	"hynews/internal/observability/logging"
	"hynews/internal/observability/tracing"
	"hynews/pkg/config"
)

func main() {
	logger := initLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing := tracing.Init("hynews-worker", config.GetEnvString("VERSION", "dev"))
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("failed to shut down tracer provider", slog.Any("error", err))
		}
	}()

	// Load worker configuration (fail-open strategy)
	workerMetrics := workerPkg.NewWorkerMetrics(prometheus.DefaultRegisterer)
	workerConfig := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("warmup_timeout", workerConfig.WarmupTimeout),
		slog.Int("warmup_concurrency", workerConfig.WarmupConcurrency),
		slog.Int("health_port", workerConfig.HealthPort))

	// Start health check server
	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, prometheus.DefaultGatherer, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	job, cleanup := setupWarmupJob(ctx, logger, workerConfig, workerMetrics)
	defer cleanup()

	startCronWorker(ctx, logger, job, healthServer)
}

// initLogger initializes the JSON logger from LOG_LEVEL and installs it as default.
func initLogger() *slog.Logger {
	logger := logging.NewLogger(os.Stdout, os.Getenv("LOG_LEVEL"))
	slog.SetDefault(logger)
	return logger
}

// setupWarmupJob builds the digest pipeline the job drives. The returned
// cleanup closes the cache store.
func setupWarmupJob(ctx context.Context, logger *slog.Logger, cfg workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics) (*workerPkg.WarmupJob, func()) {
	svc, err := bootstrap.NewNewsService(logger)
	if err != nil {
		logger.Error("failed to build news sources", slog.Any("error", err))
		os.Exit(1)
	}

	sum, err := bootstrap.NewSummarizer(logger)
	if err != nil {
		logger.Error("failed to create summarizer", slog.Any("error", err))
		os.Exit(1)
	}

	store, closeStore, err := bootstrap.OpenCache(ctx)
	if err != nil {
		logger.Error("failed to open digest cache", slog.Any("error", err))
		os.Exit(1)
	}
	cleanup := func() {
		if err := closeStore(); err != nil {
			logger.Error("failed to close digest cache", slog.Any("error", err))
		}
	}

	switch store.(type) {
	case nil:
		logger.Warn("digest cache is disabled, warm-up only exercises the upstreams")
	case *cache.MemoryStore:
		logger.Warn("digest cache backend is memory, warmed digests are not visible to the api; use redis or postgres")
	}

	builder, err := bootstrap.NewDigestBuilder(svc, sum, store)
	if err != nil {
		cleanup()
		logger.Error("failed to create digest builder", slog.Any("error", err))
		os.Exit(1)
	}

	sources := make([]entity.SourceID, 0, len(svc.Sources()))
	for _, d := range svc.Sources() {
		sources = append(sources, d.ID)
	}

	job := &workerPkg.WarmupJob{
		Builder: builder,
		Sources: sources,
		Config:  cfg,
		Metrics: metrics,
		Logger:  logger,
	}
	// Stale entries are replaced lazily; pruning old Postgres rows is opt in.
	if pg, ok := store.(*cache.PostgresStore); ok {
		if after := config.GetEnvDuration("DIGEST_PURGE_AFTER", 0); after > 0 {
			job.Purger = pg
			job.PurgeAfter = after
			logger.Info("digest cache purge enabled", slog.Duration("after", after))
		}
	}
	return job, cleanup
}

// startCronWorker schedules the warm-up job and blocks until ctx is done.
func startCronWorker(ctx context.Context, logger *slog.Logger, job *workerPkg.WarmupJob, healthServer *workerPkg.HealthServer) {
	c, err := workerPkg.NewScheduler(ctx, job)
	if err != nil {
		logger.Error("failed to schedule warm-up job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	// Mark as ready after cron is set up
	healthServer.SetReady(true)
	logger.Info("worker started",
		slog.String("schedule", job.Config.CronSchedule),
		slog.String("timezone", job.Config.Timezone),
		slog.Int("sources", len(job.Sources)))

	if config.GetEnvBool("WARMUP_ON_START", false) {
		go func() { _, _ = job.Run(ctx) }()
	}

	<-ctx.Done()
	logger.Info("shutting down worker...")
	healthServer.SetReady(false)

	// Wait for a running job to observe cancellation.
	select {
	case <-c.Stop().Done():
	case <-time.After(30 * time.Second):
		logger.Warn("warm-up job did not stop in time")
	}
	logger.Info("worker stopped")
}
