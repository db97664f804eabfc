// Package worker runs the scheduled digest warm-up: a cron job that builds
// every source's digest for the day through the shared cache, so the first
// reader of the day does not wait on the summarizer.
package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"hynews/internal/pkg/config"
)

// WorkerConfig controls the warm-up schedule.
type WorkerConfig struct {
	// CronSchedule is a five-field cron expression evaluated in Timezone.
	CronSchedule string
	// Timezone should match DIGEST_TIMEZONE so the warm-up lands in the
	// same day bucket readers will ask for.
	Timezone string
	// WarmupTimeout bounds one whole warm-up run.
	WarmupTimeout time.Duration
	// WarmupConcurrency is how many sources are built at once.
	WarmupConcurrency int
	// HealthPort serves /health, /health/ready and /metrics.
	HealthPort int
}

// DefaultConfig warms every source five minutes after midnight in Dhaka.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:      "5 0 * * *",
		Timezone:          "Asia/Dhaka",
		WarmupTimeout:     10 * time.Minute,
		WarmupConcurrency: 2,
		HealthPort:        9091,
	}
}

// Validate reports every invalid field at once.
func (c *WorkerConfig) Validate() error {
	var errs []error
	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateDuration(c.WarmupTimeout, time.Minute, 2*time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("warmup timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.WarmupConcurrency, 1, 10); err != nil {
		errs = append(errs, fmt.Errorf("warmup concurrency: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	return errors.Join(errs...)
}

// LoadConfigFromEnv reads CRON_SCHEDULE, WORKER_TIMEZONE, WARMUP_TIMEOUT,
// WARMUP_CONCURRENCY and WORKER_HEALTH_PORT. Invalid values fall back to
// their defaults with a warning and a fallback metric; the result is always
// valid.
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) WorkerConfig {
	cfg := DefaultConfig()
	fallback := false

	note := func(field, warning string, applied bool) {
		if !applied {
			return
		}
		fallback = true
		metrics.RecordFallback(field)
		logger.Warn("configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", warning))
	}

	schedule := config.LoadEnvString("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = schedule.Value
	note("cron_schedule", schedule.Warning, schedule.FallbackApplied)

	tz := config.LoadEnvString("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = tz.Value
	note("timezone", tz.Warning, tz.FallbackApplied)

	timeout := config.LoadEnvDuration("WARMUP_TIMEOUT", cfg.WarmupTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, time.Minute, 2*time.Hour)
	})
	cfg.WarmupTimeout = timeout.Value
	note("warmup_timeout", timeout.Warning, timeout.FallbackApplied)

	concurrency := config.LoadEnvInt("WARMUP_CONCURRENCY", cfg.WarmupConcurrency, func(v int) error {
		return config.ValidateIntRange(v, 1, 10)
	})
	cfg.WarmupConcurrency = concurrency.Value
	note("warmup_concurrency", concurrency.Warning, concurrency.FallbackApplied)

	port := config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = port.Value
	note("health_port", port.Warning, port.FallbackApplied)

	metrics.SetFallbackActive(fallback)
	metrics.RecordLoadTimestamp()
	return cfg
}
