package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"hynews/internal/domain/entity"
	"hynews/internal/handler/http/respond"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

// DigestBuilder builds a source's digest through the cache.
type DigestBuilder interface {
	Build(ctx context.Context, source entity.SourceID, bypassCache bool) (*entity.Digest, error)
}

// Purger deletes cache entries created before cutoff. Backends that expire
// entries on their own do not implement it.
type Purger interface {
	Purge(ctx context.Context, cutoff time.Time) (int64, error)
}

// Stats summarizes one warm-up run.
type Stats struct {
	Sources  int
	Warmed   int
	Failed   int
	Purged   int64
	Duration time.Duration
}

// WarmupJob builds today's digest for each source. It never bypasses the
// cache: a digest already built today is left as is.
type WarmupJob struct {
	Builder DigestBuilder
	Sources []entity.SourceID
	// Purger, when set, removes entries older than PurgeAfter after each run.
	Purger     Purger
	PurgeAfter time.Duration
	Config     WorkerConfig
	Metrics    *WorkerMetrics
	Logger     *slog.Logger
	now        func() time.Time
}

// Run warms every source. One source failing does not stop the others; the
// returned error joins every failure.
func (j *WarmupJob) Run(ctx context.Context) (Stats, error) {
	now := time.Now
	if j.now != nil {
		now = j.now
	}
	start := now()
	stats := Stats{Sources: len(j.Sources)}

	ctx, cancel := context.WithTimeout(ctx, j.Config.WarmupTimeout)
	defer cancel()

	var (
		mu   sync.Mutex
		errs []error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(j.Config.WarmupConcurrency, 1))
	for _, id := range j.Sources {
		g.Go(func() error {
			_, err := j.Builder.Build(gctx, id, false)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				stats.Failed++
				errs = append(errs, fmt.Errorf("%s: %w", id, err))
				j.Metrics.RecordDigest(string(id), "failure")
				j.Logger.Warn("digest warm-up failed",
					slog.String("source", string(id)),
					slog.String("error", respond.SanitizeError(err)))
				return nil
			}
			stats.Warmed++
			j.Metrics.RecordDigest(string(id), "success")
			return nil
		})
	}
	_ = g.Wait()

	if j.Purger != nil && j.PurgeAfter > 0 {
		n, err := j.Purger.Purge(ctx, now().Add(-j.PurgeAfter))
		if err != nil {
			j.Logger.Warn("digest cache purge failed", slog.String("error", respond.SanitizeError(err)))
		}
		stats.Purged = n
	}

	stats.Duration = now().Sub(start)
	err := errors.Join(errs...)
	status := "success"
	switch {
	case stats.Failed == stats.Sources && stats.Sources > 0:
		status = "failure"
	case stats.Failed > 0:
		status = "partial"
	}
	j.Metrics.RecordRun(status, stats.Duration.Seconds())
	if err == nil {
		j.Metrics.RecordLastSuccess()
	}

	j.Logger.Info("digest warm-up completed",
		slog.String("status", status),
		slog.Int("sources", stats.Sources),
		slog.Int("warmed", stats.Warmed),
		slog.Int("failed", stats.Failed),
		slog.Int64("purged", stats.Purged),
		slog.Duration("duration", stats.Duration))
	return stats, err
}

// NewScheduler returns a cron scheduler, not yet started, that runs job on
// its configured schedule and timezone. Overlapping runs are skipped.
func NewScheduler(ctx context.Context, job *WarmupJob) (*cron.Cron, error) {
	loc, err := time.LoadLocation(job.Config.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", job.Config.Timezone, err)
	}

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	_, err = c.AddFunc(job.Config.CronSchedule, func() {
		_, _ = job.Run(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("add warm-up job: %w", err)
	}
	return c, nil
}
