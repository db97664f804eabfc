// Package digest builds and caches per-source daily digests.
//
// A build checks the cache first. On a miss, or when the caller bypasses the
// cache, it lists the source's latest articles, summarizes the top ones and
// writes the result back under the current day's bucket. Failed builds are
// never cached.
package digest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"hynews/internal/domain/entity"
	"hynews/internal/observability/metrics"
	"hynews/internal/observability/tracing"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"
)

const (
	// FetchLimit is how many articles a build lists.
	FetchLimit = 20
	// SummarizeLimit is how many of them are sent to the summarizer.
	SummarizeLimit = 15
	// SharedBuildTimeout bounds a shared build, which ignores the
	// cancellation of the callers waiting on it.
	SharedBuildTimeout = 3 * time.Minute
)

// ErrNoArticles is returned when the source listed nothing to summarize.
var ErrNoArticles = fmt.Errorf("no articles available: %w", entity.ErrUpstreamUnavailable)

// Lister lists a source's latest articles.
type Lister interface {
	Latest(ctx context.Context, source entity.SourceID, limit int) ([]entity.Article, error)
	Descriptor(id entity.SourceID) (entity.SourceDescriptor, bool)
}

// Summarizer produces digest content from articles.
type Summarizer interface {
	Summarize(ctx context.Context, articles []entity.Article) (*entity.DigestContent, error)
}

// Builder runs the digest state machine for any registered source.
type Builder struct {
	lister     Lister
	summarizer Summarizer
	cache      *Cache
	group      singleflight.Group
	now        func() time.Time

	sharedTimeout time.Duration
}

// NewBuilder creates a Builder. A nil cache disables caching.
func NewBuilder(lister Lister, summarizer Summarizer, cache *Cache) *Builder {
	if cache == nil {
		cache = NewCache(nil, time.UTC)
	}
	return &Builder{
		lister:     lister,
		summarizer: summarizer,
		cache:      cache,
		now:        time.Now,

		sharedTimeout: SharedBuildTimeout,
	}
}

// Build returns source's digest for today. With bypassCache the digest is
// always regenerated and overwrites the cached one.
//
// Concurrent non-bypass misses for the same bucket share one computation.
func (b *Builder) Build(ctx context.Context, source entity.SourceID, bypassCache bool) (*entity.Digest, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "digest.Build")
	defer span.End()
	span.SetAttributes(
		attribute.String("source", string(source)),
		attribute.Bool("bypass_cache", bypassCache),
	)

	key := b.cache.TodayKey(source)

	if bypassCache {
		metrics.RecordDigestCacheLookup(string(source), "bypass")
		d, err := b.generate(ctx, source, key)
		if err != nil {
			tracing.RecordError(span, err)
		}
		return d, err
	}

	if d, ok := b.cache.Get(ctx, key); ok {
		metrics.RecordDigestCacheLookup(string(source), "hit")
		span.SetAttributes(attribute.Bool("cache_hit", true))
		slog.InfoContext(ctx, "digest served from cache",
			slog.String("source", string(source)),
			slog.String("key", key))
		return d, nil
	}
	if b.cache.Enabled() {
		metrics.RecordDigestCacheLookup(string(source), "miss")
	} else {
		metrics.RecordDigestCacheLookup(string(source), "disabled")
	}

	// The shared computation must not die with whichever caller started it,
	// but it is still bounded.
	v, err, shared := b.group.Do(key, func() (interface{}, error) {
		genCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.sharedTimeout)
		defer cancel()
		// Another caller may have stored the digest while we waited.
		if d, ok := b.cache.Get(genCtx, key); ok {
			return d, nil
		}
		return b.generate(genCtx, source, key)
	})
	span.SetAttributes(attribute.Bool("shared", shared))
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	return v.(*entity.Digest), nil
}

func (b *Builder) generate(ctx context.Context, source entity.SourceID, key string) (*entity.Digest, error) {
	start := time.Now()

	d, err := b.compose(ctx, source)
	metrics.RecordDigestBuild(string(source), err == nil, time.Since(start))
	if err != nil {
		slog.WarnContext(ctx, "digest build failed",
			slog.String("source", string(source)),
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err))
		return nil, err
	}

	if err := b.cache.Put(ctx, key, d); err != nil {
		metrics.RecordDigestCacheWriteError(string(source))
		slog.WarnContext(ctx, "digest cache write failed",
			slog.String("source", string(source)),
			slog.String("key", key),
			slog.Any("error", err))
	}

	slog.InfoContext(ctx, "digest built",
		slog.String("source", string(source)),
		slog.Int("articles_analyzed", d.Metadata.ArticlesAnalyzed),
		slog.Int("total_articles_fetched", d.Metadata.TotalArticlesFetched),
		slog.Duration("duration", time.Since(start)))
	return d, nil
}

func (b *Builder) compose(ctx context.Context, source entity.SourceID) (*entity.Digest, error) {
	articles, err := b.lister.Latest(ctx, source, FetchLimit)
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, fmt.Errorf("%s: %w", source, ErrNoArticles)
	}

	top := articles
	if len(top) > SummarizeLimit {
		top = top[:SummarizeLimit]
	}

	content, err := b.summarizer.Summarize(ctx, top)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, entity.ErrUpstreamUnavailable) {
			err = fmt.Errorf("%w: %w", entity.ErrSummarizerUnavailable, err)
		}
		return nil, fmt.Errorf("summarize %s: %w", source, err)
	}
	if content == nil {
		return nil, fmt.Errorf("summarize %s: %w: empty result", source, entity.ErrMalformedDigest)
	}

	return entity.NewDigest(*content, entity.DigestMetadata{
		Source:               b.displayName(source),
		ArticlesAnalyzed:     len(top),
		TotalArticlesFetched: len(articles),
		GeneratedAt:          b.now().UTC(),
	}), nil
}

func (b *Builder) displayName(source entity.SourceID) string {
	if d, ok := b.lister.Descriptor(source); ok && d.DisplayName != "" {
		return d.DisplayName
	}
	return string(source)
}
