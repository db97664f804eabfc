// Package bootstrap assembles the components shared by the api and worker
// binaries from environment settings.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"hynews/internal/domain/entity"
	"hynews/internal/infra/cache"
	"hynews/internal/infra/fetcher"
	"hynews/internal/infra/scraper"
	"hynews/internal/infra/summarizer"
	"hynews/internal/usecase/digest"
	"hynews/internal/usecase/news"
	"hynews/internal/usecase/normalize"
	pkgconfig "hynews/pkg/config"
)

// NewNewsService builds the adapter registry: the builtin sources plus any
// extension sources listed in SOURCES_FILE.
func NewNewsService(logger *slog.Logger) (*news.Service, error) {
	fetchCfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("content fetch config: %w", err)
	}

	factory := scraper.NewAdapterFactory(scraper.Options{
		Pages:                  fetcher.NewExtractor(fetchCfg),
		Timeout:                fetchCfg.Timeout,
		Parallelism:            fetchCfg.Parallelism,
		RequestsPerSecond:      float64(pkgconfig.GetEnvInt("UPSTREAM_RATE_PER_SECOND", 5)),
		MaxBodySize:            fetchCfg.MaxBodySize,
		UserAgent:              fetchCfg.UserAgent,
		IttefaqImageDimensions: pkgconfig.GetEnvString("ITTEFAQ_IMAGE_DIMENSIONS", ""),
		Normalizer:             normalize.New(),
		Logger:                 logger,
	})

	descs := entity.BuiltinSources()
	if path := pkgconfig.GetEnvString("SOURCES_FILE", ""); path != "" {
		extra, err := scraper.LoadSourcesFile(path)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded extension sources",
			slog.String("path", path),
			slog.Int("count", len(extra)))
		descs = append(descs, extra...)
	}

	adapters, err := factory.CreateAll(descs)
	if err != nil {
		return nil, err
	}
	list := make([]news.Adapter, 0, len(adapters))
	for _, a := range adapters {
		list = append(list, a)
	}
	return news.NewService(list...)
}

// NewSummarizer selects the summarizer named by SUMMARIZER_TYPE. When unset,
// gemini is used if GOOGLE_API_KEY is present and noop otherwise.
func NewSummarizer(logger *slog.Logger) (digest.Summarizer, error) {
	def := summarizer.ProviderNoOp
	if os.Getenv("GOOGLE_API_KEY") != "" {
		def = summarizer.ProviderGemini
	}
	provider := strings.ToLower(pkgconfig.GetEnvString("SUMMARIZER_TYPE", def))

	if provider == summarizer.ProviderNoOp {
		logger.Warn("Using no-op summarizer, digests will carry empty summaries")
		return summarizer.NewNoOp(), nil
	}

	keyEnv := map[string]string{
		summarizer.ProviderClaude: "ANTHROPIC_API_KEY",
		summarizer.ProviderOpenAI: "OPENAI_API_KEY",
		summarizer.ProviderGemini: "GOOGLE_API_KEY",
	}[provider]
	if keyEnv == "" {
		return nil, fmt.Errorf("invalid SUMMARIZER_TYPE %q: must be claude, openai, gemini or noop", provider)
	}
	apiKey := os.Getenv(keyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("%s is required when SUMMARIZER_TYPE=%s", keyEnv, provider)
	}

	cfg, err := summarizer.LoadConfig(provider)
	if err != nil {
		return nil, err
	}
	logger.Info("summarizer configured",
		slog.String("provider", provider),
		slog.String("model", cfg.Model),
		slog.Duration("timeout", cfg.Timeout))

	switch provider {
	case summarizer.ProviderClaude:
		return summarizer.NewClaude(apiKey, cfg), nil
	case summarizer.ProviderOpenAI:
		return summarizer.NewOpenAI(apiKey, cfg), nil
	default:
		g, err := summarizer.NewGemini(context.Background(), apiKey, cfg)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
}

// CacheBackend returns the configured DIGEST_CACHE_BACKEND, lower-cased.
func CacheBackend() string {
	return strings.ToLower(pkgconfig.GetEnvString("DIGEST_CACHE_BACKEND", cache.BackendMemory))
}

// OpenCache opens the digest cache backing store. A nil store means the
// cache is disabled.
func OpenCache(ctx context.Context) (digest.Store, func() error, error) {
	return cache.Open(ctx, cache.Config{
		Backend:       CacheBackend(),
		RedisAddr:     pkgconfig.GetEnvString("REDIS_ADDR", ""),
		RedisPassword: pkgconfig.GetEnvString("REDIS_PASSWORD", ""),
		RedisDB:       pkgconfig.GetEnvInt("REDIS_DB", 0),
		DatabaseURL:   pkgconfig.GetEnvString("DATABASE_URL", ""),
		TTL:           pkgconfig.GetEnvDuration("DIGEST_REDIS_TTL", 0),
	})
}

// DigestLocation loads DIGEST_TIMEZONE, the zone whose calendar date keys
// the digest cache. Default: UTC
func DigestLocation() (*time.Location, error) {
	name := pkgconfig.GetEnvString("DIGEST_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid DIGEST_TIMEZONE %q: %w", name, err)
	}
	return loc, nil
}

// NewDigestBuilder wires the cache around store and returns the builder.
func NewDigestBuilder(lister digest.Lister, sum digest.Summarizer, store digest.Store) (*digest.Builder, error) {
	loc, err := DigestLocation()
	if err != nil {
		return nil, err
	}
	return digest.NewBuilder(lister, sum, digest.NewCache(store, loc)), nil
}
