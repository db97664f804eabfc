// Package cache provides the backing stores behind the digest cache:
// in-process memory, Redis and Postgres. Remote stores run behind a circuit
// breaker so a failing backend degrades to cache misses quickly.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hynews/internal/infra/db"
	"hynews/internal/observability/metrics"
	"hynews/internal/resilience/circuitbreaker"
	"hynews/internal/usecase/digest"

	"github.com/redis/go-redis/v9"
)

// Backend names accepted by DIGEST_CACHE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendNone     = "none"
)

// Config selects and configures a backing store.
type Config struct {
	Backend       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	DatabaseURL   string
	// TTL, when positive, makes Redis expire entries. Zero keeps them until
	// the next write to the same key replaces them.
	TTL time.Duration
}

// Open builds the configured store. It returns a nil store for BackendNone,
// which disables the digest cache. The returned close function releases any
// client resources and is never nil.
func Open(ctx context.Context, cfg Config) (digest.Store, func() error, error) {
	noop := func() error { return nil }
	ttl := max(cfg.TTL, 0)

	switch strings.ToLower(cfg.Backend) {
	case "", BackendMemory:
		return NewMemoryStore(), noop, nil

	case BackendNone:
		return nil, noop, nil

	case BackendRedis:
		if cfg.RedisAddr == "" {
			return nil, noop, errors.New("REDIS_ADDR is required for the redis cache backend")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return NewRedisStore(client, ttl), client.Close, nil

	case BackendPostgres:
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		if err := db.MigrateUp(ctx, conn); err != nil {
			// The schema is retried on the next start; the store degrades to misses.
			slog.Warn("digest cache schema migration failed",
				slog.Any("error", err))
		}
		return NewPostgresStore(conn), conn.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown digest cache backend %q", cfg.Backend)
	}
}

// guarded runs one store operation behind breaker and records its duration.
// A miss counts as a successful call.
func guarded(breaker *circuitbreaker.CircuitBreaker, backend, operation string, fn func() ([]byte, error)) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.RecordCacheStoreOperation(backend, operation, time.Since(start))
	}()

	var miss bool
	v, err := breaker.Execute(func() (interface{}, error) {
		b, err := fn()
		if errors.Is(err, digest.ErrCacheMiss) {
			miss = true
			return nil, nil
		}
		return b, err
	})
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", backend, operation, err)
	}
	if miss {
		return nil, digest.ErrCacheMiss
	}
	b, _ := v.([]byte)
	return b, nil
}
