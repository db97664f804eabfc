package cache

import (
	"context"
	"errors"
	"time"

	"hynews/internal/resilience/circuitbreaker"
	"hynews/internal/usecase/digest"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps entries in Redis. Entries never expire unless a ttl is
// given; freshness is decided by the digest cache on read.
type RedisStore struct {
	client  redis.UniversalClient
	ttl     time.Duration
	breaker *circuitbreaker.CircuitBreaker
}

func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client:  client,
		ttl:     ttl,
		breaker: circuitbreaker.New(circuitbreaker.CacheStoreConfig(BackendRedis)),
	}
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	return guarded(r.breaker, BackendRedis, "get", func() ([]byte, error) {
		v, err := r.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, digest.ErrCacheMiss
		}
		return v, err
	})
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := guarded(r.breaker, BackendRedis, "set", func() ([]byte, error) {
		return nil, r.client.Set(ctx, key, value, r.ttl).Err()
	})
	return err
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
