package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory by default", func(t *testing.T) {
		store, closeFn, err := Open(ctx, Config{})
		require.NoError(t, err)
		assert.IsType(t, &MemoryStore{}, store)
		assert.NoError(t, closeFn())
	})

	t.Run("none disables the cache", func(t *testing.T) {
		store, closeFn, err := Open(ctx, Config{Backend: "none"})
		require.NoError(t, err)
		assert.Nil(t, store)
		assert.NotNil(t, closeFn)
	})

	t.Run("redis needs an address", func(t *testing.T) {
		_, _, err := Open(ctx, Config{Backend: "redis"})
		assert.Error(t, err)
	})

	t.Run("redis does not connect eagerly", func(t *testing.T) {
		store, closeFn, err := Open(ctx, Config{Backend: "REDIS", RedisAddr: "127.0.0.1:1"})
		require.NoError(t, err)
		assert.IsType(t, &RedisStore{}, store)
		assert.Zero(t, store.(*RedisStore).ttl)
		assert.NoError(t, closeFn())
	})

	t.Run("redis expiry is opt in", func(t *testing.T) {
		store, closeFn, err := Open(ctx, Config{Backend: "redis", RedisAddr: "127.0.0.1:1", TTL: 72 * time.Hour})
		require.NoError(t, err)
		assert.Equal(t, 72*time.Hour, store.(*RedisStore).ttl)
		assert.NoError(t, closeFn())
	})

	t.Run("postgres needs a dsn", func(t *testing.T) {
		_, _, err := Open(ctx, Config{Backend: "postgres"})
		assert.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, _, err := Open(ctx, Config{Backend: "memcached"})
		assert.Error(t, err)
	})
}
