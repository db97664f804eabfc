package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"hynews/internal/usecase/digest"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_UnreachableIsAnError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer func() { _ = client.Close() }()
	store := NewRedisStore(client, time.Hour)

	_, err := store.Get(context.Background(), "digest:daily-star:2024-01-10")
	require.Error(t, err)
	assert.NotErrorIs(t, err, digest.ErrCacheMiss)

	assert.Error(t, store.Set(context.Background(), "digest:daily-star:2024-01-10", []byte(`{}`)))
	assert.Error(t, store.Ping(context.Background()))
}

// TestRedisStore_Live runs against a real server when REDIS_ADDR is set.
func TestRedisStore_Live(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer func() { _ = client.Close() }()

	ctx := context.Background()
	key := "digest:test-live:" + time.Now().Format("150405.000000000")
	defer client.Del(ctx, key)

	store := NewRedisStore(client, time.Minute)

	_, err := store.Get(ctx, key)
	assert.ErrorIs(t, err, digest.ErrCacheMiss)

	require.NoError(t, store.Set(ctx, key, []byte(`{"v":1}`)))
	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"v":1}`, string(got))

	ttl, err := client.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
