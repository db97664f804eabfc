package digest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"hynews/internal/domain/entity"
)

// TTL is how long a cached digest stays fresh.
const TTL = 24 * time.Hour

// ErrCacheMiss is returned by a Store when the key is absent.
var ErrCacheMiss = errors.New("digest cache miss")

// Store is a key/value backing store for cache entries. Values are opaque
// JSON bytes; Set fully replaces any previous value.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Cache keeps one digest per (source, calendar day) bucket.
// A Cache over a nil Store is disabled: Get always misses and Put is a no-op.
type Cache struct {
	store    Store
	location *time.Location
	ttl      time.Duration
	now      func() time.Time
}

// NewCache creates a cache over store. Day buckets are computed in loc; nil
// means UTC.
func NewCache(store Store, loc *time.Location) *Cache {
	if loc == nil {
		loc = time.UTC
	}
	return &Cache{
		store:    store,
		location: loc,
		ttl:      TTL,
		now:      time.Now,
	}
}

// Enabled reports whether a backing store is configured.
func (c *Cache) Enabled() bool {
	return c.store != nil
}

// Key returns the bucket key for source at instant t.
func (c *Cache) Key(source entity.SourceID, t time.Time) string {
	return fmt.Sprintf("digest:%s:%s", source, t.In(c.location).Format("2006-01-02"))
}

// TodayKey returns the key of source's bucket for the current day.
func (c *Cache) TodayKey(source entity.SourceID) string {
	return c.Key(source, c.now())
}

// Get returns the digest stored under key if it is fresh. Store errors and
// undecodable entries are treated as a miss.
func (c *Cache) Get(ctx context.Context, key string) (*entity.Digest, bool) {
	if c.store == nil {
		return nil, false
	}

	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			slog.WarnContext(ctx, "digest cache read failed, treating as miss",
				slog.String("key", key),
				slog.Any("error", err))
		}
		return nil, false
	}

	var entry entity.DigestCacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		slog.WarnContext(ctx, "undecodable digest cache entry, treating as miss",
			slog.String("key", key),
			slog.Any("error", err))
		return nil, false
	}

	if !c.fresh(entry, key) {
		return nil, false
	}
	d := entry.Digest
	d.Normalize()
	return &d, true
}

func (c *Cache) fresh(entry entity.DigestCacheEntry, key string) bool {
	if entry.Key != key {
		return false
	}
	age := c.now().Sub(entry.CreatedAt)
	return age >= 0 && age < c.ttl
}

// Put stores d under key, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, key string, d *entity.Digest) error {
	if c.store == nil {
		return nil
	}
	raw, err := json.Marshal(entity.DigestCacheEntry{
		Key:       key,
		Digest:    *d,
		CreatedAt: c.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := c.store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write cache entry %s: %w", key, err)
	}
	return nil
}
