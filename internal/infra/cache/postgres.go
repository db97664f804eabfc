package cache

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"hynews/internal/resilience/circuitbreaker"
	"hynews/internal/usecase/digest"
)

// PostgresStore keeps entries in the digest_cache table, one row per key.
type PostgresStore struct {
	db      *sql.DB
	breaker *circuitbreaker.CircuitBreaker
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:      db,
		breaker: circuitbreaker.New(circuitbreaker.CacheStoreConfig(BackendPostgres)),
	}
}

func (p *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	const query = `SELECT value FROM digest_cache WHERE key = $1`
	return guarded(p.breaker, BackendPostgres, "get", func() ([]byte, error) {
		var value []byte
		err := p.db.QueryRowContext(ctx, query, key).Scan(&value)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, digest.ErrCacheMiss
		}
		return value, err
	})
}

func (p *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	const query = `
INSERT INTO digest_cache (key, value, created_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, created_at = EXCLUDED.created_at`
	_, err := guarded(p.breaker, BackendPostgres, "set", func() ([]byte, error) {
		_, err := p.db.ExecContext(ctx, query, key, value)
		return nil, err
	})
	return err
}

// Purge deletes entries created before cutoff and returns how many were removed.
func (p *PostgresStore) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM digest_cache WHERE created_at < $1`
	res, err := p.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}
