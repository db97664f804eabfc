package cache

import (
	"context"
	"sync"
	"time"

	"hynews/internal/observability/metrics"
	"hynews/internal/usecase/digest"
)

// MemoryStore keeps entries in process memory. Entries are lost on restart
// and are not shared between the API and the worker.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	start := time.Now()
	defer func() { metrics.RecordCacheStoreOperation(BackendMemory, "get", time.Since(start)) }()

	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	if !ok {
		return nil, digest.ErrCacheMiss
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	start := time.Now()
	defer func() { metrics.RecordCacheStoreOperation(BackendMemory, "set", time.Since(start)) }()

	v := make([]byte, len(value))
	copy(v, value)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = v
	return nil
}

// Len returns the number of stored entries.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Ping always succeeds.
func (m *MemoryStore) Ping(context.Context) error { return nil }
