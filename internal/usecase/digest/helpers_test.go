package digest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"hynews/internal/domain/entity"
)

type mapStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	sets   int
	getErr error
	setErr error
}

func newMapStore() *mapStore {
	return &mapStore{data: make(map[string][]byte)}
}

func (m *mapStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return v, nil
}

func (m *mapStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.sets++
	m.data[key] = value
	return nil
}

func (m *mapStore) setCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

type stubLister struct {
	articles []entity.Article
	err      error
	calls    int32
	gotLimit int32
}

func (s *stubLister) Latest(_ context.Context, _ entity.SourceID, limit int) ([]entity.Article, error) {
	atomic.AddInt32(&s.calls, 1)
	atomic.StoreInt32(&s.gotLimit, int32(limit))
	if s.err != nil {
		return nil, s.err
	}
	return s.articles, nil
}

func (s *stubLister) Descriptor(id entity.SourceID) (entity.SourceDescriptor, bool) {
	for _, d := range entity.BuiltinSources() {
		if d.ID == id {
			return d, true
		}
	}
	return entity.SourceDescriptor{}, false
}

type stubSummarizer struct {
	calls   int32
	gotLen  int32
	err     error
	block   chan struct{}
	counter int32
}

func (s *stubSummarizer) Summarize(ctx context.Context, articles []entity.Article) (*entity.DigestContent, error) {
	atomic.AddInt32(&s.calls, 1)
	atomic.StoreInt32(&s.gotLen, int32(len(articles)))
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	n := atomic.AddInt32(&s.counter, 1)
	return &entity.DigestContent{
		StoryOfDay: entity.StoryOfDay{Title: fmt.Sprintf("story %d", n), Summary: "summary"},
		Categories: []entity.Category{{Name: "Politics", Items: []string{articles[0].Title}}},
	}, nil
}

func (s *stubSummarizer) callCount() int {
	return int(atomic.LoadInt32(&s.calls))
}

func makeArticles(n int) []entity.Article {
	out := make([]entity.Article, n)
	for i := range out {
		out[i] = entity.Article{Title: fmt.Sprintf("headline %d", i), URL: fmt.Sprintf("https://news.example/%d", i)}
	}
	return out
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var errBoom = errors.New("boom")
