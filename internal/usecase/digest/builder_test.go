package digest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"hynews/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuilder(lister Lister, s Summarizer, store Store, c *clock) *Builder {
	var cache *Cache
	if store != nil {
		cache = newTestCache(store, time.UTC, c)
	}
	b := NewBuilder(lister, s, cache)
	b.now = c.Now
	return b
}

func TestBuilder_Build_MissThenHit(t *testing.T) {
	c := &clock{now: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)}
	lister := &stubLister{articles: makeArticles(20)}
	summarizer := &stubSummarizer{}
	store := newMapStore()
	b := newTestBuilder(lister, summarizer, store, c)

	first, err := b.Build(context.Background(), entity.SourceDailyStar, false)
	require.NoError(t, err)
	second, err := b.Build(context.Background(), entity.SourceDailyStar, false)
	require.NoError(t, err)

	assert.Equal(t, 1, summarizer.callCount())
	assert.Equal(t, first.StoryOfDay, second.StoryOfDay)
	assert.Equal(t, 1, store.setCount())
	assert.Contains(t, store.data, "digest:daily-star:2024-01-10")
}

func TestBuilder_Build_Metadata(t *testing.T) {
	c := &clock{now: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)}
	lister := &stubLister{articles: makeArticles(20)}
	summarizer := &stubSummarizer{}
	b := newTestBuilder(lister, summarizer, nil, c)

	d, err := b.Build(context.Background(), entity.SourceDailyStar, false)
	require.NoError(t, err)

	assert.Equal(t, int32(FetchLimit), lister.gotLimit)
	assert.Equal(t, int32(SummarizeLimit), summarizer.gotLen)
	assert.Equal(t, entity.DigestMetadata{
		Source:               "The Daily Star",
		ArticlesAnalyzed:     15,
		TotalArticlesFetched: 20,
		GeneratedAt:          c.Now(),
	}, d.Metadata)
}

func TestBuilder_Build_FewerArticlesThanLimit(t *testing.T) {
	c := &clock{now: time.Now()}
	b := newTestBuilder(&stubLister{articles: makeArticles(4)}, &stubSummarizer{}, nil, c)

	d, err := b.Build(context.Background(), entity.SourceIttefaq, false)
	require.NoError(t, err)
	assert.Equal(t, 4, d.Metadata.ArticlesAnalyzed)
	assert.Equal(t, 4, d.Metadata.TotalArticlesFetched)
}

func TestBuilder_Build_BypassAlwaysRegenerates(t *testing.T) {
	c := &clock{now: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)}
	summarizer := &stubSummarizer{}
	store := newMapStore()
	b := newTestBuilder(&stubLister{articles: makeArticles(5)}, summarizer, store, c)

	_, err := b.Build(context.Background(), entity.SourceProthomAlo, false)
	require.NoError(t, err)
	d, err := b.Build(context.Background(), entity.SourceProthomAlo, true)
	require.NoError(t, err)
	assert.Equal(t, "story 2", d.StoryOfDay.Title)

	d, err = b.Build(context.Background(), entity.SourceProthomAlo, true)
	require.NoError(t, err)
	assert.Equal(t, "story 3", d.StoryOfDay.Title)
	assert.Equal(t, 3, summarizer.callCount())

	// The last bypass overwrote the cached entry.
	cached, err := b.Build(context.Background(), entity.SourceProthomAlo, false)
	require.NoError(t, err)
	assert.Equal(t, "story 3", cached.StoryOfDay.Title)
	assert.Equal(t, 3, summarizer.callCount())
}

func TestBuilder_Build_StaleEntryRegenerates(t *testing.T) {
	c := &clock{now: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)}
	summarizer := &stubSummarizer{}
	b := newTestBuilder(&stubLister{articles: makeArticles(5)}, summarizer, newMapStore(), c)

	_, err := b.Build(context.Background(), entity.SourceIttefaq, false)
	require.NoError(t, err)

	c.Advance(24 * time.Hour)
	_, err = b.Build(context.Background(), entity.SourceIttefaq, false)
	require.NoError(t, err)
	assert.Equal(t, 2, summarizer.callCount())
}

func TestBuilder_Build_NoArticles(t *testing.T) {
	c := &clock{now: time.Now()}
	summarizer := &stubSummarizer{}
	store := newMapStore()
	b := newTestBuilder(&stubLister{articles: []entity.Article{}}, summarizer, store, c)

	_, err := b.Build(context.Background(), entity.SourceIttefaq, false)
	assert.ErrorIs(t, err, entity.ErrUpstreamUnavailable)
	assert.ErrorIs(t, err, ErrNoArticles)
	assert.Zero(t, summarizer.callCount())
	assert.Zero(t, store.setCount())
}

func TestBuilder_Build_ListerError(t *testing.T) {
	c := &clock{now: time.Now()}
	listErr := fmt.Errorf("fetch daily-star: %w", entity.ErrParse)
	b := newTestBuilder(&stubLister{err: listErr}, &stubSummarizer{}, newMapStore(), c)

	_, err := b.Build(context.Background(), entity.SourceDailyStar, false)
	assert.ErrorIs(t, err, entity.ErrParse)
}

func TestBuilder_Build_SummarizerFailureIsNotCached(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"unavailable", fmt.Errorf("%w: claude: overloaded", entity.ErrSummarizerUnavailable), entity.ErrUpstreamUnavailable},
		{"malformed", fmt.Errorf("gemini: %w", entity.ErrMalformedDigest), entity.ErrMalformedDigest},
		{"bare timeout", context.DeadlineExceeded, entity.ErrUpstreamUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &clock{now: time.Now()}
			store := newMapStore()
			b := newTestBuilder(&stubLister{articles: makeArticles(3)}, &stubSummarizer{err: tt.err}, store, c)

			_, err := b.Build(context.Background(), entity.SourceDailyStar, false)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, store.setCount())
		})
	}
}

func TestBuilder_Build_SummarizerTimeout(t *testing.T) {
	c := &clock{now: time.Now()}
	store := newMapStore()
	summarizer := &stubSummarizer{block: make(chan struct{})}
	b := newTestBuilder(&stubLister{articles: makeArticles(3)}, summarizer, store, c)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// Bypass runs on the caller's context, so its deadline reaches the summarizer.
	_, err := b.Build(ctx, entity.SourceDailyStar, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrUpstreamUnavailable))
	assert.Zero(t, store.setCount())
}

func TestBuilder_Build_SharedBuildIsBounded(t *testing.T) {
	c := &clock{now: time.Now()}
	store := newMapStore()
	summarizer := &stubSummarizer{block: make(chan struct{})}
	b := newTestBuilder(&stubLister{articles: makeArticles(3)}, summarizer, store, c)
	b.sharedTimeout = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := b.Build(ctx, entity.SourceDailyStar, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrUpstreamUnavailable))
	assert.Zero(t, store.setCount())
}

func TestBuilder_Build_CacheWriteErrorDoesNotFail(t *testing.T) {
	c := &clock{now: time.Now()}
	store := newMapStore()
	store.setErr = errBoom
	b := newTestBuilder(&stubLister{articles: makeArticles(3)}, &stubSummarizer{}, store, c)

	d, err := b.Build(context.Background(), entity.SourceDailyStar, false)
	require.NoError(t, err)
	assert.NotEmpty(t, d.StoryOfDay.Title)
}

func TestBuilder_Build_CacheDisabledAlwaysRegenerates(t *testing.T) {
	c := &clock{now: time.Now()}
	summarizer := &stubSummarizer{}
	b := newTestBuilder(&stubLister{articles: makeArticles(3)}, summarizer, nil, c)

	for i := 0; i < 3; i++ {
		_, err := b.Build(context.Background(), entity.SourceDailyStar, false)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, summarizer.callCount())
}

func TestBuilder_Build_ConcurrentMissesShareOneBuild(t *testing.T) {
	c := &clock{now: time.Now()}
	summarizer := &stubSummarizer{block: make(chan struct{})}
	b := newTestBuilder(&stubLister{articles: makeArticles(3)}, summarizer, newMapStore(), c)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*entity.Digest, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = b.Build(context.Background(), entity.SourceDailyStar, false)
		}(i)
	}

	require.Eventually(t, func() bool { return summarizer.callCount() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(summarizer.block)
	wg.Wait()

	assert.Equal(t, 1, summarizer.callCount())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0].StoryOfDay, results[i].StoryOfDay)
	}
}
