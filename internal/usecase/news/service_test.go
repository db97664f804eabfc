package news_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"hynews/internal/domain/entity"
	"hynews/internal/usecase/news"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*────────────────────  stub adapter  ────────────────────*/

type stubAdapter struct {
	desc     entity.SourceDescriptor
	articles []entity.Article
	err      error
	calls    int32
	gotLimit int
}

func (s *stubAdapter) Source() entity.SourceDescriptor { return s.desc }

func (s *stubAdapter) FetchLatest(_ context.Context, limit int) ([]entity.Article, error) {
	atomic.AddInt32(&s.calls, 1)
	s.gotLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.articles, nil
}

func makeArticles(n int) []entity.Article {
	out := make([]entity.Article, n)
	for i := range out {
		out[i] = entity.Article{Title: fmt.Sprintf("t%d", i), URL: fmt.Sprintf("https://x.example/%d", i)}
	}
	return out
}

func builtinStubs() (*stubAdapter, *stubAdapter, *stubAdapter) {
	b := entity.BuiltinSources()
	return &stubAdapter{desc: b[0], articles: makeArticles(20)},
		&stubAdapter{desc: b[1], articles: makeArticles(3)},
		&stubAdapter{desc: b[2]}
}

/*────────────────────  tests  ────────────────────*/

func TestService_Latest(t *testing.T) {
	ds, pa, it := builtinStubs()
	svc, err := news.NewService(ds, pa, it)
	require.NoError(t, err)

	articles, err := svc.Latest(context.Background(), entity.SourceDailyStar, 5)
	require.NoError(t, err)
	assert.Len(t, articles, 5)
	assert.Equal(t, 5, ds.gotLimit)

	articles, err = svc.Latest(context.Background(), entity.SourceIttefaq, 10)
	require.NoError(t, err)
	assert.NotNil(t, articles)
	assert.Empty(t, articles)
}

func TestService_Latest_InvalidLimitBeforeUpstream(t *testing.T) {
	ds, pa, it := builtinStubs()
	svc, err := news.NewService(ds, pa, it)
	require.NoError(t, err)

	for _, limit := range []int{0, -1, 101, 150} {
		_, err := svc.Latest(context.Background(), entity.SourceDailyStar, limit)
		assert.True(t, errors.Is(err, entity.ErrInvalidParameter), "limit %d: got %v", limit, err)
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&ds.calls))
}

func TestService_Latest_UnknownSource(t *testing.T) {
	ds, pa, it := builtinStubs()
	svc, err := news.NewService(ds, pa, it)
	require.NoError(t, err)

	_, err = svc.Latest(context.Background(), "bbc", 10)
	assert.True(t, errors.Is(err, entity.ErrUnknownSource))
	assert.True(t, errors.Is(err, entity.ErrInvalidParameter))
}

func TestService_Latest_PropagatesAdapterError(t *testing.T) {
	ds, pa, it := builtinStubs()
	pa.err = fmt.Errorf("%w: 503", entity.ErrUpstreamUnavailable)
	svc, err := news.NewService(ds, pa, it)
	require.NoError(t, err)

	_, err = svc.Latest(context.Background(), entity.SourceProthomAlo, 10)
	assert.True(t, errors.Is(err, entity.ErrUpstreamUnavailable))
}

func TestService_Resolve(t *testing.T) {
	ds, pa, it := builtinStubs()
	ext := &stubAdapter{desc: entity.SourceDescriptor{ID: "bss", Strategy: entity.StrategyFeed}}
	svc, err := news.NewService(ds, pa, it, ext)
	require.NoError(t, err)

	tests := map[string]entity.SourceID{
		"daily-star":  entity.SourceDailyStar,
		"dailystar":   entity.SourceDailyStar,
		"Prothom-Alo": entity.SourceProthomAlo,
		"prothomalo":  entity.SourceProthomAlo,
		" ittefaq ":   entity.SourceIttefaq,
		"bss":         "bss",
	}
	for name, want := range tests {
		got, err := svc.Resolve(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err = svc.Resolve("nope")
	assert.True(t, errors.Is(err, entity.ErrUnknownSource))
}

func TestService_Sources_KeepsOrder(t *testing.T) {
	ds, pa, it := builtinStubs()
	svc, err := news.NewService(it, ds, pa)
	require.NoError(t, err)

	var ids []entity.SourceID
	for _, d := range svc.Sources() {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []entity.SourceID{entity.SourceIttefaq, entity.SourceDailyStar, entity.SourceProthomAlo}, ids)

	d, ok := svc.Descriptor(entity.SourceProthomAlo)
	assert.True(t, ok)
	assert.Equal(t, "prothomalo", d.PathAlias)
}

func TestNewService_RejectsDuplicates(t *testing.T) {
	ds, _, _ := builtinStubs()
	_, err := news.NewService(ds, ds)
	assert.Error(t, err)

	a := &stubAdapter{desc: entity.SourceDescriptor{ID: "a", PathAlias: "x"}}
	b := &stubAdapter{desc: entity.SourceDescriptor{ID: "b", PathAlias: "X"}}
	_, err = news.NewService(a, b)
	assert.Error(t, err)
}

func TestErrorType(t *testing.T) {
	assert.Equal(t, "timeout", news.ErrorType(fmt.Errorf("x: %w", context.DeadlineExceeded)))
	assert.Equal(t, "canceled", news.ErrorType(context.Canceled))
	assert.Equal(t, "format", news.ErrorType(entity.ErrUpstreamFormat))
	assert.Equal(t, "parse", news.ErrorType(entity.ErrParse))
	assert.Equal(t, "unavailable", news.ErrorType(entity.ErrUpstreamUnavailable))
	assert.Equal(t, "other", news.ErrorType(errors.New("boom")))
}
