package summarizer

import (
	"fmt"
	"sync"
	"time"

	"hynews/internal/domain/entity"
	"hynews/internal/resilience/retry"
)

type fakeRecorder struct {
	mu        sync.Mutex
	results   []string
	durations int
	items     []int
}

func (f *fakeRecorder) RecordDuration(string, time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.durations++
}

func (f *fakeRecorder) RecordResult(_, result string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, result)
}

func (f *fakeRecorder) RecordItems(_ string, count int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, count)
}

func fastRetry() retry.Config {
	return retry.Config{
		MaxAttempts:  2,
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Millisecond,
		Multiplier:   1,
	}
}

func sampleArticles(n int) []entity.Article {
	out := make([]entity.Article, n)
	for i := range out {
		summary := fmt.Sprintf("Summary %d", i+1)
		out[i] = entity.Article{
			Title:   fmt.Sprintf("Headline %d", i+1),
			URL:     fmt.Sprintf("https://example.com/news/%d", i+1),
			Body:    fmt.Sprintf("Body text of article %d.", i+1),
			Summary: &summary,
		}
	}
	return out
}

const validReply = `{
  "story_of_day": {"title": "Budget passed", "summary": "Parliament passed the budget."},
  "categories": [
    {"category": "Politics", "items": ["Budget passed", "Opposition walked out"]},
    {"category": "Sports", "items": ["Tigers win series"]}
  ]
}`
