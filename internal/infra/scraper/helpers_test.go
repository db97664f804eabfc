package scraper_test

import (
	"context"
	"errors"
	"sync"

	"hynews/internal/infra/fetcher"
	"hynews/internal/infra/scraper"
)

// stubPages serves detail pages from memory. URLs listed in fail return an error.
type stubPages struct {
	mu      sync.Mutex
	details map[string]fetcher.Detail
	bodies  map[string]string
	fail    map[string]bool
	calls   []string
	specs   []fetcher.BodySpec
}

func (s *stubPages) record(url string, spec fetcher.BodySpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, url)
	s.specs = append(s.specs, spec)
	if s.fail[url] {
		return errors.New("detail page unavailable")
	}
	return nil
}

func (s *stubPages) ExtractBody(_ context.Context, url string, spec fetcher.BodySpec) (string, error) {
	if err := s.record(url, spec); err != nil {
		return "", err
	}
	return s.bodies[url], nil
}

func (s *stubPages) ExtractDetail(_ context.Context, url string, spec fetcher.DetailSpec) (fetcher.Detail, error) {
	if err := s.record(url, spec.Body); err != nil {
		return fetcher.Detail{}, err
	}
	return s.details[url], nil
}

func (s *stubPages) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func testOptions(pages scraper.PageFetcher) scraper.Options {
	return scraper.Options{
		Pages:             pages,
		Parallelism:       4,
		RequestsPerSecond: 1000,
	}
}
