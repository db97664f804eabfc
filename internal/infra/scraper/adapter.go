// Package scraper implements the per-source adapters that list the latest
// articles of each news site. Adapters speak the upstream's own protocol
// (JSON API, HTML listing, HTML embedded in JSON, RSS/Atom) and converge on
// entity.Article through the normalize package.
package scraper

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"hynews/internal/domain/entity"
	"hynews/internal/infra/fetcher"
	"hynews/internal/usecase/normalize"
)

// Adapter lists the latest articles of one source, newest first.
type Adapter interface {
	Source() entity.SourceDescriptor
	FetchLatest(ctx context.Context, limit int) ([]entity.Article, error)
}

// PageFetcher reads article detail pages. *fetcher.Extractor implements it.
type PageFetcher interface {
	ExtractBody(ctx context.Context, url string, spec fetcher.BodySpec) (string, error)
	ExtractDetail(ctx context.Context, url string, spec fetcher.DetailSpec) (fetcher.Detail, error)
}

// Options holds the collaborators and limits shared by all adapters.
type Options struct {
	// Client performs listing requests. Default: a client without overall timeout;
	// each request is bounded by Timeout.
	Client *http.Client

	// Pages fetches article detail pages. Default: an extractor with
	// fetcher.DefaultConfig
	Pages PageFetcher

	// Timeout bounds each listing request. Default: 10s
	Timeout time.Duration

	// Parallelism bounds concurrent detail fetches per listing. Default: 8
	Parallelism int

	// RequestsPerSecond paces all requests one adapter sends upstream. Default: 5
	RequestsPerSecond float64

	// MaxBodySize caps listing responses. Default: 5MB
	MaxBodySize int64

	// UserAgent is sent with listing requests.
	UserAgent string

	// IttefaqImageDimensions is the CDN size segment for Ittefaq images.
	// Default: 1100x618x1
	IttefaqImageDimensions string

	Normalizer *normalize.Normalizer
	Logger     *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Client == nil {
		o.Client = &http.Client{}
	}
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	if o.Parallelism < 1 {
		o.Parallelism = 8
	}
	if o.RequestsPerSecond <= 0 {
		o.RequestsPerSecond = 5
	}
	if o.MaxBodySize <= 0 {
		o.MaxBodySize = 5 * 1024 * 1024
	}
	if o.UserAgent == "" {
		o.UserAgent = fetcher.DefaultUserAgent
	}
	if o.IttefaqImageDimensions == "" {
		o.IttefaqImageDimensions = "1100x618x1"
	}
	if o.Pages == nil {
		o.Pages = fetcher.NewExtractor(fetcher.DefaultConfig())
	}
	if o.Normalizer == nil {
		o.Normalizer = normalize.New()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
