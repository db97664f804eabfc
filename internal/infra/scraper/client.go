package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"hynews/internal/domain/entity"
	"hynews/internal/resilience/circuitbreaker"
	"hynews/internal/resilience/retry"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// upstream performs listing requests for one adapter. Requests are paced by
// the adapter's limiter and guarded by its circuit breaker. Every failure
// wraps entity.ErrUpstreamUnavailable.
type upstream struct {
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	limiter *rate.Limiter
	opts    Options
}

func newUpstream(source entity.SourceID, opts Options) *upstream {
	return &upstream{
		client:  opts.Client,
		breaker: circuitbreaker.New(circuitbreaker.SourceAdapterConfig(string(source))),
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Parallelism),
		opts:    opts,
	}
}

// wait blocks until the limiter admits one more upstream request.
func (u *upstream) wait(ctx context.Context) error {
	if err := u.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %w", entity.ErrUpstreamUnavailable, err)
	}
	return nil
}

func (u *upstream) get(ctx context.Context, rawURL, accept string) ([]byte, error) {
	if err := u.wait(ctx); err != nil {
		return nil, err
	}

	result, err := u.breaker.Execute(func() (interface{}, error) {
		return u.doGet(ctx, rawURL, accept)
	})
	if err != nil {
		if circuitbreaker.IsRejection(err) {
			slog.WarnContext(ctx, "source circuit breaker open, request rejected",
				slog.String("circuit", u.breaker.Name()),
				slog.String("url", rawURL))
		}
		return nil, fmt.Errorf("%w: GET %s: %w", entity.ErrUpstreamUnavailable, rawURL, err)
	}
	return result.([]byte), nil
}

func (u *upstream) doGet(ctx context.Context, rawURL, accept string) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, u.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", u.opts.UserAgent)
	req.Header.Set("Accept", accept)

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, retry.NewHTTPError(resp)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, u.opts.MaxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// getDocument fetches and parses an HTML listing page.
func (u *upstream) getDocument(ctx context.Context, rawURL string) (*goquery.Document, error) {
	body, err := u.get(ctx, rawURL, "text/html,application/xhtml+xml")
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: parse HTML: %v", entity.ErrParse, err)
	}
	if parsed, perr := url.Parse(rawURL); perr == nil {
		doc.Url = parsed
	}
	return doc, nil
}

// getJSONObject fetches a JSON object and returns its top-level members.
// Bodies that are not a JSON object are an upstream format error.
func (u *upstream) getJSONObject(ctx context.Context, rawURL string) (map[string]json.RawMessage, error) {
	body, err := u.get(ctx, rawURL, "application/json")
	if err != nil {
		return nil, err
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", entity.ErrUpstreamFormat, rawURL, err)
	}
	if obj == nil {
		return nil, fmt.Errorf("%w: %s returned null", entity.ErrUpstreamFormat, rawURL)
	}
	return obj, nil
}
