package fetcher

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hynews/internal/domain/entity"
	"hynews/internal/observability/metrics"
	"hynews/internal/resilience/circuitbreaker"
	"hynews/internal/resilience/retry"

	"github.com/PuerkitoBio/goquery"
)

// defaultStrip lists boilerplate removed from every content container.
var defaultStrip = []string{
	"script", "style", "noscript", "iframe", "aside", "figure", "figcaption",
	".ad", ".ads", ".advertisement", "[class*='ad-container']",
	".related", ".related-news", ".related-post", ".social-share", ".share",
}

// BodySpec tells the extractor where a source keeps its article text.
type BodySpec struct {
	// Container selects the content root. Empty switches to Readability.
	Container string
	// Paragraphs selects text blocks inside Container. Default "p".
	Paragraphs string
	// Strip lists extra selectors removed before reading paragraphs.
	Strip []string
}

// DetailSpec adds the fields some sources read from the same detail page.
type DetailSpec struct {
	Body    BodySpec
	Heading string
	Date    string
	// Image picks an image URL out of the page. Optional.
	Image func(doc *goquery.Document) string
}

// Detail is what ExtractDetail reads from one article page.
type Detail struct {
	Heading  string
	DateText string
	ImageURL string
	Body     string
}

// Page is a fetched document and the URL it was finally served from.
type Page struct {
	Body []byte
	URL  *url.URL
}

// Extractor fetches article detail pages and extracts their full text.
//
// Features:
//   - SSRF prevention via URL validation, including redirect targets
//   - Circuit breaker shared by all detail fetches
//   - Size limiting and per-request timeout
//
// Thread safety: Extractor is safe for concurrent use.
type Extractor struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	config         ContentFetchConfig
}

// NewExtractor creates an Extractor with the given configuration.
func NewExtractor(config ContentFetchConfig) *Extractor {
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}

	e := &Extractor{
		circuitBreaker: circuitbreaker.New(circuitbreaker.ContentFetchConfig()),
		config:         config,
	}

	e.client = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= e.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			if err := validateURL(req.URL.String(), e.config.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}

	return e
}

// Parallelism returns how many detail pages a caller may fetch at once.
func (e *Extractor) Parallelism() int {
	if e.config.Parallelism < 1 {
		return 1
	}
	return e.config.Parallelism
}

// Fetch downloads a page. Every failure wraps entity.ErrUpstreamUnavailable.
func (e *Extractor) Fetch(ctx context.Context, urlStr string) (*Page, error) {
	if err := validateURL(urlStr, e.config.DenyPrivateIPs); err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrUpstreamUnavailable, err)
	}

	result, err := e.circuitBreaker.Execute(func() (interface{}, error) {
		return e.doFetch(ctx, urlStr)
	})
	if err != nil {
		if circuitbreaker.IsRejection(err) {
			slog.WarnContext(ctx, "content fetch circuit breaker open, request rejected",
				slog.String("url", urlStr),
				slog.String("state", e.circuitBreaker.State().String()))
		}
		return nil, fmt.Errorf("%w: fetch %s: %w", entity.ErrUpstreamUnavailable, urlStr, err)
	}

	return result.(*Page), nil
}

func (e *Extractor) doFetch(ctx context.Context, urlStr string) (*Page, error) {
	reqCtx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", e.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := e.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w: request exceeded %v", ErrTimeout, e.config.Timeout)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Err != nil {
			return nil, urlErr.Err
		}
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, retry.NewHTTPError(resp)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.config.MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > e.config.MaxBodySize {
		return nil, fmt.Errorf("%w: response exceeds limit %d bytes", ErrBodyTooLarge, e.config.MaxBodySize)
	}

	final := req.URL
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL
	}
	return &Page{Body: body, URL: final}, nil
}

// FetchDocument downloads and parses a page.
func (e *Extractor) FetchDocument(ctx context.Context, urlStr string) (*goquery.Document, error) {
	page, err := e.Fetch(ctx, urlStr)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, fmt.Errorf("%w: parse HTML: %v", entity.ErrParse, err)
	}
	doc.Url = page.URL
	return doc, nil
}

// ExtractBody returns the article text at urlStr. A page without the
// configured container, or without a readable article when no container is
// configured, yields "" and no error. Errors are reserved for fetch failures.
func (e *Extractor) ExtractBody(ctx context.Context, urlStr string, spec BodySpec) (string, error) {
	start := time.Now()

	body, err := e.extractBody(ctx, urlStr, spec)
	if err != nil {
		metrics.RecordContentFetchFailed(time.Since(start))
		return "", err
	}

	metrics.RecordContentFetchSuccess(time.Since(start), len(body))
	return body, nil
}

func (e *Extractor) extractBody(ctx context.Context, urlStr string, spec BodySpec) (string, error) {
	if spec.Container == "" {
		page, err := e.Fetch(ctx, urlStr)
		if err != nil {
			return "", err
		}
		// A fetched page Readability cannot read has no body.
		body, err := readabilityText(page)
		if errors.Is(err, ErrReadabilityFailed) {
			return "", nil
		}
		return body, err
	}

	doc, err := e.FetchDocument(ctx, urlStr)
	if err != nil {
		return "", err
	}
	return BodyFromDocument(doc, spec), nil
}

// ExtractDetail reads heading, date text, image and body from one page.
func (e *Extractor) ExtractDetail(ctx context.Context, urlStr string, spec DetailSpec) (Detail, error) {
	start := time.Now()

	doc, err := e.FetchDocument(ctx, urlStr)
	if err != nil {
		metrics.RecordContentFetchFailed(time.Since(start))
		return Detail{}, err
	}

	d := Detail{}
	if spec.Heading != "" {
		d.Heading = strings.TrimSpace(doc.Find(spec.Heading).First().Text())
	}
	if spec.Date != "" {
		d.DateText = strings.TrimSpace(doc.Find(spec.Date).First().Text())
	}
	if spec.Image != nil {
		d.ImageURL = spec.Image(doc)
	}
	if spec.Body.Container != "" {
		d.Body = BodyFromDocument(doc, spec.Body)
	} else {
		if html, err := doc.Html(); err == nil {
			d.Body, _ = readabilityText(&Page{Body: []byte(html), URL: doc.Url})
		}
	}

	metrics.RecordContentFetchSuccess(time.Since(start), len(d.Body))
	return d, nil
}

// BodyFromDocument concatenates the non-empty paragraph texts inside the
// spec's container, in document order, separated by a blank line. Boilerplate
// is removed first. The document itself is not modified.
func BodyFromDocument(doc *goquery.Document, spec BodySpec) string {
	if spec.Container == "" {
		return ""
	}
	containers := doc.Find(spec.Container)
	if containers.Length() == 0 {
		return ""
	}

	// Nested matches would repeat paragraphs; keep the outermost only.
	outer := containers.FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.ParentsFiltered(spec.Container).Length() == 0
	})

	paragraphs := spec.Paragraphs
	if paragraphs == "" {
		paragraphs = "p"
	}
	strip := strings.Join(append(append([]string{}, defaultStrip...), spec.Strip...), ", ")

	var parts []string
	outer.Each(func(_ int, c *goquery.Selection) {
		clone := c.Clone()
		clone.Find(strip).Remove()
		clone.Find(paragraphs).Each(func(_ int, p *goquery.Selection) {
			if text := strings.TrimSpace(p.Text()); text != "" {
				parts = append(parts, text)
			}
		})
	})

	return strings.Join(parts, "\n\n")
}
