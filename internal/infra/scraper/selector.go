package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hynews/internal/domain/entity"
	"hynews/internal/infra/fetcher"
	"hynews/internal/usecase/normalize"

	"github.com/PuerkitoBio/goquery"
)

// SelectorAdapter scrapes an HTML listing with the CSS selectors of a
// configured source. Records use canonical field names.
type SelectorAdapter struct {
	base
	config entity.ScraperConfig
}

func NewSelectorAdapter(desc entity.SourceDescriptor, opts Options) (*SelectorAdapter, error) {
	if desc.ScraperConfig == nil {
		return nil, fmt.Errorf("%w: source %s has no scraper config", entity.ErrInvalidParameter, desc.ID)
	}
	return &SelectorAdapter{base: newBase(desc, opts), config: *desc.ScraperConfig}, nil
}

func (s *SelectorAdapter) FetchLatest(ctx context.Context, limit int) ([]entity.Article, error) {
	limit = entity.ClampLimit(limit)

	doc, err := s.http.getDocument(ctx, s.desc.Endpoint)
	if err != nil {
		return nil, err
	}

	items := doc.Find(s.config.ItemSelector)
	if items.Length() == 0 {
		return nil, fmt.Errorf("%w: no items found with selector %q", entity.ErrParse, s.config.ItemSelector)
	}

	raws := s.extractItems(ctx, items)
	articles := s.opts.Normalizer.NormalizeBatch(ctx, raws, s.desc.ID, limit)
	s.enrichAll(ctx, articles, s.detail)
	return articles, nil
}

// extractItems reads one raw record per item element.
func (s *SelectorAdapter) extractItems(ctx context.Context, items *goquery.Selection) []normalize.RawRecord {
	cfg := s.config
	raws := make([]normalize.RawRecord, 0, items.Length())

	items.Each(func(i int, itemEl *goquery.Selection) {
		raw := normalize.RawRecord{
			normalize.FieldTitle: strings.TrimSpace(itemEl.Find(cfg.TitleSelector).First().Text()),
		}

		urlSel := itemEl.Find(cfg.URLSelector).First()
		if cfg.URLSelector == "" {
			urlSel = itemEl.Find("a[href]").First()
		}
		if href, ok := urlSel.Attr("href"); ok {
			raw[normalize.FieldURL] = makeAbsoluteURL(strings.TrimSpace(href), s.urlPrefix())
		}

		if cfg.DateSelector != "" {
			dateStr := strings.TrimSpace(itemEl.Find(cfg.DateSelector).First().Text())
			raw[normalize.FieldPublished] = formatDate(ctx, dateStr, cfg.DateFormat)
		}
		if cfg.SummarySelector != "" {
			raw[normalize.FieldSummary] = strings.TrimSpace(itemEl.Find(cfg.SummarySelector).First().Text())
		}
		if cfg.SectionSelector != "" {
			raw[normalize.FieldSection] = strings.TrimSpace(itemEl.Find(cfg.SectionSelector).First().Text())
		}
		if cfg.ImageSelector != "" {
			img := itemEl.Find(cfg.ImageSelector).First()
			src := img.AttrOr("src", img.AttrOr("data-src", ""))
			if src = strings.TrimSpace(src); src != "" {
				raw[normalize.FieldImageURL] = makeAbsoluteURL(src, s.urlPrefix())
			}
		}

		raws = append(raws, raw)
	})

	return raws
}

func (s *SelectorAdapter) detail(ctx context.Context, a *entity.Article) (normalize.RawRecord, error) {
	spec := fetcher.BodySpec{Container: s.config.BodySelector, Strip: s.config.Strip}
	body, err := s.opts.Pages.ExtractBody(ctx, a.URL, spec)
	if err != nil {
		return nil, err
	}
	return normalize.RawRecord{normalize.FieldBody: body}, nil
}

// urlPrefix defaults to the scheme and host of the listing endpoint.
func (s *SelectorAdapter) urlPrefix() string {
	if s.config.URLPrefix != "" {
		return s.config.URLPrefix
	}
	if i := strings.Index(s.desc.Endpoint, "://"); i >= 0 {
		rest := s.desc.Endpoint[i+3:]
		if j := strings.Index(rest, "/"); j >= 0 {
			return s.desc.Endpoint[:i+3+j]
		}
	}
	return s.desc.Endpoint
}

// formatDate applies a configured layout and renders the result as RFC 3339.
// Without a layout, or when the layout does not match, the text is passed on
// for the normalizer to parse.
func formatDate(ctx context.Context, dateStr, layout string) string {
	if dateStr == "" || layout == "" {
		return dateStr
	}
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		slog.DebugContext(ctx, "date does not match configured layout",
			slog.String("date_str", dateStr),
			slog.String("format", layout))
		return dateStr
	}
	return t.Format(time.RFC3339)
}

// makeAbsoluteURL converts a relative URL to absolute using the given prefix.
func makeAbsoluteURL(urlStr string, prefix string) string {
	if strings.HasPrefix(urlStr, "http://") || strings.HasPrefix(urlStr, "https://") {
		return urlStr
	}
	if strings.HasPrefix(urlStr, "//") {
		return "https:" + urlStr
	}
	if prefix == "" || urlStr == "" {
		return urlStr
	}

	prefix = strings.TrimRight(prefix, "/")
	urlStr = strings.TrimLeft(urlStr, "/")

	return prefix + "/" + urlStr
}
