package scraper

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"hynews/internal/domain/entity"
	"hynews/internal/infra/fetcher"
	"hynews/internal/usecase/normalize"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// FeedAdapter lists a configured RSS or Atom feed. Items whose feed carries
// full content skip the detail fetch; the rest are read with Readability.
type FeedAdapter struct {
	base
	parser *gofeed.Parser
}

func NewFeedAdapter(desc entity.SourceDescriptor, opts Options) *FeedAdapter {
	return &FeedAdapter{base: newBase(desc, opts), parser: gofeed.NewParser()}
}

func (f *FeedAdapter) FetchLatest(ctx context.Context, limit int) ([]entity.Article, error) {
	limit = entity.ClampLimit(limit)

	body, err := f.http.get(ctx, f.desc.Endpoint, "application/rss+xml, application/atom+xml, application/xml;q=0.9")
	if err != nil {
		return nil, err
	}

	feed, err := f.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: parse feed %s: %v", entity.ErrUpstreamFormat, f.desc.Endpoint, err)
	}

	raws := make([]normalize.RawRecord, 0, len(feed.Items))
	for _, it := range feed.Items {
		raws = append(raws, feedRecord(it))
	}

	articles := f.opts.Normalizer.NormalizeBatch(ctx, raws, f.desc.ID, limit)
	f.enrichAll(ctx, articles, f.detail)
	return articles, nil
}

func (f *FeedAdapter) detail(ctx context.Context, a *entity.Article) (normalize.RawRecord, error) {
	if a.Body != "" {
		return nil, nil
	}
	body, err := f.opts.Pages.ExtractBody(ctx, a.URL, fetcher.BodySpec{})
	if err != nil {
		return nil, err
	}
	return normalize.RawRecord{normalize.FieldBody: body}, nil
}

func feedRecord(it *gofeed.Item) normalize.RawRecord {
	raw := normalize.RawRecord{
		normalize.FieldTitle:   it.Title,
		normalize.FieldURL:     it.Link,
		normalize.FieldSummary: htmlText(it.Description),
		normalize.FieldBody:    htmlText(it.Content),
	}
	switch {
	case it.PublishedParsed != nil:
		raw[normalize.FieldPublished] = it.PublishedParsed.UTC().Format(time.RFC3339)
	case it.UpdatedParsed != nil:
		raw[normalize.FieldPublished] = it.UpdatedParsed.UTC().Format(time.RFC3339)
	default:
		raw[normalize.FieldPublished] = it.Published
	}
	if it.Image != nil {
		raw[normalize.FieldImageURL] = it.Image.URL
	}
	if len(it.Categories) > 0 {
		raw[normalize.FieldSection] = it.Categories[0]
	}
	return raw
}

// htmlText flattens an HTML fragment to its text.
func htmlText(fragment string) string {
	if !strings.Contains(fragment, "<") {
		return strings.TrimSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
