package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"hynews/internal/domain/entity"
	"hynews/internal/infra/fetcher"
	"hynews/internal/usecase/normalize"

	"github.com/PuerkitoBio/goquery"
)

var dailyStarDetail = fetcher.DetailSpec{
	Body:    fetcher.BodySpec{Container: ".clearfix", Paragraphs: "p"},
	Heading: ".article-title",
	Date:    ".color-iron",
	Image:   ExtractDailyStarImage,
}

// DailyStarAdapter scrapes the "today's news" listing of The Daily Star and
// reads heading, date, image and body from each article page.
type DailyStarAdapter struct {
	base
}

func NewDailyStarAdapter(desc entity.SourceDescriptor, opts Options) *DailyStarAdapter {
	return &DailyStarAdapter{base: newBase(desc, opts)}
}

func (a *DailyStarAdapter) FetchLatest(ctx context.Context, limit int) ([]entity.Article, error) {
	limit = entity.ClampLimit(limit)

	doc, err := a.http.getDocument(ctx, a.desc.Endpoint)
	if err != nil {
		return nil, err
	}

	raws, err := parseDailyStarListing(doc, a.desc.Endpoint)
	if err != nil {
		return nil, err
	}

	articles := a.opts.Normalizer.NormalizeBatch(ctx, raws, a.desc.ID, limit)
	a.enrichAll(ctx, articles, a.detail)
	return articles, nil
}

func (a *DailyStarAdapter) detail(ctx context.Context, article *entity.Article) (normalize.RawRecord, error) {
	d, err := a.opts.Pages.ExtractDetail(ctx, article.URL, dailyStarDetail)
	if err != nil {
		return nil, err
	}
	return normalize.RawRecord{
		"heading":             d.Heading,
		"date_time":           d.DateText,
		"image":               d.ImageURL,
		"news_body_text_full": d.Body,
	}, nil
}

// parseDailyStarListing collects title links in page order. A page without
// any .title element is not the listing page.
func parseDailyStarListing(doc *goquery.Document, endpoint string) ([]normalize.RawRecord, error) {
	if doc.Find(".title").Length() == 0 {
		return nil, fmt.Errorf("%w: daily star listing has no .title elements", entity.ErrParse)
	}

	base, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid endpoint %q: %v", entity.ErrParse, endpoint, err)
	}

	seen := make(map[string]struct{})
	raws := make([]normalize.RawRecord, 0)
	doc.Find(".title a").Each(func(_ int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Text())
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if title == "" || href == "" {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		full := base.ResolveReference(ref).String()
		if _, dup := seen[full]; dup {
			return
		}
		seen[full] = struct{}{}
		raws = append(raws, normalize.RawRecord{"title": title, "url": full})
	})
	return raws, nil
}
