package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"hynews/internal/domain/entity"
	"hynews/internal/infra/fetcher"
	"hynews/internal/observability/metrics"
	"hynews/internal/usecase/normalize"
)

const prothomAloImageBase = "https://images.assettype.com/"

var prothomAloBody = fetcher.BodySpec{Container: "#container", Paragraphs: "p"}

// ProthomAloAdapter reads the public collections API of Prothom Alo and
// extracts bodies from the article pages.
type ProthomAloAdapter struct {
	base
}

func NewProthomAloAdapter(desc entity.SourceDescriptor, opts Options) *ProthomAloAdapter {
	return &ProthomAloAdapter{base: newBase(desc, opts)}
}

type prothomAloItem struct {
	Story *prothomAloStory `json:"story"`
}

type prothomAloStory struct {
	Headline    string   `json:"headline"`
	HeroImage   string   `json:"hero-image-s3-key"`
	PublishedAt *float64 `json:"published-at"`
	Sections    []struct {
		Name string `json:"name"`
	} `json:"sections"`
	Summary *string `json:"summary"`
	URL     string  `json:"url"`
}

func (a *ProthomAloAdapter) FetchLatest(ctx context.Context, limit int) ([]entity.Article, error) {
	limit = entity.ClampLimit(limit)

	listURL, err := a.listingURL(limit)
	if err != nil {
		return nil, err
	}

	obj, err := a.http.getJSONObject(ctx, listURL)
	if err != nil {
		return nil, err
	}

	raws, err := a.parseProthomAloItems(ctx, obj)
	if err != nil {
		return nil, err
	}

	articles := a.opts.Normalizer.NormalizeBatch(ctx, raws, a.desc.ID, limit)
	a.enrichAll(ctx, articles, a.detail)
	return articles, nil
}

func (a *ProthomAloAdapter) listingURL(limit int) (string, error) {
	u, err := url.Parse(a.desc.Endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: invalid endpoint %q: %v", entity.ErrUpstreamUnavailable, a.desc.Endpoint, err)
	}
	q := u.Query()
	q.Set("item-type", "story")
	q.Set("offset", "0")
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (a *ProthomAloAdapter) detail(ctx context.Context, article *entity.Article) (normalize.RawRecord, error) {
	body, err := a.opts.Pages.ExtractBody(ctx, article.URL, prothomAloBody)
	if err != nil {
		return nil, err
	}
	return normalize.RawRecord{"news_body_text_full": body}, nil
}

// parseProthomAloItems maps the items array onto raw records. Items without a
// story object are skipped; items that fail to decode are logged, counted as
// dropped and skipped.
func (a *ProthomAloAdapter) parseProthomAloItems(ctx context.Context, obj map[string]json.RawMessage) ([]normalize.RawRecord, error) {
	rawItems, ok := obj["items"]
	if !ok {
		return nil, fmt.Errorf("%w: prothom alo response has no items", entity.ErrUpstreamFormat)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(rawItems, &items); err != nil {
		return nil, fmt.Errorf("%w: prothom alo items: %v", entity.ErrUpstreamFormat, err)
	}

	raws := make([]normalize.RawRecord, 0, len(items))
	for i, rawItem := range items {
		var item prothomAloItem
		if err := json.Unmarshal(rawItem, &item); err != nil {
			a.opts.Logger.WarnContext(ctx, "dropping record",
				slog.String("source", string(a.desc.ID)),
				slog.Int("index", i),
				slog.String("reason", "malformed_item"),
				slog.Any("error", err))
			metrics.RecordRecordDropped(string(a.desc.ID), "malformed_item")
			continue
		}
		if raw := prothomAloRecord(item.Story); raw != nil {
			raws = append(raws, raw)
		}
	}
	return raws, nil
}

func prothomAloRecord(s *prothomAloStory) normalize.RawRecord {
	if s == nil {
		return nil
	}
	raw := normalize.RawRecord{
		"news_header": s.Headline,
		"article_url": s.URL,
		"section":     "General",
	}
	if s.HeroImage != "" {
		raw["image_url"] = prothomAloImageBase + s.HeroImage
	}
	if s.PublishedAt != nil {
		raw["publish_time"] = time.UnixMilli(int64(*s.PublishedAt)).UTC().Format(time.RFC3339Nano)
	}
	if len(s.Sections) > 0 && s.Sections[0].Name != "" {
		raw["section"] = s.Sections[0].Name
	}
	if s.Summary != nil {
		raw["summary"] = *s.Summary
	}
	return raw
}
