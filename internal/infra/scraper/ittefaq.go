package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"hynews/internal/domain/entity"
	"hynews/internal/infra/fetcher"
	"hynews/internal/usecase/normalize"

	"github.com/PuerkitoBio/goquery"
)

const ittefaqImageCDN = "https://cdn.ittefaqbd.com/contents/cache/images"

// ittefaqWidget is the listing widget that renders the latest-news column.
const ittefaqWidget = "476"

var ittefaqBody = fetcher.BodySpec{Container: ".jw_article_body", Paragraphs: "p"}

// IttefaqAdapter reads the theme engine's ajax endpoint, which returns the
// latest-news widget as an HTML fragment wrapped in JSON.
type IttefaqAdapter struct {
	base
}

func NewIttefaqAdapter(desc entity.SourceDescriptor, opts Options) *IttefaqAdapter {
	return &IttefaqAdapter{base: newBase(desc, opts)}
}

func (a *IttefaqAdapter) FetchLatest(ctx context.Context, limit int) ([]entity.Article, error) {
	limit = entity.ClampLimit(limit)

	listURL, err := a.listingURL(limit)
	if err != nil {
		return nil, err
	}

	obj, err := a.http.getJSONObject(ctx, listURL)
	if err != nil {
		return nil, err
	}

	rawHTML, ok := obj["html"]
	if !ok {
		return nil, fmt.Errorf("%w: ittefaq response has no html", entity.ErrUpstreamFormat)
	}
	var fragment string
	if err := json.Unmarshal(rawHTML, &fragment); err != nil {
		return nil, fmt.Errorf("%w: ittefaq html is not a string: %v", entity.ErrUpstreamFormat, err)
	}
	if strings.TrimSpace(fragment) == "" {
		return []entity.Article{}, nil
	}

	raws, err := a.parseFragment(fragment)
	if err != nil {
		return nil, err
	}

	articles := a.opts.Normalizer.NormalizeBatch(ctx, raws, a.desc.ID, limit)
	a.enrichAll(ctx, articles, a.detail)
	return articles, nil
}

func (a *IttefaqAdapter) listingURL(limit int) (string, error) {
	u, err := url.Parse(a.desc.Endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: invalid endpoint %q: %v", entity.ErrUpstreamUnavailable, a.desc.Endpoint, err)
	}
	q := u.Query()
	q.Set("widget", ittefaqWidget)
	q.Set("start", "0")
	q.Set("count", strconv.Itoa(limit))
	q.Set("page_id", "0")
	q.Set("subpage_id", "0")
	q.Set("author", "0")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (a *IttefaqAdapter) detail(ctx context.Context, article *entity.Article) (normalize.RawRecord, error) {
	body, err := a.opts.Pages.ExtractBody(ctx, article.URL, ittefaqBody)
	if err != nil {
		return nil, err
	}
	return normalize.RawRecord{"news_body_text_full": body}, nil
}

func (a *IttefaqAdapter) parseFragment(fragment string) ([]normalize.RawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("%w: ittefaq html: %v", entity.ErrParse, err)
	}
	items := doc.Find("div.each")
	if items.Length() == 0 {
		return nil, fmt.Errorf("%w: ittefaq html has no div.each items", entity.ErrParse)
	}
	base, _ := url.Parse(a.desc.Endpoint)

	raws := make([]normalize.RawRecord, 0, items.Length())
	items.Each(func(_ int, s *goquery.Selection) {
		link := s.Find("h2.title > a").First()
		raw := normalize.RawRecord{
			"title":    strings.TrimSpace(link.Text()),
			"link":     ittefaqLink(base, strings.TrimSpace(link.AttrOr("href", ""))),
			"summary":  strings.TrimSpace(s.Find("div.summery").First().Text()),
			"category": strings.TrimSpace(s.Find("a.category").First().Text()),
			"image":    a.imageURL(s),
		}
		if t := s.Find("span.time").First(); t.Length() > 0 {
			published := strings.TrimSpace(t.AttrOr("data-published", ""))
			if published == "" {
				published = strings.TrimSpace(t.Text())
			}
			raw["time"] = published
		}
		raws = append(raws, raw)
	})
	return raws, nil
}

// imageURL builds the CDN URL from the JSON carried in span[data-ari].
func (a *IttefaqAdapter) imageURL(s *goquery.Selection) string {
	data := s.Find("span[data-ari]").First().AttrOr("data-ari", "")
	if data == "" {
		return ""
	}
	var ari struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal([]byte(data), &ari); err != nil {
		return ""
	}
	path := strings.TrimLeft(ari.Path, "/")
	if path == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/uploads/%s", ittefaqImageCDN, a.opts.IttefaqImageDimensions, path)
}

func ittefaqLink(base *url.URL, href string) string {
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	case base != nil:
		ref, err := url.Parse(href)
		if err != nil {
			return href
		}
		return base.ResolveReference(ref).String()
	default:
		return href
	}
}
