package source

import (
	"time"

	"hynews/internal/domain/entity"
)

// DTO describes a registered source.
type DTO struct {
	ID           string `json:"id"`
	DisplayName  string `json:"display_name"`
	Strategy     string `json:"strategy"`
	ListingShape string `json:"listing_shape"`
	LatestPath   string `json:"latest_path"`
	AliasPath    string `json:"alias_path,omitempty"`
	SummaryPath  string `json:"summary_path"`
}

func toDTO(d entity.SourceDescriptor) DTO {
	out := DTO{
		ID:           string(d.ID),
		DisplayName:  d.DisplayName,
		Strategy:     string(d.Strategy),
		ListingShape: string(d.ListingShape),
		LatestPath:   "/sources/" + string(d.ID) + "/latest",
		SummaryPath:  "/summary/" + string(d.ID),
	}
	if d.PathAlias != "" {
		out.AliasPath = "/" + d.PathAlias + "/latest"
	}
	return out
}

// ArticleDTO is the canonical article shape shared by every source.
type ArticleDTO struct {
	Title        string  `json:"title"`
	URL          string  `json:"url"`
	ImageURL     string  `json:"image_url"`
	PublishedAt  *string `json:"published_at"`
	PublishedRaw string  `json:"published_raw"`
	Section      string  `json:"section"`
	Summary      *string `json:"summary"`
	Heading      string  `json:"heading,omitempty"`
	Body         string  `json:"news_body_text_full"`
}

func toArticleDTO(a entity.Article) ArticleDTO {
	return ArticleDTO{
		Title:        a.Title,
		URL:          a.URL,
		ImageURL:     a.ImageURL,
		PublishedAt:  a.PublishedISO(),
		PublishedRaw: a.PublishedRaw,
		Section:      a.Section,
		Summary:      a.Summary,
		Heading:      a.Heading,
		Body:         a.Body,
	}
}

// Envelope wraps a listing as {status, count, limit, articles}.
type Envelope struct {
	Status   string `json:"status"`
	Count    int    `json:"count"`
	Limit    int    `json:"limit"`
	Articles any    `json:"articles"`
}

// DailyStarDTO keeps the Daily Star field names clients already consume.
type DailyStarDTO struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Heading     string  `json:"heading"`
	DateTime    string  `json:"date_time"`
	PublishedAt *string `json:"published_at"`
	Image       string  `json:"image"`
	Body        string  `json:"news_body_text_full"`
}

// ProthomAloDTO keeps the Prothom Alo field names. Summary is null when the
// upstream has none.
type ProthomAloDTO struct {
	NewsHeader  string  `json:"news_header"`
	ImageURL    string  `json:"image_url"`
	PublishTime string  `json:"publish_time"`
	Section     string  `json:"section"`
	Summary     *string `json:"summary"`
	ArticleURL  string  `json:"article_url"`
	Body        string  `json:"news_body_text_full"`
}

// IttefaqDTO keeps the Ittefaq field names.
type IttefaqDTO struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Image    string `json:"image"`
	Summary  string `json:"summary"`
	Category string `json:"category"`
	Time     string `json:"time"`
	Body     string `json:"news_body_text_full"`
}

// publishedText prefers the upstream's own timestamp text and falls back to
// the parsed time.
func publishedText(a entity.Article) string {
	if a.PublishedRaw != "" {
		return a.PublishedRaw
	}
	if a.PublishedAt != nil {
		return a.PublishedAt.UTC().Format(time.RFC3339)
	}
	return ""
}

// render shapes a listing the way the source's alias route has always
// returned it. Sources without a legacy format use the canonical DTO in the
// descriptor's listing shape.
func render(d entity.SourceDescriptor, limit int, articles []entity.Article) any {
	var items any
	switch d.ID {
	case entity.SourceDailyStar:
		out := make([]DailyStarDTO, 0, len(articles))
		for _, a := range articles {
			out = append(out, DailyStarDTO{
				Title:       a.Title,
				URL:         a.URL,
				Heading:     a.Heading,
				DateTime:    publishedText(a),
				PublishedAt: a.PublishedISO(),
				Image:       a.ImageURL,
				Body:        a.Body,
			})
		}
		items = out
	case entity.SourceProthomAlo:
		out := make([]ProthomAloDTO, 0, len(articles))
		for _, a := range articles {
			out = append(out, ProthomAloDTO{
				NewsHeader:  a.Title,
				ImageURL:    a.ImageURL,
				PublishTime: publishedText(a),
				Section:     a.Section,
				Summary:     a.Summary,
				ArticleURL:  a.URL,
				Body:        a.Body,
			})
		}
		items = out
	case entity.SourceIttefaq:
		out := make([]IttefaqDTO, 0, len(articles))
		for _, a := range articles {
			out = append(out, IttefaqDTO{
				Title:    a.Title,
				Link:     a.URL,
				Image:    a.ImageURL,
				Summary:  a.SummaryText(),
				Category: a.Section,
				Time:     publishedText(a),
				Body:     a.Body,
			})
		}
		items = out
	default:
		items = canonical(articles)
	}

	if d.ListingShape == entity.ShapeEnvelope {
		return Envelope{Status: "success", Count: len(articles), Limit: limit, Articles: items}
	}
	return items
}

func canonical(articles []entity.Article) []ArticleDTO {
	out := make([]ArticleDTO, 0, len(articles))
	for _, a := range articles {
		out = append(out, toArticleDTO(a))
	}
	return out
}
