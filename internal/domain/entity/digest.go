package entity

import "time"

// Digest is the categorized daily summary of one source's latest articles.
type Digest struct {
	StoryOfDay StoryOfDay     `json:"story_of_day"`
	Categories []Category     `json:"categories"`
	Metadata   DigestMetadata `json:"metadata"`
}

// StoryOfDay is the single headline story the summarizer picked.
type StoryOfDay struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// Category groups short item summaries under a topic name.
type Category struct {
	Name  string   `json:"category"`
	Items []string `json:"items"`
}

// DigestMetadata records where a digest came from and when it was built.
type DigestMetadata struct {
	Source               string    `json:"source"`
	ArticlesAnalyzed     int       `json:"articles_analyzed"`
	TotalArticlesFetched int       `json:"total_articles_fetched"`
	GeneratedAt          time.Time `json:"generated_at"`
}

// DigestContent is what a summarizer produces, before metadata is attached.
type DigestContent struct {
	StoryOfDay StoryOfDay `json:"story_of_day"`
	Categories []Category `json:"categories"`
}

// DigestCacheEntry is one cached digest for a (source, date) bucket.
type DigestCacheEntry struct {
	Key       string    `json:"key"`
	Digest    Digest    `json:"digest"`
	CreatedAt time.Time `json:"created_at"`
}

// Normalize replaces nil slices so categories and items always render as JSON arrays.
func (d *Digest) Normalize() {
	if d.Categories == nil {
		d.Categories = []Category{}
	}
	for i := range d.Categories {
		if d.Categories[i].Items == nil {
			d.Categories[i].Items = []string{}
		}
	}
}

// NewDigest attaches metadata to summarizer content.
func NewDigest(content DigestContent, meta DigestMetadata) *Digest {
	d := &Digest{
		StoryOfDay: content.StoryOfDay,
		Categories: content.Categories,
		Metadata:   meta,
	}
	d.Normalize()
	return d
}
