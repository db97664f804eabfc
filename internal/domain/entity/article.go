// Package entity defines the core domain entities and validation logic for the application.
// It contains the canonical Article record every source is normalized into, the source
// registry, the digest model and the domain error taxonomy.
package entity

import (
	"fmt"
	"time"
)

// Article represents one news article normalized from any upstream source.
// Title and URL are always non-empty; every other field may be empty.
type Article struct {
	Title string
	URL   string

	// ImageURL is empty when the upstream offers no image.
	ImageURL string

	// PublishedAt is nil when the upstream omits the timestamp or it cannot be parsed.
	PublishedAt *time.Time
	// PublishedRaw keeps the upstream textual timestamp as received.
	PublishedRaw string

	// Body is the extracted full text, "" when extraction failed.
	Body string

	Section string
	Summary *string

	// Heading is the detail-page heading (Daily Star only).
	Heading string
}

// Validate checks the Article invariants.
func (a *Article) Validate() error {
	if a.Title == "" {
		return fmt.Errorf("%w: title", ErrMissingRequiredField)
	}
	if a.URL == "" {
		return fmt.Errorf("%w: url", ErrMissingRequiredField)
	}
	return nil
}

// SummaryText returns the summary or "" when absent.
func (a *Article) SummaryText() string {
	if a.Summary == nil {
		return ""
	}
	return *a.Summary
}

// PublishedISO renders PublishedAt as RFC 3339, or nil when unknown.
func (a *Article) PublishedISO() *string {
	if a.PublishedAt == nil {
		return nil
	}
	s := a.PublishedAt.UTC().Format(time.RFC3339)
	return &s
}
