// Package normalize converts source-specific raw records into canonical
// entity.Article values using explicit per-source translation tables.
package normalize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hynews/internal/domain/entity"
	"hynews/internal/observability/metrics"
)

// RawRecord is one upstream item keyed by the upstream's own field names.
type RawRecord map[string]string

// Normalizer applies translation tables. The zero value is not usable; use New.
type Normalizer struct {
	tables map[entity.SourceID]Table
	loc    *time.Location
	logger *slog.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithLocation sets the zone used for timestamps that carry none.
func WithLocation(loc *time.Location) Option {
	return func(n *Normalizer) {
		if loc != nil {
			n.loc = loc
		}
	}
}

// WithLogger sets the logger used for dropped-record warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Normalizer) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// WithTable registers a translation table for a source, replacing any builtin one.
func WithTable(source entity.SourceID, t Table) Option {
	return func(n *Normalizer) {
		n.tables[source] = t
	}
}

// New returns a Normalizer with the builtin tables.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		tables: make(map[entity.SourceID]Table, len(builtinTables)),
		loc:    defaultLocation,
		logger: slog.Default(),
	}
	for id, t := range builtinTables {
		n.tables[id] = t
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

var defaultNormalizer = New()

// Normalize translates raw with the default Normalizer.
func Normalize(raw RawRecord, source entity.SourceID) (entity.Article, error) {
	return defaultNormalizer.Normalize(raw, source)
}

// Enrich overlays detail fields with the default Normalizer.
func Enrich(a *entity.Article, raw RawRecord, source entity.SourceID) {
	defaultNormalizer.Enrich(a, raw, source)
}

// NormalizeBatch translates raws with the default Normalizer.
func NormalizeBatch(ctx context.Context, raws []RawRecord, source entity.SourceID, limit int) []entity.Article {
	return defaultNormalizer.NormalizeBatch(ctx, raws, source, limit)
}

func (n *Normalizer) table(source entity.SourceID) Table {
	if t, ok := n.tables[source]; ok {
		return t
	}
	return IdentityTable
}

// Normalize translates one raw record. It returns ErrMissingRequiredField
// when title or url is empty after trimming.
func (n *Normalizer) Normalize(raw RawRecord, source entity.SourceID) (entity.Article, error) {
	var a entity.Article
	for key, field := range n.table(source) {
		if v, ok := raw[key]; ok {
			n.set(&a, field, strings.TrimSpace(v))
		}
	}

	if err := a.Validate(); err != nil {
		return entity.Article{}, fmt.Errorf("normalize %s record: %w", source, err)
	}
	return a, nil
}

// Enrich overlays the non-empty translated fields of raw onto a. Title and
// URL are fixed at listing time and never replaced. It is used for fields a
// source only reveals on the article detail page.
func (n *Normalizer) Enrich(a *entity.Article, raw RawRecord, source entity.SourceID) {
	for key, field := range n.table(source) {
		if field == FieldTitle || field == FieldURL {
			continue
		}
		v, ok := raw[key]
		if !ok {
			continue
		}
		if v = strings.TrimSpace(v); v != "" {
			n.set(a, field, v)
		}
	}
}

func (n *Normalizer) set(a *entity.Article, field, v string) {
	switch field {
	case FieldTitle:
		a.Title = v
	case FieldURL:
		a.URL = v
	case FieldImageURL:
		a.ImageURL = v
	case FieldPublished:
		a.PublishedRaw = v
		a.PublishedAt = ParsePublished(v, n.loc)
	case FieldBody:
		a.Body = v
	case FieldSection:
		a.Section = v
	case FieldSummary:
		if v == "" {
			a.Summary = nil
		} else {
			a.Summary = &v
		}
	case FieldHeading:
		a.Heading = v
	}
}

// NormalizeBatch translates raws in order, dropping records that fail to
// normalize and records whose URL repeats an earlier one. It stops once limit
// articles exist; limit <= 0 means no limit. Drops are logged and counted, never
// returned as an error.
func (n *Normalizer) NormalizeBatch(ctx context.Context, raws []RawRecord, source entity.SourceID, limit int) []entity.Article {
	capacity := len(raws)
	if limit > 0 && limit < capacity {
		capacity = limit
	}
	out := make([]entity.Article, 0, capacity)
	seen := make(map[string]struct{}, capacity)

	for i, raw := range raws {
		if limit > 0 && len(out) >= limit {
			break
		}

		a, err := n.Normalize(raw, source)
		if err != nil {
			reason := "invalid"
			if errors.Is(err, entity.ErrMissingRequiredField) {
				reason = "missing_required_field"
			}
			n.logger.WarnContext(ctx, "dropping record",
				slog.String("source", string(source)),
				slog.Int("index", i),
				slog.String("reason", reason),
				slog.Any("error", err))
			metrics.RecordRecordDropped(string(source), reason)
			continue
		}

		if _, dup := seen[a.URL]; dup {
			n.logger.DebugContext(ctx, "dropping duplicate url",
				slog.String("source", string(source)),
				slog.String("url", a.URL))
			metrics.RecordRecordDropped(string(source), "duplicate_url")
			continue
		}
		seen[a.URL] = struct{}{}
		out = append(out, a)
	}

	return out
}
