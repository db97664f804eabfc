// Package news provides the article listing use case: it validates the
// request, routes it to the source's adapter and records per-source
// metrics and spans.
package news

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hynews/internal/domain/entity"
	"hynews/internal/observability/metrics"
	"hynews/internal/observability/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// Adapter lists the latest articles of one source.
type Adapter interface {
	Source() entity.SourceDescriptor
	FetchLatest(ctx context.Context, limit int) ([]entity.Article, error)
}

// Service routes listing requests to registered adapters.
type Service struct {
	adapters map[entity.SourceID]Adapter
	order    []entity.SourceID
	aliases  map[string]entity.SourceID
}

// NewService registers adapters in the given order. Ids and path aliases
// must be unique.
func NewService(adapters ...Adapter) (*Service, error) {
	s := &Service{
		adapters: make(map[entity.SourceID]Adapter, len(adapters)),
		aliases:  make(map[string]entity.SourceID, len(adapters)),
	}
	for _, a := range adapters {
		d := a.Source()
		if _, dup := s.adapters[d.ID]; dup {
			return nil, fmt.Errorf("duplicate source id %q", d.ID)
		}
		s.adapters[d.ID] = a
		s.order = append(s.order, d.ID)

		if d.PathAlias != "" {
			alias := strings.ToLower(d.PathAlias)
			if other, dup := s.aliases[alias]; dup {
				return nil, fmt.Errorf("path alias %q used by %s and %s", alias, other, d.ID)
			}
			s.aliases[alias] = d.ID
		}
	}
	return s, nil
}

// Sources returns the descriptors of all registered sources in registration order.
func (s *Service) Sources() []entity.SourceDescriptor {
	out := make([]entity.SourceDescriptor, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.adapters[id].Source())
	}
	return out
}

// Resolve maps a source id or path alias, case-insensitively, to a
// registered source. Unknown names return entity.ErrUnknownSource.
func (s *Service) Resolve(name string) (entity.SourceID, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if _, ok := s.adapters[entity.SourceID(key)]; ok {
		return entity.SourceID(key), nil
	}
	if id, ok := s.aliases[key]; ok {
		return id, nil
	}
	return "", fmt.Errorf("%w: %q", entity.ErrUnknownSource, name)
}

// Descriptor returns the descriptor of a registered source.
func (s *Service) Descriptor(id entity.SourceID) (entity.SourceDescriptor, bool) {
	a, ok := s.adapters[id]
	if !ok {
		return entity.SourceDescriptor{}, false
	}
	return a.Source(), true
}

// Latest returns up to limit of the source's newest articles, newest first.
// limit must lie in [entity.MinLimit, entity.MaxLimit]; it is checked before
// any upstream request is made.
func (s *Service) Latest(ctx context.Context, source entity.SourceID, limit int) ([]entity.Article, error) {
	if err := entity.ValidateLimit(limit); err != nil {
		return nil, err
	}
	adapter, ok := s.adapters[source]
	if !ok {
		return nil, fmt.Errorf("%w: %q", entity.ErrUnknownSource, source)
	}

	ctx, span := tracing.GetTracer().Start(ctx, "news.Latest")
	defer span.End()
	span.SetAttributes(
		attribute.String("source", string(source)),
		attribute.Int("limit", limit),
	)

	start := time.Now()
	articles, err := adapter.FetchLatest(ctx, limit)
	duration := time.Since(start)
	metrics.RecordSourceFetchDuration(string(source), duration)

	if err != nil {
		metrics.RecordSourceFetchError(string(source), ErrorType(err))
		tracing.RecordError(span, err)
		slog.WarnContext(ctx, "source listing failed",
			slog.String("source", string(source)),
			slog.Int("limit", limit),
			slog.Duration("duration", duration),
			slog.Any("error", err))
		return nil, fmt.Errorf("fetch %s: %w", source, err)
	}

	if len(articles) > limit {
		articles = articles[:limit]
	}
	if articles == nil {
		articles = []entity.Article{}
	}

	metrics.RecordArticlesFetched(string(source), len(articles))
	span.SetAttributes(attribute.Int("articles", len(articles)))
	slog.InfoContext(ctx, "source listing fetched",
		slog.String("source", string(source)),
		slog.Int("count", len(articles)),
		slog.Duration("duration", duration))

	return articles, nil
}

// ErrorType classifies err for metric labels.
func ErrorType(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, entity.ErrUpstreamFormat):
		return "format"
	case errors.Is(err, entity.ErrParse):
		return "parse"
	case errors.Is(err, entity.ErrUpstreamUnavailable):
		return "unavailable"
	default:
		return "other"
	}
}
