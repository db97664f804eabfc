// Package digest serves the per-source daily digest.
package digest

import (
	"context"
	"net/http"

	"hynews/internal/domain/entity"
	"hynews/internal/handler/http/respond"
)

// Resolver maps a source id or alias to a registered source.
type Resolver interface {
	Resolve(name string) (entity.SourceID, error)
}

// Builder produces a source's digest.
type Builder interface {
	Build(ctx context.Context, source entity.SourceID, bypassCache bool) (*entity.Digest, error)
}

// SummaryHandler serves GET /summary/{source}?cache=on|off.
type SummaryHandler struct {
	Sources Resolver
	Builder Builder
}

func (h SummaryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := h.Sources.Resolve(r.PathValue("source"))
	if err != nil {
		respond.FromError(w, r, err)
		return
	}
	bypass, err := entity.ParseCacheMode(r.URL.Query().Get("cache"))
	if err != nil {
		respond.FromError(w, r, err)
		return
	}

	d, err := h.Builder.Build(r.Context(), id, bypass)
	if err != nil {
		respond.FromError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, d)
}

// Register registers the digest route. wrap, when non-nil, is applied to the
// handler (rate limiting).
func Register(mux *http.ServeMux, sources Resolver, builder Builder, wrap func(http.Handler) http.Handler) {
	var h http.Handler = SummaryHandler{Sources: sources, Builder: builder}
	if wrap != nil {
		h = wrap(h)
	}
	mux.Handle("GET /summary/{source}", h)
}
