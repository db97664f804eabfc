package source

import (
	"net/http"

	"hynews/internal/domain/entity"
	"hynews/internal/handler/http/respond"
)

// LatestHandler serves GET /sources/{source}/latest with canonical articles.
type LatestHandler struct{ Svc Service }

func (h LatestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := h.Svc.Resolve(r.PathValue("source"))
	if err != nil {
		respond.FromError(w, r, err)
		return
	}
	limit, err := entity.ParseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		respond.FromError(w, r, err)
		return
	}

	articles, err := h.Svc.Latest(r.Context(), id, limit)
	if err != nil {
		respond.FromError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, canonical(articles))
}

// AliasHandler serves one source's legacy route, e.g. GET /dailystar/latest,
// in that source's own field names and listing shape.
type AliasHandler struct {
	Svc    Service
	Source entity.SourceDescriptor
}

func (h AliasHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	limit, err := entity.ParseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		respond.FromError(w, r, err)
		return
	}

	articles, err := h.Svc.Latest(r.Context(), h.Source.ID, limit)
	if err != nil {
		respond.FromError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, render(h.Source, limit, articles))
}
