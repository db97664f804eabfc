// Package source serves the source registry and the per-source article
// listings.
package source

import (
	"context"
	"net/http"

	"hynews/internal/domain/entity"
	"hynews/internal/handler/http/respond"
)

// Service is the listing use case the handlers depend on.
type Service interface {
	Sources() []entity.SourceDescriptor
	Resolve(name string) (entity.SourceID, error)
	Descriptor(id entity.SourceID) (entity.SourceDescriptor, bool)
	Latest(ctx context.Context, source entity.SourceID, limit int) ([]entity.Article, error)
}

// ListHandler serves GET /sources.
type ListHandler struct{ Svc Service }

func (h ListHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	list := h.Svc.Sources()
	out := make([]DTO, 0, len(list))
	for _, d := range list {
		out = append(out, toDTO(d))
	}
	respond.JSON(w, http.StatusOK, out)
}
