package http

import (
	"net/http"
	"strings"

	"hynews/internal/domain/entity"
	"hynews/internal/handler/http/respond"
)

// IndexResponse is the body of GET /.
type IndexResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// IndexHandler lists the service's endpoints.
type IndexHandler struct {
	Version string
	Sources []entity.SourceDescriptor
}

func (h IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		respond.Error(w, http.StatusNotFound, "not found")
		return
	}

	endpoints := map[string]string{
		"sources": "/sources",
		"summary": "/summary/{source}",
		"health":  "/health",
		"metrics": "/metrics",
	}
	for _, d := range h.Sources {
		if d.PathAlias != "" {
			endpoints[underscore(string(d.ID))] = "/" + d.PathAlias + "/latest"
		} else {
			endpoints[underscore(string(d.ID))] = "/sources/" + string(d.ID) + "/latest"
		}
	}

	respond.JSON(w, http.StatusOK, IndexResponse{
		Message:   "Hynews API is running!",
		Version:   h.Version,
		Endpoints: endpoints,
	})
}

func underscore(id string) string {
	return strings.ReplaceAll(id, "-", "_")
}
