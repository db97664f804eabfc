package source

import (
	"net/http"
)

// Register registers the source registry, the canonical listing route and
// one alias route per source that declares a path alias.
func Register(mux *http.ServeMux, svc Service) {
	mux.Handle("GET /sources", ListHandler{svc})
	mux.Handle("GET /sources/{source}/latest", LatestHandler{svc})

	for _, d := range svc.Sources() {
		if d.PathAlias == "" {
			continue
		}
		mux.Handle("GET /"+d.PathAlias+"/latest", AliasHandler{Svc: svc, Source: d})
	}
}
