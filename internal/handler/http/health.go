// Package http wires the hynews HTTP surface: middleware, health probes,
// metrics and the service index. Route handlers live in the source and digest
// subpackages.
package http

import (
	"context"
	"net/http"
	"time"

	"hynews/internal/handler/http/respond"
	"hynews/internal/resilience/circuitbreaker"
)

// Pinger is implemented by dependencies that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the JSON body of /health.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus is the result of one health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// HealthHandler reports the state of the service's collaborators.
// A failing cache or an open breaker degrades the service but does not make
// it unhealthy: requests still fall through to the upstreams.
type HealthHandler struct {
	Version      string
	SourceCount  int
	CacheBackend string
	Cache        Pinger
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]CheckStatus{
		"sources":          h.checkSources(),
		"cache":            h.checkCache(ctx),
		"circuit_breakers": checkBreakers(),
	}

	status := statusHealthy
	code := http.StatusOK
	for _, c := range checks {
		switch c.Status {
		case statusUnhealthy:
			status = statusUnhealthy
			code = http.StatusServiceUnavailable
		case statusDegraded:
			if status == statusHealthy {
				status = statusDegraded
			}
		}
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

func (h *HealthHandler) checkSources() CheckStatus {
	if h.SourceCount == 0 {
		return CheckStatus{Status: statusUnhealthy, Message: "no sources registered"}
	}
	return CheckStatus{Status: statusHealthy, Details: map[string]any{"registered": h.SourceCount}}
}

func (h *HealthHandler) checkCache(ctx context.Context) CheckStatus {
	details := map[string]any{"backend": h.CacheBackend}
	if h.Cache == nil {
		return CheckStatus{Status: statusHealthy, Message: "cache disabled", Details: details}
	}
	if err := h.Cache.Ping(ctx); err != nil {
		return CheckStatus{Status: statusDegraded, Message: "cache unreachable", Details: details}
	}
	return CheckStatus{Status: statusHealthy, Details: details}
}

func checkBreakers() CheckStatus {
	snapshot := circuitbreaker.Snapshot()
	var open []string
	for _, s := range snapshot {
		if s.State == "open" {
			open = append(open, s.Name)
		}
	}
	if len(open) > 0 {
		return CheckStatus{
			Status:  statusDegraded,
			Message: "circuit breakers open",
			Details: map[string]any{"open": open},
		}
	}
	return CheckStatus{Status: statusHealthy, Details: map[string]any{"count": len(snapshot)}}
}

// BreakersHandler serves the state of every circuit breaker (/health/breakers).
type BreakersHandler struct{}

func (BreakersHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, http.StatusOK, map[string]any{
		"circuit_breakers": circuitbreaker.Snapshot(),
	})
}

// ReadyHandler answers readiness probes. The service is ready once its
// sources are registered; the cache is optional and not consulted.
type ReadyHandler struct {
	SourceCount int
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	if h.SourceCount == 0 {
		http.Error(w, "no sources registered", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// LiveHandler answers liveness probes.
type LiveHandler struct{}

func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("alive"))
}
