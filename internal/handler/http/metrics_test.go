package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"hynews/internal/observability/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsMiddleware_PatternLabel(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("GET /summary/{source}", okHandler())
	handler := MetricsMiddleware(mux)

	counter := metrics.HTTPRequestsTotal.WithLabelValues("GET", "GET /summary/{source}", "200")
	before := testutil.ToFloat64(counter)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/summary/daily-star", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/summary/ittefaq", nil))

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func TestMetricsMiddleware_NormalizesUnknownSources(t *testing.T) {
	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	counter := metrics.HTTPRequestsTotal.WithLabelValues("GET", "/summary/:source", "400")
	before := testutil.ToFloat64(counter)

	for _, src := range []string{"bbc", "cnn", "nyt"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/summary/"+src, nil))
	}

	assert.Equal(t, before+3, testutil.ToFloat64(counter))
}

func TestMetricsMiddleware_StatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		label  string
	}{
		{name: "ok", status: http.StatusOK, label: "200"},
		{name: "bad request", status: http.StatusBadRequest, label: "400"},
		{name: "bad gateway", status: http.StatusBadGateway, label: "502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			counter := metrics.HTTPRequestsTotal.WithLabelValues("GET", "/ittefaq/latest", tt.label)
			before := testutil.ToFloat64(counter)

			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ittefaq/latest", nil))

			assert.Equal(t, before+1, testutil.ToFloat64(counter))
		})
	}
}

func TestMetricsMiddleware_ActiveConnections(t *testing.T) {
	var during float64
	before := testutil.ToFloat64(metrics.ActiveConnections)
	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		during = testutil.ToFloat64(metrics.ActiveConnections)
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, before+1, during)
	assert.Equal(t, before, testutil.ToFloat64(metrics.ActiveConnections))
}

func TestRouteLabel(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/sources/ittefaq/latest", nil)
	assert.Equal(t, "/sources/:source/latest", routeLabel(req))

	req.Pattern = "GET /sources/{source}/latest"
	assert.Equal(t, "GET /sources/{source}/latest", routeLabel(req))
}

func TestMetricsHandler(t *testing.T) {
	metrics.RecordHTTPRequest("GET", "/health", "200", 0, 10)

	rr := httptest.NewRecorder()
	MetricsHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "http_requests_total")
}
