// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// ActiveConnections tracks the number of in-flight HTTP requests
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)
)

// Source metrics track upstream listing behavior per source
var (
	// ArticlesFetchedTotal counts articles returned by each source adapter
	ArticlesFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_fetched_total",
			Help: "Total number of articles fetched from sources",
		},
		[]string{"source"},
	)

	// SourceFetchDuration measures one adapter listing call
	SourceFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "source_fetch_duration_seconds",
			Help:    "Time taken to list latest articles from a source",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"source"},
	)

	// SourceFetchErrors counts failed listing calls by error class
	SourceFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_fetch_errors_total",
			Help: "Total number of source listing errors",
		},
		[]string{"source", "error_type"},
	)

	// RecordsDroppedTotal counts raw records the normalizer rejected
	RecordsDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "normalizer_records_dropped_total",
			Help: "Total number of raw records dropped during normalization",
		},
		[]string{"source", "reason"},
	)
)

// Content fetch metrics track full-text extraction
var (
	// ContentFetchAttemptsTotal counts content fetch attempts by result
	ContentFetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_fetch_attempts_total",
			Help: "Total number of content fetch attempts",
		},
		[]string{"result"}, // result: success, failure, empty
	)

	// ContentFetchDuration measures time to fetch article content
	ContentFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "content_fetch_duration_seconds",
			Help:    "Time taken to fetch article content",
			Buckets: []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		},
	)

	// ContentFetchSize measures extracted body size in bytes
	ContentFetchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "content_fetch_size_bytes",
			Help: "Extracted article body size in bytes",
			Buckets: []float64{
				100, 200, 400, 800, 1600, 3200, 6400, 12800,
				25600, 51200, 102400, 204800,
			},
		},
	)
)

// Digest metrics track the cache and the build pipeline
var (
	// DigestCacheLookups counts cache lookups by result
	DigestCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_cache_lookups_total",
			Help: "Total number of digest cache lookups",
		},
		[]string{"source", "result"}, // result: hit, miss, stale, bypass, error
	)

	// DigestCacheWriteErrors counts cache writes that failed
	DigestCacheWriteErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_cache_write_errors_total",
			Help: "Total number of failed digest cache writes",
		},
		[]string{"source"},
	)

	// DigestBuildsTotal counts digest builds by status
	DigestBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_builds_total",
			Help: "Total number of digest builds",
		},
		[]string{"source", "status"},
	)

	// DigestBuildDuration measures a full fetch and summarize cycle
	DigestBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "digest_build_duration_seconds",
			Help:    "Time taken to build a digest",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
		[]string{"source"},
	)

	// CacheStoreDuration measures backing store operations
	CacheStoreDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cache_store_operation_duration_seconds",
			Help:    "Digest cache backing store operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"backend", "operation"},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())

	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}

// RecordCacheStoreOperation records the duration of a backing store call
func RecordCacheStoreOperation(backend, operation string, duration time.Duration) {
	CacheStoreDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}
