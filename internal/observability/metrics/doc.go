// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes the application metrics:
//   - HTTP request metrics (duration, count, size)
//   - Source listing metrics (articles fetched, fetch errors, dropped records)
//   - Full-text extraction metrics
//   - Digest cache and digest build metrics
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "hynews/internal/observability/metrics"
//
//	func listLatest(source string) {
//	    start := time.Now()
//	    // ... fetch articles ...
//	    metrics.RecordArticlesFetched(source, len(articles))
//	    metrics.RecordSourceFetchDuration(source, time.Since(start))
//	}
package metrics
