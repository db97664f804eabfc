// Package observability groups the service's telemetry packages.
//
// Subpackages:
//   - logging: slog JSON logger with request id correlation
//   - metrics: Prometheus collectors for HTTP, upstream, cache and digest activity
//   - tracing: OpenTelemetry tracer provider and HTTP middleware
package observability
