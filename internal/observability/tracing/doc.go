// Package tracing provides OpenTelemetry tracing integration.
//
// Init installs the process-wide tracer provider and the W3C trace context
// propagator. Middleware starts a server span per HTTP request and echoes the
// trace id in the X-Trace-Id response header. Use cases start child spans
// with GetTracer:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "digest.Build")
//	defer span.End()
package tracing
