// Package logging configures the process logger and carries request-scoped
// loggers through contexts.
//
// Loggers built by NewLogger write JSON and attach request_id, trace_id and
// span_id to every record logged with a context that carries them, so the
// *Context slog methods correlate access logs, adapter warnings and
// summarizer errors for one request:
//
//	logger := logging.NewLogger(os.Stdout, os.Getenv("LOG_LEVEL"))
//	slog.SetDefault(logger)
//	slog.WarnContext(ctx, "article detail fetch failed", slog.String("url", u))
package logging
