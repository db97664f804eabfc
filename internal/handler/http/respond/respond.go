// Package respond writes JSON responses and maps domain errors to HTTP
// status codes without leaking upstream or provider details.
package respond

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"hynews/internal/domain/entity"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// Headers are already sent.
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// Error writes {"error": msg} with the given status code.
func Error(w http.ResponseWriter, code int, msg string) {
	JSON(w, code, ErrorBody{Error: msg})
}

// StatusFor maps a domain error to its HTTP status:
// invalid parameters are 400, upstream and summarizer outages are 502, and
// anything else (format, parse, malformed digest) is 500.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrUpstreamUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage returns the message a client may see for err.
// Parameter errors are echoed; server-side failures only name their class.
func publicMessage(err error) string {
	switch {
	case errors.Is(err, entity.ErrInvalidParameter):
		return err.Error()
	case errors.Is(err, entity.ErrSummarizerUnavailable):
		return "summarizer unavailable"
	case errors.Is(err, entity.ErrUpstreamUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return "upstream unavailable"
	case errors.Is(err, entity.ErrUpstreamFormat):
		return "upstream format error"
	case errors.Is(err, entity.ErrParse):
		return "upstream parse error"
	case errors.Is(err, entity.ErrMalformedDigest):
		return "malformed digest"
	default:
		return "internal server error"
	}
}

// FromError writes the error response for err and logs server-side failures
// with their sanitized detail.
func FromError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}
	code := StatusFor(err)
	if code >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("code", code),
			slog.String("error", SanitizeError(err)))
	}
	Error(w, code, publicMessage(err))
}
