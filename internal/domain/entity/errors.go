package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
// Callers classify failures with errors.Is; adapters wrap these with context.
var (
	// ErrUpstreamUnavailable indicates a network failure, non-success status or timeout upstream
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrUpstreamFormat indicates the upstream JSON did not have the expected shape
	ErrUpstreamFormat = errors.New("upstream format error")

	// ErrParse indicates upstream HTML lacked the structural markers a scraper relies on
	ErrParse = errors.New("parse error")

	// ErrInvalidParameter indicates a caller supplied parameter is out of range or malformed
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrMissingRequiredField indicates a raw record lacks title or url
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrMalformedDigest indicates the summarizer returned output that is not a valid digest
	ErrMalformedDigest = errors.New("malformed digest")
)

var (
	// ErrUnknownSource indicates a source identifier that is not registered
	ErrUnknownSource = fmt.Errorf("unknown source: %w", ErrInvalidParameter)

	// ErrSummarizerUnavailable indicates the summarization collaborator failed or timed out
	ErrSummarizerUnavailable = fmt.Errorf("summarizer unavailable: %w", ErrUpstreamUnavailable)
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and unwraps to ErrInvalidParameter.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Unwrap lets errors.Is(err, ErrInvalidParameter) match validation failures.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidParameter
}
