package entity

import (
	"fmt"
	"strconv"
)

// Listing limit bounds shared by adapters and the HTTP layer.
const (
	MinLimit     = 1
	MaxLimit     = 100
	DefaultLimit = 10
)

// ValidateLimit rejects limits outside [MinLimit, MaxLimit].
func ValidateLimit(limit int) error {
	if limit < MinLimit || limit > MaxLimit {
		return &ValidationError{
			Field:   "limit",
			Message: fmt.Sprintf("limit must be between %d and %d", MinLimit, MaxLimit),
		}
	}
	return nil
}

// ClampLimit forces limit into [MinLimit, MaxLimit].
func ClampLimit(limit int) int {
	if limit < MinLimit {
		return MinLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// ParseLimit parses a query value. An empty value yields DefaultLimit.
func ParseLimit(raw string) (int, error) {
	if raw == "" {
		return DefaultLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ValidationError{Field: "limit", Message: "limit must be an integer"}
	}
	if err := ValidateLimit(n); err != nil {
		return 0, err
	}
	return n, nil
}

// ParseCacheMode parses the cache query parameter. It returns true when the cache
// should be bypassed. An empty value means "on".
func ParseCacheMode(raw string) (bypass bool, err error) {
	switch raw {
	case "", "on":
		return false, nil
	case "off":
		return true, nil
	default:
		return false, &ValidationError{Field: "cache", Message: "cache must be 'on' or 'off'"}
	}
}
