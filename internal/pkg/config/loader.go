// Package config loads validated settings for long-running components.
//
// Loaders never fail: a value that does not parse or validate is replaced by
// its default and reported as a warning, so a bad setting degrades the
// component instead of stopping it.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// LoadResult is one loaded setting. Warning is set whenever FallbackApplied is.
type LoadResult[T any] struct {
	Value           T
	Warning         string
	FallbackApplied bool
}

// load reads envKey, parses and validates it, and falls back to defaultValue
// on any failure. An unset or empty variable yields the default silently.
func load[T any](envKey string, defaultValue T, parse func(string) (T, error), validator func(T) error) LoadResult[T] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return LoadResult[T]{Value: defaultValue}
	}

	value, err := parse(raw)
	if err == nil && validator != nil {
		err = validator(value)
	}
	if err != nil {
		return LoadResult[T]{
			Value:           defaultValue,
			Warning:         fmt.Sprintf("invalid %s=%q: %v, falling back to default %v", envKey, raw, err, defaultValue),
			FallbackApplied: true,
		}
	}
	return LoadResult[T]{Value: value}
}

// LoadEnvString loads a string setting.
//
//	r := LoadEnvString("CRON_SCHEDULE", "5 0 * * *", ValidateCronSchedule)
func LoadEnvString(envKey, defaultValue string, validator func(string) error) LoadResult[string] {
	return load(envKey, defaultValue, func(s string) (string, error) { return s, nil }, validator)
}

// LoadEnvDuration loads a time.ParseDuration setting.
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) LoadResult[time.Duration] {
	return load(envKey, defaultValue, time.ParseDuration, validator)
}

// LoadEnvInt loads a decimal integer setting.
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) LoadResult[int] {
	return load(envKey, defaultValue, strconv.Atoi, validator)
}

// LoadEnvBool loads a strconv.ParseBool setting.
func LoadEnvBool(envKey string, defaultValue bool) LoadResult[bool] {
	return load(envKey, defaultValue, strconv.ParseBool, nil)
}
