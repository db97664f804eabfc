// Package circuitbreaker provides circuit breaker implementations for upstream calls.
// It uses the github.com/sony/gobreaker library to stop hammering news sites and
// AI providers that are already failing.
package circuitbreaker

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

// Config tunes one breaker. The circuit trips once at least MinRequests
// calls were seen in the current Interval and the failure ratio reaches
// FailureThreshold; it stays open for Timeout, then lets MaxRequests probes
// through.
type Config struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32

	// IsSuccessful reports whether err counts as a success.
	// Nil means only a nil error succeeds.
	IsSuccessful func(err error) bool
}

// DefaultConfig returns a moderate policy named name.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
		IsSuccessful:     IgnoreCancellation,
	}
}

// SourceAdapterConfig guards one news source listing. News sites recover
// on their own, so only a sustained outage trips it.
func SourceAdapterConfig(source string) Config {
	cfg := DefaultConfig("source-" + source)
	cfg.MaxRequests = 2
	cfg.Interval = time.Minute
	cfg.FailureThreshold = 0.8
	return cfg
}

// ContentFetchConfig guards article detail page fetches shared by every
// source. Individual pages fail often, so it needs more evidence to trip.
func ContentFetchConfig() Config {
	cfg := DefaultConfig("content-fetch")
	cfg.MaxRequests = 5
	cfg.Interval = time.Minute
	cfg.MinRequests = 10
	return cfg
}

// SummarizerConfig guards one summarization provider ("claude", "openai",
// "gemini").
func SummarizerConfig(provider string) Config {
	return DefaultConfig(provider + "-api")
}

// CacheStoreConfig guards a remote digest cache store. A flapping store
// should fail fast so requests fall through to regeneration.
func CacheStoreConfig(backend string) Config {
	cfg := DefaultConfig("cache-" + backend)
	cfg.MaxRequests = 1
	cfg.Timeout = 15 * time.Second
	cfg.FailureThreshold = 0.5
	cfg.MinRequests = 4
	return cfg
}

// IgnoreCancellation treats caller cancellation as neither the upstream's fault
// nor a failure.
func IgnoreCancellation(err error) bool {
	return err == nil || errors.Is(err, context.Canceled)
}

// CircuitBreaker is a named gobreaker breaker that reports its state to
// Snapshot.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
}

// New creates a breaker and registers it for Snapshot.
func New(cfg Config) *CircuitBreaker {
	settings := gobreaker.Settings{
		Name:         cfg.Name,
		MaxRequests:  cfg.MaxRequests,
		Interval:     cfg.Interval,
		Timeout:      cfg.Timeout,
		IsSuccessful: cfg.IsSuccessful,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}

	cb := &CircuitBreaker{
		breaker: gobreaker.NewCircuitBreaker(settings),
		name:    cfg.Name,
	}
	defaultRegistry.add(cb)
	return cb
}

// Execute runs fn unless the circuit is open, in which case it returns
// gobreaker.ErrOpenState without calling fn.
func (cb *CircuitBreaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	return cb.breaker.Execute(fn)
}

func (cb *CircuitBreaker) State() gobreaker.State {
	return cb.breaker.State()
}

func (cb *CircuitBreaker) Name() string {
	return cb.name
}

func (cb *CircuitBreaker) IsOpen() bool {
	return cb.breaker.State() == gobreaker.StateOpen
}

// IsRejection reports whether err came from the breaker refusing the call
// rather than from the wrapped function.
func IsRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// Status is a point-in-time view of one breaker.
type Status struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

type registry struct {
	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
}

var defaultRegistry = &registry{breakers: make(map[string]*CircuitBreaker)}

func (r *registry) add(cb *CircuitBreaker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.breakers[cb.name] = cb
}

// Snapshot returns the state of every breaker created in this process, sorted by name.
// A later breaker with the same name replaces the earlier one.
func Snapshot() []Status {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()

	out := make([]Status, 0, len(defaultRegistry.breakers))
	for name, cb := range defaultRegistry.breakers {
		out = append(out, Status{Name: name, State: cb.State().String()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
