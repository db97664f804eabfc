package fetcher

import (
	"fmt"
	"time"

	pkgconfig "hynews/pkg/config"
)

// DefaultUserAgent is a desktop browser string; several Bangladeshi news sites
// serve an empty shell to unknown agents.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// ContentFetchConfig holds the configuration for article page fetching.
//
// Security settings:
//   - DenyPrivateIPs: Prevents SSRF by blocking private IP addresses
//   - MaxBodySize: Prevents memory exhaustion from oversized responses
//   - MaxRedirects: Prevents infinite redirect loops
//   - Timeout: Bounds each page fetch
type ContentFetchConfig struct {
	// Timeout is the maximum duration for a single page fetch.
	// Default: 10s
	Timeout time.Duration

	// Parallelism is the maximum number of detail pages fetched at once per listing.
	// Default: 8
	Parallelism int

	// MaxBodySize is the maximum HTTP response body size in bytes.
	// Default: 5242880 (5MB)
	MaxBodySize int64

	// MaxRedirects is the maximum number of HTTP redirects to follow.
	// Default: 5
	MaxRedirects int

	// DenyPrivateIPs controls whether URLs resolving to private addresses are refused.
	// Should always be true in production.
	// Default: true
	DenyPrivateIPs bool

	// UserAgent is sent with every request.
	UserAgent string
}

// DefaultConfig returns the default configuration for content fetching.
func DefaultConfig() ContentFetchConfig {
	return ContentFetchConfig{
		Timeout:        10 * time.Second,
		Parallelism:    8,
		MaxBodySize:    5 * 1024 * 1024,
		MaxRedirects:   5,
		DenyPrivateIPs: true,
		UserAgent:      DefaultUserAgent,
	}
}

// Validate checks if the configuration values are valid and safe.
//
// Validation rules:
//   - Timeout: > 0
//   - Parallelism: 1-50
//   - MaxBodySize: 1KB-100MB
//   - MaxRedirects: 0-10
func (c *ContentFetchConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	if c.Parallelism < 1 || c.Parallelism > 50 {
		return fmt.Errorf("parallelism must be between 1 and 50, got %d", c.Parallelism)
	}

	minBodySize := int64(1024)
	maxBodySize := int64(100 * 1024 * 1024)
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}

	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}

	return nil
}

// LoadConfigFromEnv loads configuration from environment variables.
// Unset or unparseable variables keep their defaults; the result is validated.
//
// Environment variables:
//   - UPSTREAM_TIMEOUT: duration string, e.g. "10s" (default: 10s)
//   - CONTENT_FETCH_PARALLELISM: integer (default: 8)
//   - CONTENT_FETCH_MAX_BODY_SIZE: integer in bytes (default: 5242880)
//   - CONTENT_FETCH_MAX_REDIRECTS: integer (default: 5)
//   - CONTENT_FETCH_DENY_PRIVATE_IPS: boolean (default: true)
//   - UPSTREAM_USER_AGENT: string (default: desktop Chrome)
func LoadConfigFromEnv() (ContentFetchConfig, error) {
	d := DefaultConfig()
	cfg := ContentFetchConfig{
		Timeout:        pkgconfig.GetEnvDuration("UPSTREAM_TIMEOUT", d.Timeout),
		Parallelism:    pkgconfig.GetEnvInt("CONTENT_FETCH_PARALLELISM", d.Parallelism),
		MaxBodySize:    int64(pkgconfig.GetEnvInt("CONTENT_FETCH_MAX_BODY_SIZE", int(d.MaxBodySize))),
		MaxRedirects:   pkgconfig.GetEnvInt("CONTENT_FETCH_MAX_REDIRECTS", d.MaxRedirects),
		DenyPrivateIPs: pkgconfig.GetEnvBool("CONTENT_FETCH_DENY_PRIVATE_IPS", d.DenyPrivateIPs),
		UserAgent:      pkgconfig.GetEnvString("UPSTREAM_USER_AGENT", d.UserAgent),
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}
