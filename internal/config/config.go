// Package config defines the dashboard configuration and its loader.
//
// Conventions:
//   - New(ctx) returns defaults; Load(ctx) layers file, .env and environment on top.
//   - Durations are configured as integer milliseconds or seconds and exposed
//     through accessor methods.
//   - Validation failures wrap ErrInvalidConfig.
package config

import (
	"context"
	"time"
)

// DefaultAPIBaseURL is the local-development address of the medals API.
const DefaultAPIBaseURL = "http://localhost:8000/api"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// APIBaseURL is the root of the medals REST API; paths such as
	// "/countries/" are appended to it verbatim.
	APIBaseURL string `koanf:"api_base_url"`

	// Locale is a BCP 47 tag used for date and number formatting.
	Locale string `koanf:"locale"`

	// RenderWaitMS bounds how long a page request waits for a screen load
	// before rendering the loading indicator instead.
	RenderWaitMS int `koanf:"render_wait_ms"`

	// LoadingRefreshSeconds is the meta-refresh delay of loading pages.
	LoadingRefreshSeconds int `koanf:"loading_refresh_seconds"`

	// SessionTTLSeconds is the idle lifetime of a browser session.
	SessionTTLSeconds int `koanf:"session_ttl_seconds"`

	// SessionSweepSeconds is the janitor interval for idle sessions.
	SessionSweepSeconds int `koanf:"session_sweep_seconds"`

	// MaxSessions caps concurrently held sessions; the least recently used
	// session is evicted beyond it.
	MaxSessions int `koanf:"max_sessions"`

	// SentryDSN enables error reporting when non-empty.
	SentryDSN string `koanf:"sentry_dsn"`

	// Environment names the deployment for error reports.
	Environment string `koanf:"environment"`
}

// New creates a Config populated with defaults. The context is accepted to
// keep the package signature uniform with Load.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":8080",
		APIBaseURL:            DefaultAPIBaseURL,
		Locale:                "fr-FR",
		RenderWaitMS:          1500,
		LoadingRefreshSeconds: 1,
		SessionTTLSeconds:     1800,
		SessionSweepSeconds:   60,
		MaxSessions:           10_000,
		Environment:           "development",
	}
}

// RenderWait returns RenderWaitMS as a duration.
func (c *Config) RenderWait() time.Duration {
	return time.Duration(c.RenderWaitMS) * time.Millisecond
}

// SessionTTL returns SessionTTLSeconds as a duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSeconds) * time.Second
}

// SessionSweep returns SessionSweepSeconds as a duration.
func (c *Config) SessionSweep() time.Duration {
	return time.Duration(c.SessionSweepSeconds) * time.Second
}
