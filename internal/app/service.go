// Package service assembles the dashboard: the API client, the screen factory,
// the session store and the HTTP shell, and owns their lifecycle.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/okian/medalboard/internal/adapters/http/ops"
	"github.com/okian/medalboard/internal/adapters/http/site"
	"github.com/okian/medalboard/internal/apiclient"
	"github.com/okian/medalboard/internal/config"
	"github.com/okian/medalboard/internal/presentation"
	"github.com/okian/medalboard/internal/resources"
	"github.com/okian/medalboard/internal/screens"
	"github.com/okian/medalboard/internal/session"
	"github.com/okian/medalboard/pkg/logger"
	"github.com/okian/medalboard/pkg/metrics"
)

// ErrNotStarted is returned by Register before Start.
var ErrNotStarted = errors.New("service not started")

// Service is the running dashboard.
type Service struct {
	mu sync.RWMutex

	// Configuration
	apiBaseURL    string
	locale        string
	renderWait    time.Duration
	refresh       int
	maxSessions   int
	sessionTTL    time.Duration
	sweepInterval time.Duration
	httpClient    *http.Client
	errorHook     func(ctx context.Context, err *apiclient.Error)

	// Core components
	store *session.Store
	site  *site.Handler

	// State
	started bool
	cancel  context.CancelFunc
	done    chan struct{}

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithAPIBaseURL sets the medals API base URL.
func WithAPIBaseURL(u string) Option {
	return func(s *Service) {
		if u != "" {
			s.apiBaseURL = u
		}
	}
}

// WithLocale sets the display locale, e.g. "fr-FR".
func WithLocale(tag string) Option {
	return func(s *Service) {
		if tag != "" {
			s.locale = tag
		}
	}
}

// WithRenderWait bounds how long a page waits for its data before rendering
// the loading frame.
func WithRenderWait(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.renderWait = d
		}
	}
}

// WithLoadingRefresh sets the refresh interval of loading pages in seconds.
func WithLoadingRefresh(seconds int) Option {
	return func(s *Service) {
		if seconds > 0 {
			s.refresh = seconds
		}
	}
}

// WithMaxSessions caps concurrently tracked browser sessions.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithSessionTTL sets the idle lifetime of a session.
func WithSessionTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.sessionTTL = d
		}
	}
}

// WithSweepInterval sets how often idle sessions are evicted.
func WithSweepInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.sweepInterval = d
		}
	}
}

// WithHTTPClient replaces the client used to reach the API.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) { s.httpClient = c }
}

// WithErrorHook receives every failed API request, e.g. for error reporting.
func WithErrorHook(hook func(ctx context.Context, err *apiclient.Error)) Option {
	return func(s *Service) { s.errorHook = hook }
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// FromConfig maps a loaded configuration onto options.
func FromConfig(cfg *config.Config) []Option {
	return []Option{
		WithAPIBaseURL(cfg.APIBaseURL),
		WithLocale(cfg.Locale),
		WithRenderWait(cfg.RenderWait()),
		WithLoadingRefresh(cfg.LoadingRefreshSeconds),
		WithMaxSessions(cfg.MaxSessions),
		WithSessionTTL(cfg.SessionTTL()),
		WithSweepInterval(cfg.SessionSweep()),
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		apiBaseURL:    config.DefaultAPIBaseURL,
		locale:        presentation.DefaultLocale,
		renderWait:    1500 * time.Millisecond,
		refresh:       1,
		maxSessions:   10_000,
		sessionTTL:    30 * time.Minute,
		sweepInterval: time.Minute,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the components and starts the session janitor.
func (s *Service) Start(ctx context.Context) error {
	const op = "service.Start"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.OrGlobal(nil)
	}

	s.logger.Info(ctx, "starting dashboard...", logger.String("api", s.apiBaseURL))

	clientOpts := []apiclient.Option{
		apiclient.WithLogger(s.logger.Named("apiclient")),
		apiclient.WithErrorHook(s.errorHook),
	}
	if s.httpClient != nil {
		clientOpts = append(clientOpts, apiclient.WithHTTPClient(s.httpClient))
	}
	client, err := apiclient.New(s.apiBaseURL, clientOpts...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	locale, err := presentation.NewLocale(s.locale)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	renderer, err := presentation.NewRenderer(presentation.WithLocale(locale))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	store := session.NewStore(
		session.WithMaxSessions(s.maxSessions),
		session.WithTTL(s.sessionTTL),
		session.WithLogger(s.logger.Named("session")),
	)
	factory := screens.NewFactory(resources.New(client), s.logger.Named("screens"))

	s.store = store
	s.site = site.New(factory, store, renderer,
		site.WithRenderWait(s.renderWait),
		site.WithLoadingRefresh(s.refresh),
		site.WithLogger(s.logger.Named("site")),
	)

	janitorCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		store.Run(janitorCtx, s.sweepInterval)
	}()

	s.started = true
	s.logger.Info(ctx, "dashboard started",
		logger.String("locale", locale.Lang()),
		logger.Int("maxSessions", s.maxSessions),
		logger.Duration("sessionTTL", s.sessionTTL),
	)
	return nil
}

// Register attaches the dashboard and ops routes to r.
func (s *Service) Register(r chi.Router) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return ErrNotStarted
	}
	ops.Register(r, s)
	s.site.Register(r)
	return nil
}

// Stop deactivates every screen and stops the janitor.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping dashboard...")

	s.cancel()
	<-s.done
	s.store.Close()

	s.started = false
	s.logger.Info(ctx, "dashboard stopped")
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":      s.started,
		"api_base_url": s.apiBaseURL,
		"locale":       s.locale,
		"max_sessions": s.maxSessions,
	}
	if s.started {
		n := s.store.Len()
		stats["active_sessions"] = n
		metrics.UpdateActiveSessions(n)
	}
	return stats
}
