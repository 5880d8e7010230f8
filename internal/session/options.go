package session

import (
	"time"

	"github.com/okian/medalboard/pkg/logger"
)

const (
	defaultMaxSessions = 10_000
	defaultTTL         = 30 * time.Minute
)

// Option configures a Store.
type Option func(*Store)

// WithMaxSessions caps the number of live sessions; the least recently used
// one is evicted beyond it. Values below 1 are ignored.
func WithMaxSessions(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithTTL sets how long an untouched session survives a sweep.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}
