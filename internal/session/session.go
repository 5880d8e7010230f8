// Package session tracks browser sessions and the single screen each one has
// mounted. Sessions live in a bounded LRU and expire after a period without
// requests; evicting a session deactivates its screen.
package session

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/medalboard/internal/screens"
	"github.com/okian/medalboard/pkg/logger"
	"github.com/okian/medalboard/pkg/metrics"
)

// Eviction reasons reported to metrics.
const (
	reasonIdle     = "idle"
	reasonCapacity = "capacity"
	reasonShutdown = "shutdown"
)

// Session is one browser session. At most one screen is active per session.
type Session struct {
	id   string
	base context.Context

	mu     sync.Mutex
	screen screens.Screen
	closed bool

	// guarded by Store.mu
	seen time.Time
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Mount keeps the mounted screen when it has the key of next, otherwise it
// deactivates the mounted screen and activates next in its place. The boolean
// reports whether next was mounted.
func (s *Session) Mount(next screens.Screen) (screens.Screen, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, false, ErrClosed
	}
	if s.screen != nil && s.screen.Key() == next.Key() {
		return s.screen, false, nil
	}
	if s.screen != nil {
		s.screen.Deactivate()
		s.screen = nil
	}

	if err := next.Activate(s.base); err != nil {
		return nil, false, err
	}
	s.screen = next
	return next, true, nil
}

// Current returns the mounted screen when its key is key.
func (s *Session) Current(key string) (screens.Screen, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if s.screen == nil || s.screen.Key() != key {
		return nil, ErrNoScreen
	}
	return s.screen, nil
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.screen != nil {
		s.screen.Deactivate()
		s.screen = nil
	}
}

// Store is a bounded LRU of sessions.
type Store struct {
	maxSessions int
	ttl         time.Duration
	now         func() time.Time
	log         logger.Logger

	base   context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	order  *list.List // front is most recently used
	items  map[string]*list.Element
	closed bool
}

// NewStore returns an empty store. Screens of its sessions run on a context
// that is cancelled by Close.
func NewStore(opts ...Option) *Store {
	s := &Store{
		maxSessions: defaultMaxSessions,
		ttl:         defaultTTL,
		now:         time.Now,
		order:       list.New(),
		items:       make(map[string]*list.Element),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.OrGlobal(nil).Named("session")
	}
	s.base, s.cancel = context.WithCancel(context.Background())
	return s
}

// Acquire returns the live session id, or a new session when id is unknown or
// expired. The boolean reports whether the session was created.
func (s *Store) Acquire(id string) (*Session, bool, error) {
	now := s.now()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, false, ErrClosed
	}

	var expired *Session
	if el, ok := s.items[id]; ok && id != "" {
		sess := el.Value.(*Session)
		if now.Sub(sess.seen) <= s.ttl {
			sess.seen = now
			s.order.MoveToFront(el)
			s.mu.Unlock()
			return sess, false, nil
		}
		s.removeLocked(el)
		expired = sess
	}

	sess := &Session{id: uuid.NewString(), base: s.base, seen: now}
	s.items[sess.id] = s.order.PushFront(sess)

	var evicted []*Session
	for s.order.Len() > s.maxSessions {
		oldest := s.order.Back()
		evicted = append(evicted, oldest.Value.(*Session))
		s.removeLocked(oldest)
	}
	n := s.order.Len()
	s.mu.Unlock()

	metrics.UpdateActiveSessions(n)
	if expired != nil {
		s.evict(expired, reasonIdle)
	}
	for _, e := range evicted {
		s.evict(e, reasonCapacity)
	}
	return sess, true, nil
}

// Lookup returns the live session id without creating one. A hit counts as
// activity, like Acquire.
func (s *Store) Lookup(id string) (*Session, bool) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[id]
	if !ok {
		return nil, false
	}
	sess := el.Value.(*Session)
	if now.Sub(sess.seen) > s.ttl {
		return nil, false
	}
	sess.seen = now
	s.order.MoveToFront(el)
	return sess, true
}

// Len returns the number of tracked sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

// Sweep evicts every session idle for longer than the TTL and returns how
// many were removed.
func (s *Store) Sweep() int {
	now := s.now()

	s.mu.Lock()
	var expired []*Session
	for el := s.order.Back(); el != nil; {
		sess := el.Value.(*Session)
		if now.Sub(sess.seen) <= s.ttl {
			break
		}
		prev := el.Prev()
		s.removeLocked(el)
		expired = append(expired, sess)
		el = prev
	}
	n := s.order.Len()
	s.mu.Unlock()

	if len(expired) > 0 {
		metrics.UpdateActiveSessions(n)
	}
	for _, sess := range expired {
		s.evict(sess, reasonIdle)
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.log.Debug(ctx, "idle sessions evicted", logger.Int("count", n))
			}
		}
	}
}

// Close deactivates every screen and rejects further use. It is idempotent.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	all := make([]*Session, 0, s.order.Len())
	for el := s.order.Front(); el != nil; el = el.Next() {
		all = append(all, el.Value.(*Session))
	}
	s.order.Init()
	s.items = make(map[string]*list.Element)
	s.mu.Unlock()

	s.cancel()
	for _, sess := range all {
		s.evict(sess, reasonShutdown)
	}
	metrics.UpdateActiveSessions(0)
}

func (s *Store) removeLocked(el *list.Element) {
	s.order.Remove(el)
	delete(s.items, el.Value.(*Session).id)
}

func (s *Store) evict(sess *Session, reason string) {
	sess.close()
	metrics.RecordSessionEviction(reason)
	s.log.Debug(s.base, "session evicted", logger.String("session", sess.id), logger.String("reason", reason))
}
