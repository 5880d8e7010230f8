// Package viewstate implements the view-state controller shared by every
// screen: one generic state machine {data, loading, error, page, hasNext}
// driven by a fetch function.
//
// Every load takes a new generation and cancels the load it supersedes; a
// result whose generation is no longer current is discarded. Controllers are
// safe for concurrent use.
package viewstate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/okian/medalboard/pkg/logger"
	"github.com/okian/medalboard/pkg/metrics"
)

// FetchFunc loads the data for target: a page number for paginated screens,
// ignored by detail screens.
type FetchFunc[T any] func(ctx context.Context, target int) (Result[T], error)

// serverMessager is implemented by errors carrying a server-supplied message,
// such as *apiclient.Error.
type serverMessager interface {
	ServerMessage() string
}

// Controller owns the state of one screen.
type Controller[T any] struct {
	fetch FetchFunc[T]
	cfg   settings
	log   logger.Logger

	mu      sync.Mutex
	state   State[T]
	gen     uint64
	target  int
	cancel  context.CancelFunc // in-flight load of the current generation
	settled chan struct{}      // closed when the current generation settles

	base context.Context // screen context while active
	stop context.CancelFunc
	wg   sync.WaitGroup
}

// New returns a controller in its initial state: loading, no error, page 1.
func New[T any](fetch FetchFunc[T], opts ...Option) *Controller[T] {
	cfg := defaultSettings()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Controller[T]{
		fetch:  fetch,
		cfg:    cfg,
		log:    logger.OrGlobal(cfg.logger).With(logger.String("screen", cfg.name)),
		state:  State[T]{Loading: true, Page: 1, Paginated: cfg.paginated},
		target: 1,
	}
}

// Name returns the controller label.
func (c *Controller[T]) Name() string { return c.cfg.name }

// Target returns the target of the last attempted load.
func (c *Controller[T]) Target() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// Paginated reports whether Next and Prev are supported.
func (c *Controller[T]) Paginated() bool { return c.cfg.paginated }

// Load runs one load synchronously and returns the resulting state. A load
// superseded while in flight leaves the state to its successor.
func (c *Controller[T]) Load(ctx context.Context, target int) State[T] {
	c.mu.Lock()
	gen, loadCtx, cancel, done := c.beginLocked(ctx, target)
	c.mu.Unlock()

	return c.run(loadCtx, gen, target, cancel, done)
}

// Activate binds the controller to a screen context and starts the initial
// load for target in the background.
func (c *Controller[T]) Activate(parent context.Context, target int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.base != nil {
		return ErrAlreadyActive
	}
	c.base, c.stop = context.WithCancel(parent)
	c.goLocked(target)
	return nil
}

// Deactivate cancels the screen context and any pending load, then waits for
// background loads to return. Their results are discarded.
func (c *Controller[T]) Deactivate() {
	c.mu.Lock()
	if c.stop != nil {
		c.stop()
	}
	c.base, c.stop = nil, nil
	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.settled = nil
	c.mu.Unlock()

	c.wg.Wait()
}

// Go starts a background load for target on the screen context.
func (c *Controller[T]) Go(target int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.base == nil || c.base.Err() != nil {
		return ErrInactive
	}
	c.goLocked(target)
	return nil
}

// Next loads the following page; disabled unless HasNext.
func (c *Controller[T]) Next() error {
	if !c.cfg.paginated {
		return ErrNotPaginated
	}
	st := c.Snapshot()
	if !st.HasNext {
		return ErrNextDisabled
	}
	return c.Go(st.Page + 1)
}

// Prev loads the preceding page; disabled on page 1.
func (c *Controller[T]) Prev() error {
	if !c.cfg.paginated {
		return ErrNotPaginated
	}
	st := c.Snapshot()
	if st.Page <= 1 {
		return ErrPrevDisabled
	}
	return c.Go(st.Page - 1)
}

// Retry re-issues the last attempted load unchanged.
func (c *Controller[T]) Retry() error {
	c.mu.Lock()
	target := c.target
	c.mu.Unlock()
	return c.Go(target)
}

// Snapshot returns a copy of the current state.
func (c *Controller[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Wait blocks until the current load settles or ctx is done and returns the
// state at that point. It returns immediately when nothing is in flight.
func (c *Controller[T]) Wait(ctx context.Context) State[T] {
	for {
		c.mu.Lock()
		st, ch := c.state, c.settled
		c.mu.Unlock()

		if !st.Loading || ch == nil {
			return st
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return c.Snapshot()
		}
	}
}

// View resolves the current state.
func (c *Controller[T]) View() View[T] {
	return c.Resolve(c.Snapshot())
}

// Resolve applies the rendering precedence: loading, then error, then
// not-found, then ready.
func (c *Controller[T]) Resolve(st State[T]) View[T] {
	switch {
	case st.Loading:
		return View[T]{Kind: KindLoading, Message: c.cfg.loading, State: st}
	case st.Err != "":
		return View[T]{Kind: KindError, Message: st.Err, State: st}
	case c.cfg.absent != nil && c.cfg.absent(st.Data):
		return View[T]{Kind: KindNotFound, Message: c.cfg.notFound, State: st}
	default:
		return View[T]{Kind: KindReady, State: st}
	}
}

func (c *Controller[T]) goLocked(target int) {
	gen, loadCtx, cancel, done := c.beginLocked(c.base, target)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.run(loadCtx, gen, target, cancel, done)
	}()
}

// beginLocked starts a new generation, superseding the in-flight load.
func (c *Controller[T]) beginLocked(parent context.Context, target int) (uint64, context.Context, context.CancelFunc, chan struct{}) {
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	ctx, cancel := context.WithCancel(parent)
	c.cancel = cancel
	c.settled = make(chan struct{})
	c.target = target
	c.state.Loading = true
	c.state.Err = ""
	return c.gen, ctx, cancel, c.settled
}

func (c *Controller[T]) run(ctx context.Context, gen uint64, target int, cancel context.CancelFunc, done chan struct{}) State[T] {
	start := time.Now()
	res, err := c.fetch(ctx, target)
	elapsed := float64(time.Since(start).Milliseconds())

	c.mu.Lock()
	defer c.mu.Unlock()
	defer close(done)
	cancel()

	if gen != c.gen {
		metrics.RecordStaleResponse(c.cfg.name)
		c.log.Debug(ctx, "stale response discarded", logger.Int("target", target))
		return c.state
	}
	c.cancel = nil

	if err != nil {
		c.state.Err = c.message(err)
		metrics.RecordScreenLoad(c.cfg.name, "error", elapsed)
		c.log.Warn(ctx, "screen load failed", logger.Int("target", target), logger.Error(err))
	} else {
		c.state.Data = res.Data
		if c.cfg.paginated {
			c.state.HasNext = res.HasNext
			c.state.Page = target
		}
		metrics.RecordScreenLoad(c.cfg.name, "success", elapsed)
	}
	c.state.Loading = false
	return c.state
}

// message prefers the server-supplied message over the fallback.
func (c *Controller[T]) message(err error) string {
	var sm serverMessager
	if errors.As(err, &sm) {
		if msg := strings.TrimSpace(sm.ServerMessage()); msg != "" {
			return msg
		}
	}
	return c.cfg.fallback
}
