// Package screens instantiates one view-state controller per routed screen
// and exposes it to the navigation shell behind a single interface.
package screens

import (
	"context"

	"github.com/okian/medalboard/internal/presentation"
	"github.com/okian/medalboard/internal/resources"
	"github.com/okian/medalboard/internal/viewstate"
	"github.com/okian/medalboard/pkg/logger"
)

// Meta describes how a screen is presented.
type Meta struct {
	Title    string
	Template string
	// Nav is the active navbar entry.
	Nav string
}

// Screen is one routed view backed by one controller.
type Screen interface {
	// Key is the canonical route of the screen, including the entity id or
	// filters but never the page. Two requests with the same key share a screen.
	Key() string
	Meta() Meta
	Paginated() bool

	// Activate starts the initial load bound to ctx; Deactivate cancels it.
	Activate(ctx context.Context) error
	Deactivate()
	// Await blocks until the current load settles or ctx is done.
	Await(ctx context.Context)

	// Target is the page of the last attempted load.
	Target() int
	Goto(target int) error
	Next() error
	Prev() error
	Retry() error

	Frame() presentation.Frame
}

// screen adapts a Controller to Screen.
type screen[T any] struct {
	key     string
	meta    Meta
	initial int
	ctrl    *viewstate.Controller[T]
}

func (s *screen[T]) Key() string     { return s.key }
func (s *screen[T]) Meta() Meta      { return s.meta }
func (s *screen[T]) Paginated() bool { return s.ctrl.Paginated() }
func (s *screen[T]) Target() int     { return s.ctrl.Target() }
func (s *screen[T]) Next() error     { return s.ctrl.Next() }
func (s *screen[T]) Prev() error     { return s.ctrl.Prev() }
func (s *screen[T]) Retry() error    { return s.ctrl.Retry() }
func (s *screen[T]) Deactivate()     { s.ctrl.Deactivate() }

func (s *screen[T]) Activate(ctx context.Context) error {
	return s.ctrl.Activate(ctx, s.initial)
}

func (s *screen[T]) Await(ctx context.Context) {
	s.ctrl.Wait(ctx)
}

// Goto loads page target; screens without pagination ignore it.
func (s *screen[T]) Goto(target int) error {
	if !s.ctrl.Paginated() {
		return viewstate.ErrNotPaginated
	}
	if target < 1 {
		target = 1
	}
	return s.ctrl.Go(target)
}

func (s *screen[T]) Frame() presentation.Frame {
	return presentation.FrameOf(s.ctrl.View())
}

// Factory builds screens over a resource set.
type Factory struct {
	set *resources.Set
	log logger.Logger
}

// NewFactory returns a Factory; log may be nil.
func NewFactory(set *resources.Set, log logger.Logger) *Factory {
	return &Factory{set: set, log: logger.OrGlobal(log)}
}

func newScreen[T any](f *Factory, key string, meta Meta, initial int, fetch viewstate.FetchFunc[T], opts ...viewstate.Option) *screen[T] {
	if initial < 1 {
		initial = 1
	}
	opts = append([]viewstate.Option{viewstate.WithLogger(f.log)}, opts...)
	return &screen[T]{
		key:     key,
		meta:    meta,
		initial: initial,
		ctrl:    viewstate.New(fetch, opts...),
	}
}
