// Package site is the navigation shell: it maps routes to screens, keeps one
// mounted screen per browser session and renders its current frame.
//
// A GET mounts the route's screen (replacing the session's previous one),
// waits briefly for the load to settle and renders whatever frame results.
// Loading frames refresh themselves. Pagination and retry are POSTed back to
// the route and answered with a redirect to the GET of the resulting page.
package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/okian/medalboard/internal/presentation"
	"github.com/okian/medalboard/internal/screens"
	"github.com/okian/medalboard/internal/session"
	"github.com/okian/medalboard/internal/viewstate"
	"github.com/okian/medalboard/pkg/logger"
)

// build returns the screen for a request; page is the initial target.
type build func(r *http.Request, page int) screens.Screen

// Handler serves the dashboard.
type Handler struct {
	factory  *screens.Factory
	store    *session.Store
	renderer *presentation.Renderer

	renderWait time.Duration
	refresh    int
	secure     bool
	log        logger.Logger
}

// New returns a Handler.
func New(factory *screens.Factory, store *session.Store, renderer *presentation.Renderer, opts ...Option) *Handler {
	h := &Handler{
		factory:    factory,
		store:      store,
		renderer:   renderer,
		renderWait: defaultRenderWait,
		refresh:    defaultRefresh,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.log == nil {
		h.log = logger.OrGlobal(nil).Named("site")
	}
	return h
}

// Register attaches the screen routes and static assets to r.
func (h *Handler) Register(r chi.Router) {
	if r == nil {
		panic("router is nil")
	}

	f := h.factory
	routes := []struct {
		pattern string
		build   build
	}{
		{"/", func(*http.Request, int) screens.Screen { return f.Home() }},
		{"/countries", func(_ *http.Request, page int) screens.Screen { return f.Countries(page) }},
		{"/countries/{id}", func(r *http.Request, _ int) screens.Screen { return f.Country(chi.URLParam(r, "id")) }},
		{"/games", func(_ *http.Request, page int) screens.Screen { return f.Games(page) }},
		{"/games/{id}", func(r *http.Request, _ int) screens.Screen { return f.Game(chi.URLParam(r, "id")) }},
		{"/athletes", func(_ *http.Request, page int) screens.Screen { return f.Athletes(page) }},
		{"/athletes/{id}", func(r *http.Request, _ int) screens.Screen { return f.Athlete(chi.URLParam(r, "id")) }},
		{"/predictions", func(_ *http.Request, page int) screens.Screen { return f.Predictions(page) }},
		{"/medals", func(r *http.Request, page int) screens.Screen {
			return f.Medals(screens.ParseMedalFilter(r.URL.Query()), page)
		}},
	}
	for _, rt := range routes {
		r.Get(rt.pattern, h.show(rt.build))
		r.Post(rt.pattern, h.act(rt.build))
	}
	r.Handle("/static/*", http.StripPrefix("/static/", presentation.Static()))
}

// show handles GET: mount, wait, render.
func (h *Handler) show(b build) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sess, err := h.session(w, r)
		if err != nil {
			h.fail(w, r, http.StatusServiceUnavailable, err)
			return
		}

		page, explicit := pageParam(r)
		scr, fresh, err := sess.Mount(b(r, page))
		if err != nil {
			h.fail(w, r, http.StatusServiceUnavailable, fmt.Errorf("%w: %w", ErrMount, err))
			return
		}
		if !fresh && explicit && scr.Paginated() && page != scr.Target() {
			if err := scr.Goto(page); err != nil {
				h.log.Debug(ctx, "page change ignored", logger.Int("page", page), logger.Error(err))
			}
		}

		if h.renderWait > 0 {
			waitCtx, cancel := context.WithTimeout(ctx, h.renderWait)
			scr.Await(waitCtx)
			cancel()
		}

		h.render(w, r, scr)
	}
}

// act handles POST action=prev|next|retry on the mounted screen.
func (h *Handler) act(b build) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if err := r.ParseForm(); err != nil {
			h.fail(w, r, http.StatusBadRequest, err)
			return
		}
		action := r.PostForm.Get("action")
		candidate := b(r, 1)
		location := candidate.Key()

		sess, ok := h.lookup(r)
		if !ok {
			http.Redirect(w, r, location, http.StatusSeeOther)
			return
		}
		scr, err := sess.Current(candidate.Key())
		if err != nil {
			http.Redirect(w, r, location, http.StatusSeeOther)
			return
		}

		switch action {
		case "prev":
			err = scr.Prev()
		case "next":
			err = scr.Next()
		case "retry":
			err = scr.Retry()
		default:
			h.fail(w, r, http.StatusBadRequest, fmt.Errorf("%w: %q", ErrUnknownAction, action))
			return
		}
		if err != nil {
			h.log.Debug(ctx, "action ignored", logger.String("action", action), logger.String("screen", scr.Key()), logger.Error(err))
		}

		if scr.Paginated() {
			location = withPage(location, scr.Target())
		}
		http.Redirect(w, r, location, http.StatusSeeOther)
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, scr screens.Screen) {
	frame := scr.Frame()
	meta := scr.Meta()
	p := presentation.Page{
		Title:  meta.Title,
		Nav:    meta.Nav,
		Action: scr.Key(),
		Frame:  frame,
	}
	if frame.IsLoading() {
		p.Refresh = h.refresh
	}
	if meta.Nav == "medals" {
		p.Filter = screens.ParseMedalFilter(r.URL.Query()).Params()
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, meta.Template, p); err != nil {
		h.fail(w, r, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(frameStatus(frame))
	_, _ = buf.WriteTo(w)
}

func frameStatus(f presentation.Frame) int {
	switch f.Kind {
	case viewstate.KindNotFound:
		return http.StatusNotFound
	case viewstate.KindError:
		return http.StatusBadGateway
	default:
		return http.StatusOK
	}
}

// session returns the request's session, issuing a cookie for new ones.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*session.Session, error) {
	var id string
	if c, err := r.Cookie(CookieName); err == nil {
		id = c.Value
	}
	sess, created, err := h.store.Acquire(id)
	if err != nil {
		return nil, err
	}
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    sess.ID(),
			Path:     "/",
			HttpOnly: true,
			Secure:   h.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess, nil
}

func (h *Handler) lookup(r *http.Request) (*session.Session, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return nil, false
	}
	return h.store.Lookup(c.Value)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError || errors.Is(err, session.ErrClosed) {
		h.log.Error(r.Context(), "request failed", logger.String("path", r.URL.Path), logger.Int("status", status), logger.Error(err))
	} else {
		h.log.Debug(r.Context(), "bad request", logger.String("path", r.URL.Path), logger.Error(err))
	}
	http.Error(w, http.StatusText(status), status)
}

// pageParam reads ?page=N. Invalid or missing values yield page 1 and
// explicit=false.
func pageParam(r *http.Request) (page int, explicit bool) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1, false
	}
	return n, true
}

func withPage(location string, page int) string {
	sep := "?"
	if strings.Contains(location, "?") {
		sep = "&"
	}
	return location + sep + "page=" + strconv.Itoa(page)
}
