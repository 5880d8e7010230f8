// Package apitest serves a fake medals API over HTTP for tests and local
// development. Responses are canned JSON bodies keyed by request path and
// query; individual paths can be made to fail or drop the connection.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Prefix is the path under which the fake API is mounted.
const Prefix = "/api"

type reply struct {
	status int
	body   string
}

// API is the fake medals API. The zero value is not usable; call NewAPI.
type API struct {
	mu      sync.Mutex
	replies map[string]reply
	dropped map[string]bool
	hits    map[string]int
	gate    chan struct{}
}

// NewAPI returns an API answering with DefaultFixtures.
func NewAPI() *API {
	a := &API{
		replies: make(map[string]reply),
		dropped: make(map[string]bool),
		hits:    make(map[string]int),
	}
	for path, body := range DefaultFixtures() {
		a.replies[path] = reply{status: http.StatusOK, body: body}
	}
	return a
}

// Handler returns the chi router serving every fixture under Prefix.
func (a *API) Handler() http.Handler {
	r := chi.NewRouter()
	r.Route(Prefix, func(r chi.Router) {
		r.Get("/*", a.serve)
	})
	return r
}

// Set answers GET path (including any query) with status and body.
func (a *API) Set(path string, status int, body string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.dropped, path)
	a.replies[path] = reply{status: status, body: body}
}

// Fail answers path with a 500 carrying detail, or an empty body when detail
// is empty.
func (a *API) Fail(path, detail string) {
	body := ""
	if detail != "" {
		body = `{"detail":"` + detail + `"}`
	}
	a.Set(path, http.StatusInternalServerError, body)
}

// Drop closes the connection without a response for path, which clients see
// as a network error.
func (a *API) Drop(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.dropped[path] = true
}

// Restore serves path from DefaultFixtures again.
func (a *API) Restore(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.dropped, path)
	if body, ok := DefaultFixtures()[path]; ok {
		a.replies[path] = reply{status: http.StatusOK, body: body}
		return
	}
	delete(a.replies, path)
}

// Hold blocks every request until the returned release func is called.
func (a *API) Hold() (release func()) {
	gate := make(chan struct{})
	a.mu.Lock()
	prev := a.gate
	a.gate = gate
	a.mu.Unlock()
	if prev != nil {
		close(prev)
	}
	return func() { a.release(gate) }
}

// release opens gate if it is still the current one.
func (a *API) release(gate chan struct{}) {
	a.mu.Lock()
	if a.gate != gate || gate == nil {
		a.mu.Unlock()
		return
	}
	a.gate = nil
	a.mu.Unlock()
	close(gate)
}

// Hits returns how many requests path has received.
func (a *API) Hits(path string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hits[path]
}

// TotalHits returns the number of requests received on any path.
func (a *API) TotalHits() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, h := range a.hits {
		n += h
	}
	return n
}

func (a *API) serve(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, Prefix)
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.RawQuery
	}

	a.mu.Lock()
	a.hits[key]++
	gate := a.gate
	drop := a.dropped[key]
	rep, ok := a.replies[key]
	a.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}

	if drop {
		if hj, ok := w.(http.Hijacker); ok {
			if conn, _, err := hj.Hijack(); err == nil {
				_ = conn.Close()
				return
			}
		}
		panic(http.ErrAbortHandler)
	}

	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Not found."}`))
		return
	}
	if rep.body != "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(rep.status)
	_, _ = w.Write([]byte(rep.body))
}

// Server is an API listening on a local httptest server.
type Server struct {
	*API
	srv *httptest.Server
}

// NewServer starts an API on a random local port.
func NewServer() *Server {
	api := NewAPI()
	return &Server{API: api, srv: httptest.NewServer(api.Handler())}
}

// BaseURL is the value to configure as the API base URL.
func (s *Server) BaseURL() string { return s.srv.URL + Prefix }

// Close shuts the server down, releasing any held requests first.
func (s *Server) Close() {
	s.mu.Lock()
	gate := s.gate
	s.mu.Unlock()
	s.release(gate)
	s.srv.CloseClientConnections()
	s.srv.Close()
}
