// Package ops serves the operational endpoints of the dashboard: a JSON
// health check and the Prometheus scrape endpoint.
package ops

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/medalboard/pkg/metrics"
)

// StatsProvider reports runtime statistics included in the health response.
type StatsProvider interface {
	GetStats() map[string]any
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	stats   StatsProvider
	started time.Time
}

// NewHealthHandler creates a new health handler; stats may be nil.
func NewHealthHandler(stats StatsProvider) *HealthHandler {
	return &HealthHandler{stats: stats, started: time.Now()}
}

type healthResponse struct {
	Status        string         `json:"status"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	Stats         map[string]any `json:"stats,omitempty"`
}

// HandleHealth handles GET /healthz.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
	}
	if h.stats != nil {
		resp.Stats = h.stats.GetStats()
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(resp)
}

// Register attaches /healthz and /metrics to r.
func Register(r chi.Router, stats StatsProvider) {
	if r == nil {
		panic("router is nil")
	}
	r.Get("/healthz", NewHealthHandler(stats).HandleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
}
