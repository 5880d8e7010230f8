package site

import (
	"time"

	"github.com/okian/medalboard/pkg/logger"
)

const (
	defaultRenderWait = 1500 * time.Millisecond
	defaultRefresh    = 1
	// CookieName carries the session id.
	CookieName = "medalboard_session"
)

// Option configures a Handler.
type Option func(*Handler)

// WithRenderWait bounds how long a GET waits for the screen's load to settle
// before rendering the loading frame. Zero renders immediately.
func WithRenderWait(d time.Duration) Option {
	return func(h *Handler) {
		if d >= 0 {
			h.renderWait = d
		}
	}
}

// WithLoadingRefresh sets the meta refresh interval of loading frames.
func WithLoadingRefresh(seconds int) Option {
	return func(h *Handler) {
		if seconds > 0 {
			h.refresh = seconds
		}
	}
}

// WithSecureCookie marks the session cookie Secure.
func WithSecureCookie(secure bool) Option {
	return func(h *Handler) { h.secure = secure }
}

func WithLogger(l logger.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}
