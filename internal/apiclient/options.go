package apiclient

import (
	"context"
	"net/http"

	"github.com/okian/medalboard/pkg/logger"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. The default client has
// no timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger failures are reported to.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithErrorHook registers a callback invoked for every failed request after it
// has been logged. Cancelled requests do not reach the hook.
func WithErrorHook(hook func(ctx context.Context, err *Error)) Option {
	return func(c *Client) {
		c.onError = hook
	}
}
