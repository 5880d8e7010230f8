// Package apiclient is the single HTTP client of the medals REST API.
//
// All requests are GETs against a fixed base URL with JSON content headers.
// Failures are logged, handed to an optional hook and returned unchanged as
// *Error; nothing is retried.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/antonholmquist/jason"
	"github.com/k3a/html2text"

	"github.com/okian/medalboard/pkg/logger"
	"github.com/okian/medalboard/pkg/metrics"
)

const (
	contentTypeJSON = "application/json"
	maxPayloadLen   = 2048
)

// detailKeys are tried in order for a server-supplied message.
var detailKeys = []string{"detail", "message", "error"} //nolint:gochecknoglobals // lookup table

// Client issues requests against the medals API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  logger.Logger
	onError func(ctx context.Context, err *Error)
}

// Response is a successful (2xx) API response with its body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// New returns a client for baseURL, e.g. "http://localhost:8000/api".
// Request paths are appended to it verbatim.
func New(baseURL string, opts ...Option) (*Client, error) {
	const op = "apiclient.New"

	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%s: %w: %q", op, ErrInvalidBaseURL, baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.OrGlobal(nil).Named("apiclient")
	}
	return c, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Get performs GET baseURL+path. Non-2xx responses and transport failures
// are returned as *Error.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	endpoint := endpointLabel(path)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, c.fail(ctx, &Error{
			Method:  http.MethodGet,
			Path:    path,
			Payload: err.Error(),
			Err:     fmt.Errorf("%w: %w", ErrTransport, err),
		})
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("Accept", contentTypeJSON)

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest(endpoint, "0")
		return nil, c.fail(ctx, &Error{
			Method:  http.MethodGet,
			Path:    path,
			Payload: transportMessage(err),
			Err:     fmt.Errorf("%w: %w", ErrTransport, err),
		})
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	metrics.RecordUpstreamRequest(endpoint, strconv.Itoa(resp.StatusCode))
	metrics.RecordUpstreamLatency(endpoint, float64(time.Since(start).Milliseconds()))
	if err != nil {
		return nil, c.fail(ctx, &Error{
			Method:     http.MethodGet,
			Path:       path,
			StatusCode: resp.StatusCode,
			Payload:    err.Error(),
			Err:        fmt.Errorf("%w: %w", ErrTransport, err),
		})
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		payload, detail := describe(resp.Header.Get("Content-Type"), body)
		if payload == "" {
			payload = http.StatusText(resp.StatusCode)
		}
		return nil, c.fail(ctx, &Error{
			Method:     http.MethodGet,
			Path:       path,
			StatusCode: resp.StatusCode,
			Payload:    payload,
			Detail:     detail,
			Err:        ErrStatus,
		})
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

// GetJSON performs Get and decodes the body into v. An empty body leaves v
// untouched and a JSON null sets a pointer target to nil; callers treat both
// as an absent entity.
func (c *Client) GetJSON(ctx context.Context, path string, v any) error {
	resp, err := c.Get(ctx, path)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return c.fail(ctx, &Error{
			Method:     http.MethodGet,
			Path:       path,
			StatusCode: resp.StatusCode,
			Payload:    truncate(string(resp.Body)),
			Err:        fmt.Errorf("%w: %w", ErrDecode, err),
		})
	}
	return nil
}

// fail logs e, notifies the hook and returns e. Requests cancelled by the
// caller are expected when a newer load supersedes them and are only logged
// at debug level.
func (c *Client) fail(ctx context.Context, e *Error) error {
	fields := []logger.Field{
		logger.String("method", e.Method),
		logger.String("path", e.Path),
		logger.Int("status", e.StatusCode),
		logger.String("payload", e.Payload),
		logger.Error(e.Err),
	}
	if errors.Is(e.Err, context.Canceled) {
		c.logger.Debug(ctx, "api request cancelled", fields...)
		return e
	}

	metrics.RecordUpstreamError(endpointLabel(e.Path), e.kind())
	c.logger.Error(ctx, "api error", fields...)
	if c.onError != nil {
		c.onError(ctx, e)
	}
	return e
}

// describe returns the display payload and the server message of an error body.
func describe(contentType string, body []byte) (payload, detail string) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return "", ""
	}

	if strings.Contains(contentType, "json") || json.Valid(trimmed) {
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err == nil {
			return truncate(buf.String()), serverDetail(trimmed)
		}
	}

	if strings.Contains(contentType, "html") || trimmed[0] == '<' {
		return truncate(strings.TrimSpace(html2text.HTML2Text(string(trimmed)))), ""
	}

	return truncate(string(trimmed)), ""
}

// serverDetail extracts the first string message under detailKeys.
func serverDetail(body []byte) string {
	obj, err := jason.NewObjectFromBytes(body)
	if err != nil {
		return ""
	}
	for _, key := range detailKeys {
		if s, err := obj.GetString(key); err == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func transportMessage(err error) string {
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Err != nil {
		return uerr.Err.Error()
	}
	return err.Error()
}

func truncate(s string) string {
	if len(s) <= maxPayloadLen {
		return s
	}
	cut := maxPayloadLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// collections are the top-level resources of the API.
var collections = map[string]bool{ //nolint:gochecknoglobals // lookup table
	"countries":   true,
	"games":       true,
	"athletes":    true,
	"medals":      true,
	"predictions": true,
	"stats":       true,
}

// fixedSegments are the named sub-resources kept verbatim in labels.
var fixedSegments = map[string]bool{ //nolint:gochecknoglobals // lookup table
	"top":           true,
	"top_countries": true,
	"overview":      true,
}

// endpointLabel maps a request path to a bounded metrics label: the query is
// dropped, unknown collections become {other} and every segment that is not a
// named sub-resource becomes {id}.
func endpointLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	segs := strings.Split(path, "/")
	first := true
	for i, s := range segs {
		if s == "" {
			continue
		}
		switch {
		case first:
			if !collections[s] {
				segs[i] = "{other}"
			}
			first = false
		case !fixedSegments[s]:
			segs[i] = "{id}"
		}
	}
	return strings.Join(segs, "/")
}
