package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/medalboard/internal/domain/model"
	"github.com/okian/medalboard/pkg/logger"
)

const testBase = "http://api.test/api"

func setupHTTPMock(t *testing.T) {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
}

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := New(testBase+"/", append([]Option{WithLogger(logger.Nop())}, opts...)...)
	require.NoError(t, err)
	return c
}

func TestNew_RejectsInvalidBaseURL(t *testing.T) {
	for _, base := range []string{"", "localhost:8000", "/api", "ftp://x/api", "http://%zz"} {
		_, err := New(base)
		require.Error(t, err, base)
		assert.ErrorIs(t, err, ErrInvalidBaseURL)
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c := newTestClient(t)
	assert.Equal(t, testBase, c.BaseURL())
}

func TestGet_SendsJSONHeaders(t *testing.T) {
	setupHTTPMock(t)

	var got http.Header
	httpmock.RegisterResponder(http.MethodGet, testBase+"/stats/overview/",
		func(req *http.Request) (*http.Response, error) {
			got = req.Header.Clone()
			return httpmock.NewStringResponse(http.StatusOK, `{"total_games":53}`), nil
		})

	c := newTestClient(t)
	resp, err := c.Get(context.Background(), "/stats/overview/")

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"total_games":53}`, string(resp.Body))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "application/json", got.Get("Accept"))
}

func TestGetJSON_DecodesPage(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder(http.MethodGet, testBase+"/countries/?page=1",
		httpmock.NewStringResponder(http.StatusOK,
			`{"results":[{"id":1,"country_name":"France","total_medals":18}],"next":"http://api.test/api/countries/?page=2"}`))

	c := newTestClient(t)
	var page model.Page[model.Country]
	err := c.GetJSON(context.Background(), "/countries/?page=1", &page)

	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "France", page.Results[0].Name)
	assert.True(t, page.HasNext())
}

func TestGetJSON_NullAndEmptyBodies(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder(http.MethodGet, testBase+"/countries/99/",
		httpmock.NewStringResponder(http.StatusOK, `null`))
	httpmock.RegisterResponder(http.MethodGet, testBase+"/countries/98/",
		httpmock.NewStringResponder(http.StatusOK, ``))

	c := newTestClient(t)

	country := &model.Country{ID: 1}
	require.NoError(t, c.GetJSON(context.Background(), "/countries/99/", &country))
	assert.Nil(t, country)

	var absent *model.Country
	require.NoError(t, c.GetJSON(context.Background(), "/countries/98/", &absent))
	assert.Nil(t, absent)
}

func TestGetJSON_DecodeFailure(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder(http.MethodGet, testBase+"/games/1/",
		httpmock.NewStringResponder(http.StatusOK, `{"id": "one"`))

	c := newTestClient(t)
	var g *model.Game
	err := c.GetJSON(context.Background(), "/games/1/", &g)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.ErrorIs(t, err, ErrDecode)
	assert.Equal(t, http.StatusOK, apiErr.StatusCode)
}

func TestGet_StatusErrorCarriesServerDetail(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder(http.MethodGet, testBase+"/games/42/",
		httpmock.NewJsonResponderOrPanic(http.StatusNotFound, map[string]string{"detail": "Pas trouvé."}))

	var hooked *Error
	c := newTestClient(t, WithErrorHook(func(_ context.Context, e *Error) { hooked = e }))
	_, err := c.Get(context.Background(), "/games/42/")

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.ErrorIs(t, err, ErrStatus)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Pas trouvé.", apiErr.ServerMessage())
	assert.JSONEq(t, `{"detail":"Pas trouvé."}`, apiErr.Payload)
	assert.Same(t, apiErr, hooked)
	assert.Contains(t, err.Error(), "status 404")
}

func TestGet_HTMLErrorPayloadIsText(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder(http.MethodGet, testBase+"/athletes/?page=1",
		func(*http.Request) (*http.Response, error) {
			resp := httpmock.NewStringResponse(http.StatusInternalServerError,
				"<html><body><h1>Server Error (500)</h1></body></html>")
			resp.Header.Set("Content-Type", "text/html; charset=utf-8")
			return resp, nil
		})

	c := newTestClient(t)
	_, err := c.Get(context.Background(), "/athletes/?page=1")

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Payload, "Server Error (500)")
	assert.NotContains(t, apiErr.Payload, "<h1>")
	assert.Empty(t, apiErr.ServerMessage())
}

func TestGet_EmptyErrorBodyUsesStatusText(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder(http.MethodGet, testBase+"/medals/",
		httpmock.NewStringResponder(http.StatusBadGateway, ""))

	c := newTestClient(t)
	_, err := c.Get(context.Background(), "/medals/")

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Bad Gateway", apiErr.Payload)
}

func TestGet_TransportError(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder(http.MethodGet, testBase+"/predictions/?page=1",
		httpmock.NewErrorResponder(errors.New("connection refused")))

	hooks := 0
	c := newTestClient(t, WithErrorHook(func(context.Context, *Error) { hooks++ }))
	_, err := c.Get(context.Background(), "/predictions/?page=1")

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, 0, apiErr.StatusCode)
	assert.Contains(t, apiErr.Payload, "connection refused")
	assert.Equal(t, 1, hooks)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestGet_CancelledRequestSkipsHook(t *testing.T) {
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return nil, r.Context().Err()
	})}

	hooks := 0
	c := newTestClient(t, WithHTTPClient(hc), WithErrorHook(func(context.Context, *Error) { hooks++ }))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Get(ctx, "/countries/top/")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, 0, hooks)
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		payload     string
		detail      string
	}{
		{"empty", "application/json", "  ", "", ""},
		{"json detail", "application/json", "{ \"detail\" : \"Non trouvé.\" }", `{"detail":"Non trouvé."}`, "Non trouvé."},
		{"json message key", "", `{"message":"down for maintenance"}`, `{"message":"down for maintenance"}`, "down for maintenance"},
		{"json error key", "application/json", `{"error":"bad page"}`, `{"error":"bad page"}`, "bad page"},
		{"json without message", "application/json", `{"page":["Invalid page."]}`, `{"page":["Invalid page."]}`, ""},
		{"plain text", "text/plain", "upstream exploded", "upstream exploded", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, detail := describe(tt.contentType, []byte(tt.body))
			assert.Equal(t, tt.payload, payload)
			assert.Equal(t, tt.detail, detail)
		})
	}
}

func TestEndpointLabel(t *testing.T) {
	assert.Equal(t, "/countries/", endpointLabel("/countries/?page=3"))
	assert.Equal(t, "/countries/{id}/", endpointLabel("/countries/42/"))
	assert.Equal(t, "/games/{id}/top_countries/", endpointLabel("/games/7/top_countries/"))
	assert.Equal(t, "/countries/top/", endpointLabel("/countries/top/"))
	assert.Equal(t, "/stats/overview/", endpointLabel("/stats/overview/"))
	assert.Equal(t, "/medals/", endpointLabel("/medals/?country=1&page=2"))
	assert.Equal(t, "/{other}/", endpointLabel("/wp-admin/"))
}

func TestEndpointLabelFreeFormIDs(t *testing.T) {
	labels := map[string]bool{}
	for _, id := range []string{"abc", "x1", "zzz-9", "hello world", "42"} {
		labels[endpointLabel("/countries/"+url.PathEscape(id)+"/")] = true
	}
	assert.Equal(t, map[string]bool{"/countries/{id}/": true}, labels)
	assert.Equal(t, "/games/{id}/top_countries/", endpointLabel("/games/paris-2024/top_countries/"))
	assert.Equal(t, "/athletes/{id}/", endpointLabel("/athletes/%C3%A9lodie/"))
}

func TestTruncate(t *testing.T) {
	long := make([]byte, maxPayloadLen+10)
	for i := range long {
		long[i] = 'x'
	}
	assert.Len(t, truncate(string(long)), maxPayloadLen+3)
	assert.Equal(t, "short", truncate("short"))

	accented := "x" + strings.Repeat("é", maxPayloadLen)
	cut := truncate(accented)
	assert.True(t, utf8.ValidString(cut))
	assert.True(t, strings.HasSuffix(cut, "..."))
	assert.LessOrEqual(t, len(cut), maxPayloadLen+3)
}
