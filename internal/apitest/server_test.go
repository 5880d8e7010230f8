package apitest_test

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/medalboard/internal/apitest"
)

func get(t *testing.T, url string) (int, string, error) {
	t.Helper()
	resp, err := http.Get(url) //nolint:noctx // test helper
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b), nil
}

func TestServerFixtures(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	status, body, err := get(t, srv.BaseURL()+"/countries/?page=1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"country_name":"France"`)
	assert.Contains(t, body, `"next":"http://testserver/api/countries/?page=2"`)

	status, body, err = get(t, srv.BaseURL()+"/countries/99/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "null", body)

	status, _, err = get(t, srv.BaseURL()+"/unknown/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, status)

	assert.Equal(t, 1, srv.Hits("/countries/?page=1"))
	assert.Equal(t, 3, srv.TotalHits())
}

func TestServerFailures(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	srv.Fail("/stats/overview/", "Service indisponible")
	status, body, err := get(t, srv.BaseURL()+"/stats/overview/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"detail":"Service indisponible"}`, body)

	srv.Drop("/games/42/")
	_, _, err = get(t, srv.BaseURL()+"/games/42/")
	assert.Error(t, err)

	srv.Restore("/games/42/")
	status, _, err = get(t, srv.BaseURL()+"/games/42/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.GreaterOrEqual(t, srv.Hits("/games/42/"), 2)
}

func TestServerHold(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	release := srv.Hold()
	done := make(chan int, 1)
	go func() {
		status, _, _ := get(t, srv.BaseURL()+"/stats/overview/")
		done <- status
	}()

	select {
	case <-done:
		t.Fatal("request completed while held")
	default:
	}
	release()
	assert.Equal(t, http.StatusOK, <-done)
	release()
}
