package ops

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/medalboard/pkg/metrics"
)

type fixedStats map[string]any

func (s fixedStats) GetStats() map[string]any { return s }

func TestHealth(t *testing.T) {
	Convey("Given the ops routes", t, func() {
		r := chi.NewRouter()
		r.Use(MetricsMiddleware)
		Register(r, fixedStats{"active_sessions": 3})

		Convey("When requesting /healthz", func() {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			Convey("Then a JSON status with stats is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")

				var body struct {
					Status string         `json:"status"`
					Stats  map[string]any `json:"stats"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.Status, ShouldEqual, "ok")
				So(body.Stats["active_sessions"], ShouldEqual, 3.0)
			})
		})

		Convey("When requesting /metrics after a request", func() {
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			Convey("Then the custom registry is exposed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "medalboard_dashboard_http_requests_total")
				So(w.Body.String(), ShouldContainSubstring, `endpoint="/healthz"`)
			})
		})
	})
}

func TestMetricsMiddleware(t *testing.T) {
	Convey("Given a router with the metrics middleware", t, func() {
		r := chi.NewRouter()
		r.Use(MetricsMiddleware)
		r.Get("/countries/{id}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		Convey("When a parameterized route answers 404", func() {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/countries/99", nil))

			Convey("Then the status passes through and the error is recorded by pattern", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				n, err := testutil.GatherAndCount(metrics.GetRegistry(), "medalboard_dashboard_errors_by_endpoint_total")
				So(err, ShouldBeNil)
				So(n, ShouldBeGreaterThan, 0)
			})
		})
	})

	Convey("Given status codes", t, func() {
		So(getErrorType(http.StatusBadGateway), ShouldEqual, "upstream")
		So(getErrorType(http.StatusInternalServerError), ShouldEqual, "server_error")
		So(getErrorType(http.StatusNotFound), ShouldEqual, "not_found")
		So(getErrorType(http.StatusBadRequest), ShouldEqual, "client_error")
		So(getErrorType(http.StatusOK), ShouldEqual, "unknown")
		So(getErrorSeverity(http.StatusServiceUnavailable), ShouldEqual, "high")
		So(getErrorSeverity(http.StatusNotFound), ShouldEqual, "medium")
		So(getErrorSeverity(http.StatusOK), ShouldEqual, "low")
	})
}
