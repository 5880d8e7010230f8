package service_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	. "github.com/smartystreets/goconvey/convey"

	service "github.com/okian/medalboard/internal/app"
	"github.com/okian/medalboard/internal/apiclient"
	"github.com/okian/medalboard/internal/apitest"
	"github.com/okian/medalboard/internal/config"
	"github.com/okian/medalboard/pkg/logger"
)

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it reports sensible defaults without being started", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldBeFalse)
			So(stats["api_base_url"], ShouldEqual, config.DefaultAPIBaseURL)
			So(stats["locale"], ShouldEqual, "fr-FR")
			So(stats, ShouldNotContainKey, "active_sessions")
		})

		Convey("And Register is refused", func() {
			So(svc.Register(chi.NewRouter()), ShouldEqual, service.ErrNotStarted)
		})
	})

	Convey("Given options built from a configuration", t, func() {
		cfg := config.New(context.Background())
		cfg.APIBaseURL = "https://api.example.org/api"
		cfg.MaxSessions = 5
		svc := service.New(service.FromConfig(cfg)...)

		Convey("Then they are applied", func() {
			stats := svc.GetStats()
			So(stats["api_base_url"], ShouldEqual, "https://api.example.org/api")
			So(stats["max_sessions"], ShouldEqual, 5)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given an invalid API base URL", t, func() {
		svc := service.New(service.WithAPIBaseURL("localhost:8000"), service.WithLogger(logger.Nop()))

		Convey("Then Start fails", func() {
			err := svc.Start(context.Background())
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "invalid base url")
		})
	})

	Convey("Given an invalid locale", t, func() {
		svc := service.New(service.WithLocale("not a locale"), service.WithLogger(logger.Nop()))

		Convey("Then Start fails", func() {
			So(svc.Start(context.Background()), ShouldNotBeNil)
		})
	})
}

func TestService_Serve(t *testing.T) {
	Convey("Given a started service over a fake API", t, func() {
		api := apitest.NewServer()
		defer api.Close()

		var (
			mu     sync.Mutex
			failed []string
		)
		svc := service.New(
			service.WithAPIBaseURL(api.BaseURL()),
			service.WithRenderWait(5*time.Second),
			service.WithSweepInterval(time.Hour),
			service.WithHTTPClient(&http.Client{Timeout: 10 * time.Second}),
			service.WithErrorHook(func(_ context.Context, err *apiclient.Error) {
				mu.Lock()
				failed = append(failed, err.Path)
				mu.Unlock()
			}),
			service.WithLogger(logger.Nop()),
		)
		So(svc.Start(context.Background()), ShouldBeNil)
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		r := chi.NewRouter()
		So(svc.Register(r), ShouldBeNil)
		srv := httptest.NewServer(r)
		defer srv.Close()

		Convey("When a browser opens the home page", func() {
			resp, err := http.Get(srv.URL + "/")
			So(err, ShouldBeNil)
			body, _ := io.ReadAll(resp.Body)
			_ = resp.Body.Close()

			Convey("Then it is rendered and the session is counted", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(string(body), ShouldContainSubstring, "France")
				So(svc.GetStats()["active_sessions"], ShouldEqual, 1)
			})
		})

		Convey("When an API request fails", func() {
			api.Fail("/athletes/?page=1", "")
			resp, err := http.Get(srv.URL + "/athletes")
			So(err, ShouldBeNil)
			_ = resp.Body.Close()

			Convey("Then the error hook receives it", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadGateway)
				mu.Lock()
				defer mu.Unlock()
				So(failed, ShouldContain, "/athletes/?page=1")
			})
		})

		Convey("When checking health", func() {
			resp, err := http.Get(srv.URL + "/healthz")
			So(err, ShouldBeNil)
			_ = resp.Body.Close()

			Convey("Then it answers", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When stopped twice", func() {
			svc.Stop()
			svc.Stop()

			Convey("Then it reports stopped", func() {
				So(svc.GetStats()["started"], ShouldBeFalse)
			})
		})
	})
}
