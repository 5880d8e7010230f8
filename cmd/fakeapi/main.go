// Command fakeapi serves the canned medals API used by the tests, so the
// dashboard can be run locally without the real backend:
//
//	go run ./cmd/fakeapi -addr :8000
//	MEDALBOARD_API_BASE_URL=http://localhost:8000/api go run ./cmd
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/okian/medalboard/internal/apitest"
	"github.com/okian/medalboard/pkg/logger"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

func main() {
	var (
		addr    = flag.String("addr", ":8000", "Listen address")
		verbose = flag.Bool("verbose", false, "Log every request")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Named("fakeapi")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler := apitest.NewAPI().Handler()
	if *verbose {
		handler = middleware.Logger(handler)
	}
	srv := &http.Server{Addr: *addr, Handler: handler, ReadHeaderTimeout: readHeaderTimeout}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info(ctx, "serving fake medals API", logger.String("addr", *addr), logger.String("prefix", apitest.Prefix))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error(ctx, "fake API failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
}
