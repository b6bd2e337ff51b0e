// Package server exposes run histories and run report files over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rusalad/rusalad/internal/contract"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// shutdownTimeout bounds how long in-flight requests may run after the context ends.
const shutdownTimeout = 5 * time.Second

// Server serves the history and report file endpoints.
type Server struct {
	cfg    *contract.Config
	fs     afero.Fs
	mgr    contract.StoreManager
	router *instrumentationWrapper
}

// New builds a Server reading run directories from fs.
func New(cfg *contract.Config, fs afero.Fs, mgr contract.StoreManager) *Server {
	s := &Server{
		cfg:    cfg,
		fs:     fs,
		mgr:    mgr,
		router: newInstrumentedRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.RedirectTrailingSlash = false
	s.router.GET("/healthz", simpleLoggingWrapper(healthHandler))
	s.router.Router.Handler(http.MethodGet, "/metrics", promhttp.Handler())
	s.router.GET("/runs/:id/history", loggingWrapper(s.historyHandler))
	s.router.GET("/runs/:id/files/*path", loggingWrapper(s.fileHandler))
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on cfg.ListenAddr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("addr", srv.Addr).Info("Serving run histories")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	}
}

func healthHandler(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.WriteHeader(http.StatusOK)
}
