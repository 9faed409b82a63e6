// Package metrics serves the Prometheus scrape endpoint while a run is in
// flight.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server exposes /healthz and /metrics over an injected registry. It is
// optional; runs without a configured listen address never construct one.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	logger     *zap.Logger
}

// NewServer binds the listen address immediately so configuration errors
// surface before any pages are fetched. Serving starts with Start.
func NewServer(addr string, reg *prometheus.Registry, logger *zap.Logger) (*Server, error) {
	if addr == "" {
		return nil, errors.New("listen address is required")
	}
	if reg == nil {
		return nil, errors.New("registry is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return &Server{
		httpServer: &http.Server{
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		listener: listener,
		logger:   logger,
	}, nil
}

// Addr reports the bound listen address.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Start serves in a background goroutine and returns immediately.
func (s *Server) Start() {
	s.logger.Info("metrics server listening", zap.String("addr", s.Addr()))
	go func() {
		if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server failed", zap.Error(err))
		}
	}()
}

// Shutdown drains in-flight requests and closes the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown metrics server: %w", err)
	}
	return nil
}
