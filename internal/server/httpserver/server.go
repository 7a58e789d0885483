package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/yndnr/gridmap-go/internal/core/service"
	"github.com/yndnr/gridmap-go/internal/server/config"
	"github.com/yndnr/gridmap-go/internal/telemetry/logger"
	"github.com/yndnr/gridmap-go/internal/telemetry/metric"
)

// Server wraps an http.Server with the admin routes mounted.
//
// @design DS-0501
type Server struct {
	cfg  config.HTTPConfig
	log  logger.Logger
	http *http.Server
	ln   net.Listener
}

// New creates the admin HTTP server. metrics may be nil, in which case
// /metrics responds 404.
func New(cfg config.HTTPConfig, svc *service.KVService, log logger.Logger, metrics *metric.Registry) *Server {
	if log == nil {
		log = logger.Default()
	}
	log = log.With("component", "httpserver")

	mux := newRouter(svc, metrics)
	handler := Chain(mux,
		Recover(log),
		RequestID(),
		RateLimit(cfg.RateLimit, log),
		AccessLog(log, metrics),
	)

	return &Server{
		cfg: cfg,
		log: log,
		http: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
	}
}

// Start binds the listener and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.http.BaseContext = func(net.Listener) context.Context { return ctx }

	s.log.Info("http server listening", "addr", ln.Addr().String())

	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("http server failed", "error", err)
		}
	}()

	return nil
}

// Addr returns the bound listener address, for tests using port 0.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	if err == nil {
		s.log.Info("http server stopped")
	}
	return err
}
