package respserver

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/gridmap-go/internal/core/service"
	"github.com/yndnr/gridmap-go/internal/server/config"
	"github.com/yndnr/gridmap-go/internal/telemetry/logger"
	"github.com/yndnr/gridmap-go/internal/telemetry/metric"
)

// Default connection deadlines, used when the config leaves them zero.
const (
	defaultReadTimeout  = 30 * time.Second
	defaultWriteTimeout = 30 * time.Second
	defaultIdleTimeout  = 5 * time.Minute
)

// Server accepts RESP connections and serves GridMap commands.
//
// @design DS-0401
type Server struct {
	cfg     config.RespConfig
	handler *Handler
	log     logger.Logger
	metrics *metric.Registry
	limiter *ipLimiter

	ln      net.Listener
	wg      sync.WaitGroup
	running atomic.Bool
}

// New creates a RESP server. metrics may be nil.
func New(cfg config.RespConfig, svc *service.KVService, log logger.Logger, metrics *metric.Registry) *Server {
	if log == nil {
		log = logger.Default()
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = defaultIdleTimeout
	}
	return &Server{
		cfg:     cfg,
		handler: NewHandler(svc, log, cfg.AuthPassword),
		log:     log.With("component", "respserver"),
		metrics: metrics,
		limiter: newIPLimiter(cfg.RateLimit),
	}
}

// Start binds the listener and begins accepting connections. It returns
// once the listener is bound; serving continues in the background until
// Shutdown or ctx cancellation.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.running.Store(true)

	s.log.Info("resp server listening", "addr", ln.Addr().String(), "auth", s.cfg.AuthPassword != "")

	s.wg.Add(1)
	go s.acceptLoop(ctx)

	go func() {
		<-ctx.Done()
		if s.running.CompareAndSwap(true, false) {
			_ = s.ln.Close()
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

func (s *Server) acceptLoop(ctx context.Context) {
	defer s.wg.Done()

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			s.log.Warn("accept failed", "error", err)
			continue
		}

		s.wg.Add(1)
		go s.serveConn(ctx, conn)
	}
}

func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	connID := ulid.Make().String()
	remote := conn.RemoteAddr().String()
	ip := remoteIP(remote)

	log := s.log.With("conn_id", connID, "remote", remote)
	ctx = logger.WithConnID(ctx, connID)

	if s.metrics != nil {
		s.metrics.ConnectionsActive.Inc()
		defer s.metrics.ConnectionsActive.Dec()
	}
	log.Debug("connection opened")

	r := bufio.NewReader(conn)
	w := bufio.NewWriter(conn)
	sess := &session{}

	for {
		if ctx.Err() != nil {
			return
		}

		_ = conn.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout))
		args, err := ReadCommand(r)
		if err != nil {
			if !isExpectedClose(err) {
				_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
				_ = WriteError(w, "ERR "+sanitize(err.Error()))
				_ = w.Flush()
				log.Debug("read failed", "error", err)
			}
			return
		}
		if len(args) == 0 {
			continue
		}

		// Once a command header has arrived, the rest must follow promptly.
		_ = conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))

		if !s.limiter.allow(ip) {
			log.Warn("rate limit exceeded", "ip", ip)
			_ = WriteError(w, "ERR GM-RATE-4290 rate limit exceeded")
			_ = w.Flush()
			continue
		}

		closeConn, err := s.handler.Handle(ctx, w, sess, args)
		if ferr := w.Flush(); err == nil {
			err = ferr
		}
		if err != nil {
			log.Debug("write failed", "error", err)
			return
		}
		if closeConn {
			log.Debug("connection closed by client")
			return
		}
	}
}

// Shutdown stops accepting connections and waits for in-flight
// connections to finish, up to ctx's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.running.CompareAndSwap(true, false) {
		if s.ln != nil {
			_ = s.ln.Close()
		}
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.log.Info("resp server stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func remoteIP(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

func isExpectedClose(err error) bool {
	if errors.Is(err, net.ErrClosed) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	// EOF is the normal way clients hang up.
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
