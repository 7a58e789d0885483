package httpserver

import (
	"net"
	"net/http"
	"strconv"
	"sync"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/gridmap-go/internal/core/domain"
	"github.com/yndnr/gridmap-go/internal/telemetry/logger"
	"github.com/yndnr/gridmap-go/internal/telemetry/metric"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares so the first listed runs outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Recover converts panics in handlers into 500 responses.
func Recover(log logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("handler panic", "panic", rec, "path", r.URL.Path)
					writeError(w, http.StatusInternalServerError, "GM-SYS-5000", "internal error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequestID assigns each request a ULID, echoed in X-Request-Id and
// attached to the request context for log enrichment.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-Id")
			if id == "" {
				id = ulid.Make().String()
			}
			w.Header().Set("X-Request-Id", id)
			next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), id)))
		})
	}
}

// RateLimit enforces a per-client-IP request rate. perSecond <= 0
// disables limiting.
func RateLimit(perSecond int, log logger.Logger) Middleware {
	if perSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	// Cap the table so untrusted clients cannot grow it without bound.
	const maxTracked = 4096
	overflow := rate.NewLimiter(rate.Limit(perSecond), perSecond)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			mu.Lock()
			lim, ok := limiters[ip]
			if !ok {
				if len(limiters) >= maxTracked {
					lim = overflow
				} else {
					lim = rate.NewLimiter(rate.Limit(perSecond), perSecond)
					limiters[ip] = lim
				}
			}
			mu.Unlock()

			if !lim.Allow() {
				log.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)
				writeError(w, http.StatusTooManyRequests, domain.ErrRateLimited.Code, domain.ErrRateLimited.Message)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AccessLog records one log line and one counter increment per request.
// metrics may be nil.
func AccessLog(log logger.Logger, metrics *metric.Registry) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			if metrics != nil {
				metrics.HTTPRequests.WithLabelValues(r.URL.Path, strconv.Itoa(sw.status)).Inc()
			}
			log.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"request_id", logger.RequestIDFromContext(r.Context()),
			)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
