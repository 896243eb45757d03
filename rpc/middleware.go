package rpc

import (
	"bufio"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// HeaderRequestID carries the per-request identifier.
const HeaderRequestID = "X-Request-ID"

const visitorIdleTTL = 10 * time.Minute

// requestID echoes a caller supplied X-Request-ID or assigns a fresh one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(HeaderRequestID))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		r.Header.Set(HeaderRequestID, id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.logger.Debug("request served",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", recorder.status),
			slog.String("request_id", r.Header.Get(HeaderRequestID)),
			slog.Duration("elapsed", time.Since(start)))
	})
}

// RateLimit bounds requests per client. A zero RequestsPerMinute disables
// the limiter.
type RateLimit struct {
	RequestsPerMinute float64
	Burst             int
}

type visitor struct {
	limiter *rate.Limiter
	seen    time.Time
}

// RateLimiter keeps one token bucket per client address.
type RateLimiter struct {
	cfg       RateLimit
	mu        sync.Mutex
	visitors  map[string]*visitor
	lastPrune time.Time
	clockNow  func() time.Time
}

func NewRateLimiter(cfg RateLimit) *RateLimiter {
	return &RateLimiter{
		cfg:      cfg,
		visitors: make(map[string]*visitor),
		clockNow: time.Now,
	}
}

// Middleware rejects requests over the client's budget with 429.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l == nil || l.cfg.RequestsPerMinute <= 0 {
			next.ServeHTTP(w, r)
			return
		}
		if !l.obtain(clientID(r)).Allow() {
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) obtain(id string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clockNow()
	if now.Sub(l.lastPrune) > visitorIdleTTL {
		for key, v := range l.visitors {
			if now.Sub(v.seen) > visitorIdleTTL {
				delete(l.visitors, key)
			}
		}
		l.lastPrune = now
	}
	if v, ok := l.visitors[id]; ok {
		v.seen = now
		return v.limiter
	}
	burst := l.cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(l.cfg.RequestsPerMinute/60.0), burst)
	l.visitors[id] = &visitor{limiter: limiter, seen: now}
	return limiter
}

// clientID keys the limiter on the remote host. Forwarding headers are not
// trusted.
func clientID(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Tracing opens one span per request on the global tracer provider.
type Tracing struct {
	tracer trace.Tracer
}

func NewTracing(service string) *Tracing {
	return &Tracing{tracer: otel.Tracer(service)}
}

func (t *Tracing) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := t.tracer.Start(r.Context(), r.Method+" "+r.URL.Path, trace.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.request_id", r.Header.Get(HeaderRequestID)),
		))
		defer span.End()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r.WithContext(ctx))
		if rctx := chi.RouteContext(ctx); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				span.SetName(r.Method + " " + pattern)
				span.SetAttributes(attribute.String("http.route", pattern))
			}
		}
		span.SetAttributes(attribute.Int("http.status_code", recorder.status))
		if recorder.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(recorder.status))
		}
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrade reach the underlying connection.
func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("rpc: response writer does not support hijacking")
	}
	s.status = http.StatusSwitchingProtocols
	return hijacker.Hijack()
}

func (s *statusRecorder) Flush() {
	if flusher, ok := s.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
