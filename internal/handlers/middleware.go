package handlers

import (
	"context"
	"encoding/gob"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
)

// Register types for gob encoding (used by sessions)
func init() {
	gob.Register(FlashMessage{})
}

type requestIDKey struct{}

// RequestIDMiddleware tags every request with an ID, reusing an incoming
// X-Request-ID header when present.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// LoggingMiddleware logs the details of each HTTP request
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w}
		next.ServeHTTP(ww, r)
		if ww.statusCode == 0 {
			ww.statusCode = http.StatusOK
		}
		slog.Log(r.Context(), levelForStatus(ww.statusCode), "HTTP Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.statusCode,
			"bytes", ww.bytes,
			"duration", time.Since(start),
			"ip", r.RemoteAddr,
			"request_id", RequestID(r.Context()),
		)
	})
}

func levelForStatus(code int) slog.Level {
	switch {
	case code >= 500:
		return slog.LevelError
	case code >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// Custom ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	bytes      int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(p []byte) (int, error) {
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(p)
	rw.bytes += int64(n)
	return n, err
}

// RecoverMiddleware turns a panicking handler into a 500 for that request.
func RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				slog.Error("Panic while handling request",
					"panic", v,
					"path", r.URL.Path,
					"request_id", RequestID(r.Context()),
					"stack", string(debug.Stack()),
				)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// SecurityHeadersMiddleware adds standard security headers
func SecurityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "same-origin")
		// Book covers may point at external hosts through image_url.
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data: https: http:; script-src 'self'")
		next.ServeHTTP(w, r)
	})
}

// PlaintextHTTPMiddleware tells the CSRF layer the site is served over plain
// HTTP so its origin checks do not assume https.
func PlaintextHTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

// RateLimiter allows one request per client IP per window.
type RateLimiter struct {
	visitors sync.Map
	window   time.Duration
	stop     chan struct{}
	once     sync.Once
}

// NewRateLimiter creates a new rate limiter with a cleanup goroutine
func NewRateLimiter(window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		window: window,
		stop:   make(chan struct{}),
	}
	if window > 0 {
		go rl.cleanup()
	}
	return rl
}

// cleanup removes old entries to prevent memory leaks
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			rl.visitors.Range(func(key, value interface{}) bool {
				if now.Sub(value.(time.Time)) > rl.window {
					rl.visitors.Delete(key)
				}
				return true
			})
		}
	}
}

func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

// Middleware enforces the rate limit. A zero window disables it.
func (rl *RateLimiter) Middleware(next http.HandlerFunc) http.HandlerFunc {
	if rl == nil || rl.window <= 0 {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if lastSeen, ok := rl.visitors.Load(ip); ok {
			if time.Since(lastSeen.(time.Time)) < rl.window {
				slog.Warn("Rate limit exceeded", "ip", ip, "path", r.URL.Path)
				http.Error(w, "Too Many Requests. Please try again later.", http.StatusTooManyRequests)
				return
			}
		}
		rl.visitors.Store(ip, time.Now())
		next(w, r)
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// FlashMessage structure
type FlashMessage struct {
	Type    string
	Message string
}

// GetFlash retrieves flash messages from the session
func GetFlash(session *sessions.Session) []FlashMessage {
	flashes := session.Flashes()
	var messages []FlashMessage
	for _, f := range flashes {
		if fm, ok := f.(FlashMessage); ok {
			messages = append(messages, fm)
		}
	}
	return messages
}
