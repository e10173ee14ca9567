package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	h := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestRecoverMiddleware(t *testing.T) {
	h := RecoverMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestLoggingMiddlewareKeepsStatus(t *testing.T) {
	h := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)

	assert.Equal(t, "ERROR", levelForStatus(500).String())
	assert.Equal(t, "WARN", levelForStatus(404).String())
	assert.Equal(t, "INFO", levelForStatus(303).String())
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	h := SecurityHeadersMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "img-src 'self' data: https:")
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(time.Hour)
	defer rl.Stop()
	h := rl.Middleware(func(w http.ResponseWriter, r *http.Request) {})

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		h(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:1000"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:2000"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2:1000"))
}

func TestRateLimiterDisabled(t *testing.T) {
	var nilLimiter *RateLimiter
	off := NewRateLimiter(0)
	defer off.Stop()

	for _, rl := range []*RateLimiter{nilLimiter, off} {
		h := rl.Middleware(func(w http.ResponseWriter, r *http.Request) {})
		for i := 0; i < 3; i++ {
			w := httptest.NewRecorder()
			h(w, httptest.NewRequest(http.MethodPost, "/login", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		}
	}
}

func TestGetFlash(t *testing.T) {
	store := sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))
	s := sessions.NewSession(store, "test")
	s.AddFlash(FlashMessage{Type: "success", Message: "saved"})
	s.AddFlash("stray string")

	got := GetFlash(s)
	assert.Equal(t, []FlashMessage{{Type: "success", Message: "saved"}}, got)
	assert.Empty(t, GetFlash(s))
}
