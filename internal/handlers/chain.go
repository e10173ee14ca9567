package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
)

type ChainOptions struct {
	CSRFKey        []byte
	Secure         bool // cookies over https only; plain HTTP otherwise
	TrustedOrigins []string
	MaxBodyBytes   int64 // 0 disables the limit
}

// Chain wraps the router with the middleware every request passes through.
// Chain: RequestID -> Logger -> Recover -> Security Headers -> Body limit -> CSRF -> Mux
func Chain(mux http.Handler, opt ChainOptions) http.Handler {
	CSRF := csrf.Protect(
		opt.CSRFKey,
		csrf.Secure(opt.Secure),
		csrf.Path("/"),
		csrf.TrustedOrigins(opt.TrustedOrigins),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailure)),
	)
	app := CSRF(mux)
	if !opt.Secure {
		app = PlaintextHTTPMiddleware(app)
	}
	app = BodyLimitMiddleware(opt.MaxBodyBytes, app)

	return RequestIDMiddleware(
		LoggingMiddleware(
			RecoverMiddleware(
				SecurityHeadersMiddleware(app),
			),
		),
	)
}

func csrfFailure(w http.ResponseWriter, r *http.Request) {
	slog.Warn("CSRF check failed", "path", r.URL.Path, "reason", csrf.FailureReason(r), "request_id", RequestID(r.Context()))
	http.Error(w, "Forbidden - invalid CSRF token", http.StatusForbidden)
}

// BodyLimitMiddleware caps request bodies before the CSRF layer parses the
// form. A declared length over the limit is refused without reading the body.
func BodyLimitMiddleware(limit int64, next http.Handler) http.Handler {
	if limit <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > limit {
			slog.Warn("Request body too large", "path", r.URL.Path, "length", r.ContentLength, "limit", limit)
			http.Error(w, "Upload too large. Max "+strconv.FormatInt(limit>>20, 10)+"MB.", http.StatusBadRequest)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, limit)
		next.ServeHTTP(w, r)
	})
}
