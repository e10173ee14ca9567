package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/MeJR20270/project-book/internal/auth"
	"github.com/gorilla/sessions"
)

const (
	sessionName = "book-donation-session"
	userKey     = "user"

	// SessionMaxAge is the cookie lifetime in seconds (24 hours).
	SessionMaxAge = 24 * 60 * 60
)

type SessionOptions struct {
	Dir    string
	Key    []byte
	Secure bool
	Domain string
}

// NewSessionStore keeps session data on disk; the cookie carries only the
// signed session ID.
func NewSessionStore(opt SessionOptions) (*sessions.FilesystemStore, error) {
	if err := os.MkdirAll(opt.Dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	st := sessions.NewFilesystemStore(opt.Dir, opt.Key)
	st.MaxAge(SessionMaxAge)
	st.Options.Path = "/"
	st.Options.HttpOnly = true
	st.Options.Secure = opt.Secure
	st.Options.SameSite = http.SameSiteLaxMode
	if opt.Domain != "" {
		st.Options.Domain = opt.Domain
	}
	return st, nil
}

// session returns the request's session. A cookie that fails to decode yields
// a fresh session.
func (d *Deps) session(r *http.Request) *sessions.Session {
	s, err := d.SessionStore.Get(r, sessionName)
	if err != nil {
		slog.Debug("Discarding unreadable session", "error", err)
	}
	return s
}

func sessionUser(s *sessions.Session) *auth.User {
	u, ok := s.Values[userKey].(auth.User)
	if !ok {
		return nil
	}
	return &u
}
