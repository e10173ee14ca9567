package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/MeJR20270/project-book/internal/apperr"
	"github.com/MeJR20270/project-book/internal/auth"
	"github.com/MeJR20270/project-book/internal/store"
)

type AuthHandler struct {
	*Deps
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) error {
	return h.render(w, r, "login.html", map[string]interface{}{
		"Title": "Log in",
	})
}

// Login checks the submitted credentials and stores a snapshot of the user in
// the session. A failed attempt answers 401 without redirecting.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) error {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	user, err := h.Store.GetUserByUsername(r.Context(), username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return apperr.Internal(err)
	}
	if user == nil || !auth.CheckPassword(user.Password, password) {
		slog.Info("Login failed", "username", username)
		return apperr.Unauthorized("Invalid login")
	}

	session := h.session(r)
	// A fresh ID on login; the pre-login ID never carries the user.
	session.ID = ""
	session.Values[userKey] = auth.FromModel(user)
	session.AddFlash(FlashMessage{Type: "success", Message: "Welcome, " + user.Username + "!"})
	if err := session.Save(r, w); err != nil {
		return apperr.Internal(err)
	}

	slog.Info("Login successful", "user_id", user.ID, "role", user.Role)
	http.Redirect(w, r, "/", http.StatusSeeOther)
	return nil
}

// Logout destroys the session whether or not anyone was logged in.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) error {
	session := h.session(r)
	session.Values = map[interface{}]interface{}{}
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		slog.Warn("Failed to destroy session", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
	return nil
}
