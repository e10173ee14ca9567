package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/MeJR20270/project-book/internal/apperr"
	"github.com/MeJR20270/project-book/internal/auth"
	"github.com/MeJR20270/project-book/internal/store"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
)

// Deps are shared by every handler group.
type Deps struct {
	Store        *store.Store
	Templates    *TemplateCache
	SessionStore sessions.Store
}

// render executes a page into a buffer first so template failures become a
// clean 500 instead of a half-written page.
func (d *Deps) render(w http.ResponseWriter, r *http.Request, name string, data map[string]interface{}) error {
	tmpl := d.Templates.Get(name)
	if tmpl == nil {
		return apperr.Internal(fmt.Errorf("template %s not found", name))
	}
	if data == nil {
		data = map[string]interface{}{}
	}

	session := d.session(r)
	flashes := GetFlash(session)
	data["User"] = auth.FromContext(r.Context())
	data["Flashes"] = flashes
	data["CsrfField"] = csrf.TemplateField(r)

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return apperr.Internal(fmt.Errorf("execute %s: %w", name, err))
	}
	if len(flashes) > 0 {
		if err := session.Save(r, w); err != nil {
			slog.Warn("Failed to save session", "error", err)
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}

// renderError is the single place a handler error reaches the client.
func (d *Deps) renderError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := apperr.Status(kind)
	msg := apperr.PublicMessage(err)

	if kind == apperr.KindInternal {
		slog.Error("Request failed", "path", r.URL.Path, "request_id", RequestID(r.Context()), "error", err)
	} else {
		slog.Debug("Request rejected", "path", r.URL.Path, "kind", kind.String(), "error", err)
	}

	tmpl := d.Templates.Get("error.html")
	if tmpl == nil {
		http.Error(w, msg, status)
		return
	}
	data := map[string]interface{}{
		"Title":   msg,
		"Status":  status,
		"Message": msg,
		"User":    auth.FromContext(r.Context()),
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "error.html", data); err != nil {
		slog.Error("Failed to render error page", "error", err)
		http.Error(w, msg, status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// flash stores a one-shot notice shown on the next rendered page.
func (d *Deps) flash(w http.ResponseWriter, r *http.Request, kind, msg string) {
	session := d.session(r)
	session.AddFlash(FlashMessage{Type: kind, Message: msg})
	if err := session.Save(r, w); err != nil {
		slog.Warn("Failed to save flash", "error", err)
	}
}
