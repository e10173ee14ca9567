package handlers

import (
	"log/slog"
	"net/http"

	"github.com/MeJR20270/project-book/internal/apperr"
	"github.com/MeJR20270/project-book/internal/auth"
	"github.com/MeJR20270/project-book/internal/uploads"
	"github.com/MeJR20270/project-book/web"
	"github.com/go-playground/validator/v10"
)

// UploadsPrefix is the public path uploaded covers are served under.
const UploadsPrefix = "/uploads"

// handlerFunc is a route handler; a returned error is rendered by renderError.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

type route struct {
	pattern string
	access  auth.Access
	handle  handlerFunc
	wrap    func(http.HandlerFunc) http.HandlerFunc
}

type RouterOptions struct {
	Uploads        *uploads.Saver
	MaxUploadBytes int64
	LoginLimiter   *RateLimiter
}

// NewRouter registers every route behind the authorization gate.
func NewRouter(d *Deps, opt RouterOptions) *http.ServeMux {
	authH := &AuthHandler{Deps: d}
	catalog := &CatalogHandler{Deps: d}
	requests := &RequestHandler{Deps: d}
	admin := &AdminHandler{
		Deps:           d,
		Uploads:        opt.Uploads,
		MaxUploadBytes: opt.MaxUploadBytes,
		Validate:       validator.New(),
	}

	routes := []route{
		{pattern: "GET /{$}", access: auth.Public, handle: catalog.Index},
		{pattern: "GET /search", access: auth.Public, handle: catalog.Search},
		{pattern: "GET /book/{id}", access: auth.Public, handle: catalog.Detail},

		{pattern: "GET /login", access: auth.Public, handle: authH.LoginForm},
		{pattern: "POST /login", access: auth.Public, handle: authH.Login, wrap: opt.LoginLimiter.Middleware},
		{pattern: "GET /logout", access: auth.Public, handle: authH.Logout},

		{pattern: "POST /request-donation", access: auth.Member, handle: requests.Create},
		{pattern: "GET /my-requests", access: auth.Member, handle: requests.Mine},
		{pattern: "POST /confirm-receipt", access: auth.Member, handle: requests.ConfirmReceipt},

		{pattern: "GET /admin", access: auth.Admin, handle: admin.Panel},
		{pattern: "POST /admin/add-book", access: auth.Admin, handle: admin.AddBook},
		{pattern: "GET /admin/requests", access: auth.Admin, handle: admin.Requests},
		{pattern: "POST /admin/update-status", access: auth.Admin, handle: admin.UpdateStatus},
	}

	mux := http.NewServeMux()
	mux.Handle("GET /static/", http.FileServerFS(web.Static))
	if opt.Uploads != nil {
		mux.Handle("GET "+UploadsPrefix+"/", http.StripPrefix(UploadsPrefix, http.FileServer(opt.Uploads.FileSystem())))
	}
	for _, rt := range routes {
		h := d.gate(rt.access, rt.handle)
		if rt.wrap != nil {
			h = rt.wrap(h)
		}
		mux.HandleFunc(rt.pattern, h)
	}
	return mux
}

// gate restores the session user into the request context, enforces the
// route's access level and renders any error the handler returns.
func (d *Deps) gate(access auth.Access, next handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := sessionUser(d.session(r))
		r = r.WithContext(auth.WithUser(r.Context(), user))

		if err := auth.Authorize(user, access); err != nil {
			if apperr.Is(err, apperr.KindUnauthorized) {
				slog.Info("Login required, redirecting to /login", "path", r.URL.Path)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			slog.Warn("Access denied", "path", r.URL.Path, "user_id", user.ID, "role", user.Role)
			d.renderError(w, r, err)
			return
		}

		if err := next(w, r); err != nil {
			d.renderError(w, r, err)
		}
	}
}
