package handlers

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/MeJR20270/project-book/internal/apperr"
	"github.com/MeJR20270/project-book/internal/auth"
	"github.com/MeJR20270/project-book/internal/models"
	"github.com/MeJR20270/project-book/internal/uploads"
	"github.com/go-playground/validator/v10"
)

type AdminHandler struct {
	*Deps
	Uploads        *uploads.Saver
	MaxUploadBytes int64
	Validate       *validator.Validate
}

// Panel shows the add-book form with a summary of the catalog and requests.
func (h *AdminHandler) Panel(w http.ResponseWriter, r *http.Request) error {
	stats, err := h.Store.GetDashboardStats(r.Context())
	if err != nil {
		return apperr.Internal(err)
	}
	return h.render(w, r, "admin.html", map[string]interface{}{
		"Title": "Admin",
		"Stats": stats,
	})
}

// AddBook inserts one book. When a cover file is uploaded its stored path
// becomes image_url; otherwise the image_url field is kept as submitted.
func (h *AdminHandler) AddBook(w http.ResponseWriter, r *http.Request) error {
	if h.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	}
	err := r.ParseMultipartForm(h.MaxUploadBytes)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.Validation("Upload too large. Max " + strconv.FormatInt(h.MaxUploadBytes>>20, 10) + "MB.")
		}
		return apperr.Validation("Invalid form data")
	}

	form, err := bookFormFromRequest(r)
	if err != nil {
		return err
	}
	if err := h.Validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return apperr.Validation(validationMessage(verrs))
		}
		return apperr.Internal(err)
	}
	book := form.Book()

	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		url, err := h.saveCover(file, header)
		if err != nil {
			return err
		}
		if book.ImageURL != "" {
			slog.Warn("Both an uploaded image and image_url were supplied, keeping the upload",
				"image_url", book.ImageURL, "upload", url)
		}
		book.ImageURL = url
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// no upload
	default:
		return apperr.Validation("Invalid image upload")
	}

	id, err := h.Store.CreateBook(r.Context(), book)
	if err != nil {
		return apperr.Internal(err)
	}

	slog.Info("Book added", "book_id", id, "title", book.Title, "admin_id", auth.FromContext(r.Context()).ID)
	h.flash(w, r, "success", "Book added successfully!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
	return nil
}

func (h *AdminHandler) saveCover(file multipart.File, header *multipart.FileHeader) (string, error) {
	if h.Uploads == nil {
		return "", apperr.Internal(errors.New("uploads are not configured"))
	}
	url, err := h.Uploads.Save(file, header.Filename)
	switch {
	case errors.Is(err, uploads.ErrUnsupportedFormat):
		return "", apperr.Validation("Unsupported image format. Only PNG, JPG, JPEG are allowed.")
	case errors.Is(err, uploads.ErrInvalidImage):
		return "", apperr.Validation("Failed to decode image.")
	case err != nil:
		return "", apperr.Internal(err)
	}
	return url, nil
}

func (h *AdminHandler) Requests(w http.ResponseWriter, r *http.Request) error {
	reqs, err := h.Store.ListAllRequests(r.Context())
	if err != nil {
		return apperr.Internal(err)
	}
	return h.render(w, r, "admin_requests.html", map[string]interface{}{
		"Title":    "All requests",
		"Requests": reqs,
	})
}

// UpdateStatus stores whatever status text the admin typed; there are no
// transition rules.
func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) error {
	reqID, err := formID(r, "request_id")
	if err != nil {
		return apperr.Validation("Invalid request")
	}
	status := strings.TrimSpace(r.FormValue("status"))

	ok, err := h.Store.UpdateRequestStatus(r.Context(), reqID, status)
	if err != nil {
		return apperr.Internal(err)
	}
	if ok {
		slog.Info("Request status updated", "request_id", reqID, "status", status)
		h.flash(w, r, "success", "Request updated!")
	} else {
		h.flash(w, r, "error", "Request not found.")
	}
	http.Redirect(w, r, "/admin/requests", http.StatusSeeOther)
	return nil
}

// bookForm is the validated shape of the add-book submission.
type bookForm struct {
	Title       string `validate:"required,max=255"`
	Author      string `validate:"max=255"`
	Category    string `validate:"max=100"`
	Stock       int    `validate:"min=0"`
	ImageURL    string `validate:"max=2048"`
	Description string `validate:"max=10000"`
}

func bookFormFromRequest(r *http.Request) (*bookForm, error) {
	f := &bookForm{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Author:      strings.TrimSpace(r.FormValue("author")),
		Category:    strings.TrimSpace(r.FormValue("category")),
		ImageURL:    strings.TrimSpace(r.FormValue("image_url")),
		Description: r.FormValue("description"),
	}
	if s := strings.TrimSpace(r.FormValue("stock")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, apperr.Validation("Stock must be a whole number.")
		}
		f.Stock = n
	}
	return f, nil
}

func (f *bookForm) Book() *models.Book {
	return &models.Book{
		Title:       f.Title,
		Author:      f.Author,
		Category:    f.Category,
		Stock:       f.Stock,
		ImageURL:    f.ImageURL,
		Description: f.Description,
	}
}

func validationMessage(errs validator.ValidationErrors) string {
	var msgs []string
	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			msgs = append(msgs, e.Field()+" is required.")
		case "min":
			msgs = append(msgs, e.Field()+" must be at least "+e.Param()+".")
		case "max":
			msgs = append(msgs, e.Field()+" is too long.")
		default:
			msgs = append(msgs, e.Field()+" is invalid.")
		}
	}
	return strings.Join(msgs, " ")
}
