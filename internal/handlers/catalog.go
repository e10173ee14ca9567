package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/MeJR20270/project-book/internal/apperr"
	"github.com/MeJR20270/project-book/internal/models"
	"github.com/MeJR20270/project-book/internal/store"
)

type CatalogHandler struct {
	*Deps
}

func (h *CatalogHandler) Index(w http.ResponseWriter, r *http.Request) error {
	return h.list(w, r, models.BookFilter{})
}

// Search filters by title substring and exact category; with neither given it
// lists the whole catalog.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	return h.list(w, r, models.BookFilter{
		Query:    strings.TrimSpace(q.Get("query")),
		Category: strings.TrimSpace(q.Get("category")),
	})
}

func (h *CatalogHandler) list(w http.ResponseWriter, r *http.Request, f models.BookFilter) error {
	books, err := h.Store.SearchBooks(r.Context(), f)
	if err != nil {
		return apperr.Internal(err)
	}
	categories, err := h.Store.ListCategories(r.Context())
	if err != nil {
		return apperr.Internal(err)
	}
	return h.render(w, r, "index.html", map[string]interface{}{
		"Books":      books,
		"Categories": categories,
		"Query":      f.Query,
		"Category":   f.Category,
	})
}

func (h *CatalogHandler) Detail(w http.ResponseWriter, r *http.Request) error {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return apperr.NotFound("Book not found")
	}
	book, err := h.Store.GetBookByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("Book not found")
	}
	if err != nil {
		return apperr.Internal(err)
	}
	return h.render(w, r, "book_detail.html", map[string]interface{}{
		"Title": book.Title,
		"Book":  book,
	})
}
