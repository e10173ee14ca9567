package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/MeJR20270/project-book/internal/apperr"
	"github.com/MeJR20270/project-book/internal/auth"
	"github.com/MeJR20270/project-book/internal/store"
)

type RequestHandler struct {
	*Deps
}

// Create records a claim by the current user on a book. Repeated requests for
// the same book are separate rows and stock is left untouched.
func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) error {
	user := auth.FromContext(r.Context())
	bookID, err := formID(r, "book_id")
	if err != nil {
		return apperr.Validation("Invalid book")
	}

	id, err := h.Store.CreateDonationRequest(r.Context(), user.ID, bookID)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("Book not found")
	}
	if err != nil {
		return apperr.Internal(err)
	}

	slog.Info("Donation requested", "request_id", id, "user_id", user.ID, "book_id", bookID)
	h.flash(w, r, "success", "Your request has been recorded.")
	http.Redirect(w, r, "/my-requests", http.StatusSeeOther)
	return nil
}

func (h *RequestHandler) Mine(w http.ResponseWriter, r *http.Request) error {
	user := auth.FromContext(r.Context())
	reqs, err := h.Store.ListRequestsByUser(r.Context(), user.ID)
	if err != nil {
		return apperr.Internal(err)
	}
	return h.render(w, r, "my_requests.html", map[string]interface{}{
		"Title":    "My requests",
		"Requests": reqs,
	})
}

// ConfirmReceipt only touches a request owned by the current user; anything
// else leaves the row as it was.
func (h *RequestHandler) ConfirmReceipt(w http.ResponseWriter, r *http.Request) error {
	user := auth.FromContext(r.Context())
	reqID, err := formID(r, "request_id")
	if err != nil {
		return apperr.Validation("Invalid request")
	}

	ok, err := h.Store.ConfirmReceipt(r.Context(), reqID, user.ID)
	if err != nil {
		return apperr.Internal(err)
	}
	if ok {
		slog.Info("Receipt confirmed", "request_id", reqID, "user_id", user.ID)
		h.flash(w, r, "success", "Thanks for confirming!")
	} else {
		h.flash(w, r, "error", "Request not found or already confirmed.")
	}
	http.Redirect(w, r, "/my-requests", http.StatusSeeOther)
	return nil
}

func formID(r *http.Request, field string) (int64, error) {
	return strconv.ParseInt(r.FormValue(field), 10, 64)
}
