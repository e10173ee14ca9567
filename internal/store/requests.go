package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/MeJR20270/project-book/internal/models"
)

// CreateDonationRequest records a claim by userID on bookID. A missing user or
// book surfaces as ErrNotFound through the foreign keys.
func (s *Store) CreateDonationRequest(ctx context.Context, userID, bookID int64) (int64, error) {
	query := `
		INSERT INTO donation_requests (user_id, book_id, status, confirmed, created_at)
		VALUES (?, ?, ?, 0, CURRENT_TIMESTAMP)
	`
	res, err := s.DB.ExecContext(ctx, query, userID, bookID, models.StatusInProgress)
	if err != nil {
		return 0, classify(err)
	}
	return res.LastInsertId()
}

func (s *Store) GetDonationRequest(ctx context.Context, id int64) (*models.DonationRequest, error) {
	query := `SELECT id, user_id, book_id, status, confirmed, created_at FROM donation_requests WHERE id = ?`
	var dr models.DonationRequest
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&dr.ID, &dr.UserID, &dr.BookID, &dr.Status, &dr.Confirmed, &dr.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &dr, nil
}

func (s *Store) ListRequestsByUser(ctx context.Context, userID int64) ([]models.RequestView, error) {
	query := `
		SELECT dr.id, dr.user_id, u.username, dr.book_id, b.title, dr.status, dr.confirmed, dr.created_at
		FROM donation_requests dr
		JOIN books b ON dr.book_id = b.id
		JOIN users u ON dr.user_id = u.id
		WHERE dr.user_id = ?
		ORDER BY dr.id
	`
	return s.queryRequests(ctx, query, userID)
}

func (s *Store) ListAllRequests(ctx context.Context) ([]models.RequestView, error) {
	query := `
		SELECT dr.id, dr.user_id, u.username, dr.book_id, b.title, dr.status, dr.confirmed, dr.created_at
		FROM donation_requests dr
		JOIN books b ON dr.book_id = b.id
		JOIN users u ON dr.user_id = u.id
		ORDER BY dr.id
	`
	return s.queryRequests(ctx, query)
}

func (s *Store) queryRequests(ctx context.Context, query string, args ...any) ([]models.RequestView, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.RequestView
	for rows.Next() {
		var v models.RequestView
		if err := rows.Scan(&v.ID, &v.UserID, &v.Username, &v.BookID, &v.BookTitle, &v.Status, &v.Confirmed, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// UpdateRequestStatus sets a free-text status. It reports whether a row matched.
func (s *Store) UpdateRequestStatus(ctx context.Context, id int64, status string) (bool, error) {
	res, err := s.DB.ExecContext(ctx, `UPDATE donation_requests SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ConfirmReceipt marks the request received only when it belongs to userID and
// has not been confirmed yet. It reports whether a row changed.
func (s *Store) ConfirmReceipt(ctx context.Context, id, userID int64) (bool, error) {
	query := `UPDATE donation_requests SET confirmed = 1 WHERE id = ? AND user_id = ? AND confirmed = 0`
	res, err := s.DB.ExecContext(ctx, query, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
