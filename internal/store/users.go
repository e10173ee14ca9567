package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/MeJR20270/project-book/internal/models"
)

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT id, username, password, role FROM users WHERE username = ?`
	row := s.DB.QueryRowContext(ctx, query, username)

	var user models.User
	if err := row.Scan(&user.ID, &user.Username, &user.Password, &user.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser is used by the CLI; there is no registration route.
func (s *Store) CreateUser(ctx context.Context, username, password, role string) (int64, error) {
	if role == "" {
		role = models.RoleUser
	}
	query := `INSERT INTO users (username, password, role) VALUES (?, ?, ?)`
	res, err := s.DB.ExecContext(ctx, query, username, password, role)
	if err != nil {
		return 0, classify(err)
	}
	return res.LastInsertId()
}
