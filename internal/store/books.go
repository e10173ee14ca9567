package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/MeJR20270/project-book/internal/models"
)

const bookColumns = `id, title, author, category, stock, image_url, description, created_at`

func (s *Store) CreateBook(ctx context.Context, book *models.Book) (int64, error) {
	query := `
		INSERT INTO books (title, author, category, stock, image_url, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`
	res, err := s.DB.ExecContext(ctx, query, book.Title, book.Author, book.Category, book.Stock, book.ImageURL, book.Description)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	book.ID = id
	return id, nil
}

func (s *Store) ListBooks(ctx context.Context) ([]models.Book, error) {
	return s.SearchBooks(ctx, models.BookFilter{})
}

// SearchBooks matches titles containing f.Query and books whose category equals
// f.Category. Both filters are optional and combine with AND.
func (s *Store) SearchBooks(ctx context.Context, f models.BookFilter) ([]models.Book, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + bookColumns + ` FROM books WHERE 1=1`)
	var args []any
	if f.Query != "" {
		sb.WriteString(` AND title LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(f.Query)+"%")
	}
	if f.Category != "" {
		sb.WriteString(` AND category = ?`)
		args = append(args, f.Category)
	}
	sb.WriteString(` ORDER BY id`)

	rows, err := s.DB.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []models.Book
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Category, &b.Stock, &b.ImageURL, &b.Description, &b.CreatedAt); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (s *Store) GetBookByID(ctx context.Context, id int64) (*models.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = ?`
	var b models.Book
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.Title, &b.Author, &b.Category, &b.Stock, &b.ImageURL, &b.Description, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListCategories returns the distinct non-empty categories, sorted.
func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT DISTINCT category FROM books WHERE category != '' ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
