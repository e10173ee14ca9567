package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/MeJR20270/project-book/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate())
	return s
}

func addBook(t *testing.T, s *Store, title, category string) int64 {
	t.Helper()
	id, err := s.CreateBook(context.Background(), &models.Book{Title: title, Author: "someone", Category: category, Stock: 1})
	require.NoError(t, err)
	return id
}

func bookIDs(books []models.Book) []int64 {
	ids := []int64{}
	for _, b := range books {
		ids = append(ids, b.ID)
	}
	return ids
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Migrate())
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.CreateUser(ctx, "alice", "hash", "")
	require.NoError(t, err)

	u, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, models.RoleUser, u.Role)

	_, err = s.CreateUser(ctx, "alice", "other", models.RoleAdmin)
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = s.GetUserByUsername(ctx, "bob")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchBooks(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	addBook(t, s, "Go Programming", "tech")
	addBook(t, s, "Learning Go", "tech")
	addBook(t, s, "Gone with the Wind", "novel")
	addBook(t, s, "100% Pure", "novel")

	all, err := s.ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)

	cases := []struct {
		name   string
		filter models.BookFilter
		want   []string
	}{
		{"empty filter returns everything", models.BookFilter{}, []string{"Go Programming", "Learning Go", "Gone with the Wind", "100% Pure"}},
		{"title substring", models.BookFilter{Query: "Go"}, []string{"Go Programming", "Learning Go", "Gone with the Wind"}},
		{"category only", models.BookFilter{Category: "novel"}, []string{"Gone with the Wind", "100% Pure"}},
		{"both combine with AND", models.BookFilter{Query: "Go", Category: "novel"}, []string{"Gone with the Wind"}},
		{"wildcards are literal", models.BookFilter{Query: "%"}, []string{"100% Pure"}},
		{"no match", models.BookFilter{Query: "Rust"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.SearchBooks(ctx, tc.filter)
			require.NoError(t, err)
			var titles []string
			for _, b := range got {
				titles = append(titles, b.Title)
			}
			assert.Equal(t, tc.want, titles)
			assert.Subset(t, bookIDs(all), bookIDs(got))
		})
	}

	cats, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"novel", "tech"}, cats)
}

func TestGetBookByID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id := addBook(t, s, "Dune", "scifi")
	b, err := s.GetBookByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Dune", b.Title)
	assert.False(t, b.CreatedAt.IsZero())

	_, err = s.GetBookByID(ctx, id+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDonationRequestLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	alice, err := s.CreateUser(ctx, "alice", "x", models.RoleUser)
	require.NoError(t, err)
	bob, err := s.CreateUser(ctx, "bob", "x", models.RoleUser)
	require.NoError(t, err)
	book := addBook(t, s, "Dune", "scifi")

	// no de-duplication
	r1, err := s.CreateDonationRequest(ctx, alice, book)
	require.NoError(t, err)
	r2, err := s.CreateDonationRequest(ctx, alice, book)
	require.NoError(t, err)
	assert.NotEqual(t, r1, r2)

	_, err = s.CreateDonationRequest(ctx, bob, book+100)
	assert.ErrorIs(t, err, ErrNotFound)

	dr, err := s.GetDonationRequest(ctx, r1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, dr.Status)
	assert.False(t, dr.Confirmed)

	_, err = s.CreateDonationRequest(ctx, bob, book)
	require.NoError(t, err)

	mine, err := s.ListRequestsByUser(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, v := range mine {
		assert.Equal(t, "alice", v.Username)
		assert.Equal(t, "Dune", v.BookTitle)
	}

	all, err := s.ListAllRequests(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	ok, err := s.UpdateRequestStatus(ctx, r1, "Shipped")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.UpdateRequestStatus(ctx, 9999, "Shipped")
	require.NoError(t, err)
	assert.False(t, ok)

	// bob cannot confirm alice's request
	ok, err = s.ConfirmReceipt(ctx, r1, bob)
	require.NoError(t, err)
	assert.False(t, ok)
	dr, err = s.GetDonationRequest(ctx, r1)
	require.NoError(t, err)
	assert.False(t, dr.Confirmed)
	assert.Equal(t, "Shipped", dr.Status)

	ok, err = s.ConfirmReceipt(ctx, r1, alice)
	require.NoError(t, err)
	assert.True(t, ok)

	// second confirmation matches nothing
	ok, err = s.ConfirmReceipt(ctx, r1, alice)
	require.NoError(t, err)
	assert.False(t, ok)

	dr, err = s.GetDonationRequest(ctx, r1)
	require.NoError(t, err)
	assert.True(t, dr.Confirmed)
}

func TestDashboardStats(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u, err := s.CreateUser(ctx, "alice", "x", models.RoleUser)
	require.NoError(t, err)
	b1 := addBook(t, s, "Dune", "scifi")
	addBook(t, s, "Emma", "novel")

	r1, err := s.CreateDonationRequest(ctx, u, b1)
	require.NoError(t, err)
	_, err = s.CreateDonationRequest(ctx, u, b1)
	require.NoError(t, err)
	_, err = s.UpdateRequestStatus(ctx, r1, "Shipped")
	require.NoError(t, err)
	_, err = s.ConfirmReceipt(ctx, r1, u)
	require.NoError(t, err)

	stats, err := s.GetDashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalBooks)
	assert.Equal(t, 2, stats.TotalStock)
	assert.Equal(t, 2, stats.TotalRequests)
	assert.Equal(t, 1, stats.ConfirmedCount)
	assert.Equal(t, map[string]int{"Shipped": 1, models.StatusInProgress: 1}, stats.RequestsByStatus)
	require.Len(t, stats.TopBooks, 1)
	assert.Equal(t, 2, stats.TopBooks[0].RequestCount)
}
