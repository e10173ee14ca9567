// Package auth holds the authenticated identity carried through a request and
// the access rules routes declare.
package auth

import (
	"context"
	"crypto/subtle"
	"encoding/gob"
	"strings"

	"github.com/MeJR20270/project-book/internal/apperr"
	"github.com/MeJR20270/project-book/internal/models"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gob.Register(User{})
}

// User is the snapshot of a users row kept in the session.
type User struct {
	ID       int64
	Username string
	Role     string
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == models.RoleAdmin
}

func FromModel(m *models.User) User {
	return User{ID: m.ID, Username: m.Username, Role: m.Role}
}

type ctxKey struct{}

func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// FromContext returns the request's user, or nil for anonymous requests.
func FromContext(ctx context.Context) *User {
	u, _ := ctx.Value(ctxKey{}).(*User)
	return u
}

// Access is the requirement a route places on the caller.
type Access int

const (
	Public Access = iota
	Member
	Admin
)

func (a Access) String() string {
	switch a {
	case Member:
		return "member"
	case Admin:
		return "admin"
	default:
		return "public"
	}
}

// Authorize checks u against a route's access level. A missing user on a
// protected route is Unauthorized; a non-admin on an admin route is Forbidden.
func Authorize(u *User, access Access) error {
	if access == Public {
		return nil
	}
	if u == nil {
		return apperr.Unauthorized("Login required")
	}
	if access == Admin && !u.IsAdmin() {
		return apperr.Forbidden("Access Denied")
	}
	return nil
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword compares a login attempt against the stored value. Rows
// seeded outside the CLI may hold the password as-is.
func CheckPassword(stored, given string) bool {
	if stored == "" {
		return false
	}
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}
