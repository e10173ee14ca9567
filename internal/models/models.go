package models

import (
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"

	// StatusInProgress is the status every new donation request starts with.
	StatusInProgress = "In progress"
)

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"` // bcrypt hash, or a legacy plain value seeded out of band
	Role     string `json:"role"`
}

type Book struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Category    string    `json:"category"`
	Stock       int       `json:"stock"`
	ImageURL    string    `json:"image_url"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type DonationRequest struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	BookID    int64     `json:"book_id"`
	Status    string    `json:"status"` // free text, set by an admin
	Confirmed bool      `json:"confirmed"`
	CreatedAt time.Time `json:"created_at"`
}

// RequestView is a donation request joined with its book and owner for listings.
type RequestView struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	BookID    int64     `json:"book_id"`
	BookTitle string    `json:"book_title"`
	Status    string    `json:"status"`
	Confirmed bool      `json:"confirmed"`
	CreatedAt time.Time `json:"created_at"`
}

// BookFilter narrows a catalog search. Empty fields do not filter.
type BookFilter struct {
	Query    string // title substring
	Category string // exact match
}
