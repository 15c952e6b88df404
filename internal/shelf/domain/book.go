package domain

import "time"

// Book is an entry on a user's read list. GoogleBookID is unique per user.
type Book struct {
	ID           int64
	GoogleBookID string
	Title        string
	Authors      string
	Description  string
	Thumbnail    string
	UserID       int64
	CreatedAt    time.Time
}

// Page is one slice of a user's read list.
type Page[T any] struct {
	Items []T
	Total int64
}
