package http

import (
	"github.com/aussiebroadwan/shelf/internal/shelf/catalog"
	"github.com/aussiebroadwan/shelf/internal/shelf/domain"
)

// CredentialsRequest is the body of register and login.
type CredentialsRequest struct {
	Email    string `json:"email"    example:"user@example.com"`
	Password string `json:"password" example:"password123"`
}

// TokenResponse carries the access token. The refresh token travels only
// in the refreshToken cookie.
type TokenResponse struct {
	Token string `json:"token"`
}

// ErrorResponse documents the body written by httpx.APIError.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// SimplifiedBook is a catalog volume flattened to the fields the read list
// keeps.
type SimplifiedBook struct {
	GoogleBookID string `json:"googleBookId"`
	Title        string `json:"title"`
	Authors      string `json:"authors"`
	Description  string `json:"description"`
	Thumbnail    string `json:"thumbnail"`
}

// UserBook is an entry on the caller's read list.
type UserBook struct {
	ID int64 `json:"id"`
	SimplifiedBook
}

type BookSearchResponse struct {
	TotalItems int              `json:"totalItems"`
	Books      []SimplifiedBook `json:"books"`
}

type PagedUserBooksResponse struct {
	Content       []UserBook `json:"content"`
	TotalElements int64      `json:"totalElements"`
}

type HealthChecks struct {
	Database string `json:"database"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

func fromVolume(v catalog.Volume) SimplifiedBook {
	return SimplifiedBook{
		GoogleBookID: v.GoogleBookID,
		Title:        v.Title,
		Authors:      v.Authors,
		Description:  v.Description,
		Thumbnail:    v.Thumbnail,
	}
}

func (b SimplifiedBook) toVolume() catalog.Volume {
	return catalog.Volume{
		GoogleBookID: b.GoogleBookID,
		Title:        b.Title,
		Authors:      b.Authors,
		Description:  b.Description,
		Thumbnail:    b.Thumbnail,
	}
}

func fromBook(b domain.Book) UserBook {
	return UserBook{
		ID: b.ID,
		SimplifiedBook: SimplifiedBook{
			GoogleBookID: b.GoogleBookID,
			Title:        b.Title,
			Authors:      b.Authors,
			Description:  b.Description,
			Thumbnail:    b.Thumbnail,
		},
	}
}

func fromBooks(books []domain.Book) []UserBook {
	out := make([]UserBook, 0, len(books))
	for _, b := range books {
		out = append(out, fromBook(b))
	}
	return out
}
