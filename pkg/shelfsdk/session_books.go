package shelfsdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// SearchBooks queries the catalog. page is zero-based.
func (s *Session) SearchBooks(ctx context.Context, q string, page, size int) (*SearchResponse, error) {
	v := url.Values{}
	v.Set("q", q)
	v.Set("page", strconv.Itoa(page))
	v.Set("size", strconv.Itoa(size))

	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/api/books/search?"+v.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var out SearchResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetVolume fetches one catalog volume by its Google Books id.
func (s *Session) GetVolume(ctx context.Context, googleBookID string) (*Book, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/api/books/"+url.PathEscape(googleBookID), nil)
	if err != nil {
		return nil, err
	}

	var out Book
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddBook puts b on the read list. The server answers 201 with no body;
// use ListBooks to learn the entry's id.
func (s *Session) AddBook(ctx context.Context, b Book) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/api/books", b)
	if err != nil {
		return err
	}
	return checkStatus(resp, http.StatusCreated)
}

// ListBooks returns the whole read list, oldest first.
func (s *Session) ListBooks(ctx context.Context) ([]UserBook, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/api/books", nil)
	if err != nil {
		return nil, err
	}

	var out []UserBook
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// PagedBooks returns one page of the read list. page is zero-based.
func (s *Session) PagedBooks(ctx context.Context, page, size int) (*PagedBooksResponse, error) {
	path := fmt.Sprintf("/api/books/paged?page=%d&size=%d", page, size)
	resp, err := s.doAuthRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var out PagedBooksResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// HasRead reports whether the volume is on the read list.
func (s *Session) HasRead(ctx context.Context, googleBookID string) (bool, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/api/books/books/read/"+url.PathEscape(googleBookID), nil)
	if err != nil {
		return false, err
	}

	var out bool
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return false, err
	}
	return out, nil
}

// DeleteBook removes a read list entry by its id.
func (s *Session) DeleteBook(ctx context.Context, id int64) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/api/books/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
