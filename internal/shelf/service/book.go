package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/aussiebroadwan/shelf/internal/shelf/catalog"
	"github.com/aussiebroadwan/shelf/internal/shelf/domain"
	"github.com/aussiebroadwan/shelf/internal/shelf/store"
	"github.com/aussiebroadwan/shelf/pkg/slogx"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Catalog is the external book catalog. *catalog.Client implements it.
type Catalog interface {
	Search(ctx context.Context, q string, page, size int) (catalog.SearchResult, error)
	Volume(ctx context.Context, id string) (catalog.Volume, error)
}

// BookService owns each user's read list and proxies catalog lookups.
type BookService struct {
	Store   store.Store
	Catalog Catalog
}

func (s *BookService) Search(ctx context.Context, q string, page, size int) (catalog.SearchResult, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return catalog.SearchResult{}, fmt.Errorf("%w: q is required", ErrInvalidInput)
	}
	if err := validatePage(page, size); err != nil {
		return catalog.SearchResult{}, err
	}
	return s.Catalog.Search(ctx, q, page, size)
}

func (s *BookService) Volume(ctx context.Context, id string) (catalog.Volume, error) {
	v, err := s.Catalog.Volume(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		return catalog.Volume{}, ErrNotFound
	}
	return v, err
}

// Add puts a volume on the user's read list. Adding the same volume twice
// is a conflict.
func (s *BookService) Add(ctx context.Context, userID int64, v catalog.Volume) (domain.Book, error) {
	v.GoogleBookID = strings.TrimSpace(v.GoogleBookID)
	if v.GoogleBookID == "" || strings.TrimSpace(v.Title) == "" {
		return domain.Book{}, fmt.Errorf("%w: googleBookId and title are required", ErrInvalidInput)
	}

	read, err := s.Store.Books().ExistsForUser(ctx, userID, v.GoogleBookID)
	if err != nil {
		return domain.Book{}, err
	}
	if read {
		return domain.Book{}, ErrConflict
	}

	book, err := s.Store.Books().CreateBook(ctx, domain.Book{
		GoogleBookID: v.GoogleBookID,
		Title:        v.Title,
		Authors:      v.Authors,
		Description:  v.Description,
		Thumbnail:    v.Thumbnail,
		UserID:       userID,
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return domain.Book{}, ErrConflict
	}
	if err != nil {
		return domain.Book{}, err
	}

	slogx.FromContext(ctx).Info("book added to read list",
		slog.Int64("book_id", book.ID), slog.String("google_book_id", book.GoogleBookID))
	return book, nil
}

func (s *BookService) List(ctx context.Context, userID int64) ([]domain.Book, error) {
	return s.Store.Books().ListForUser(ctx, userID)
}

func (s *BookService) Page(ctx context.Context, userID int64, page, size int) (domain.Page[domain.Book], error) {
	if err := validatePage(page, size); err != nil {
		return domain.Page[domain.Book]{}, err
	}
	return s.Store.Books().PageForUser(ctx, userID, size, page*size)
}

func (s *BookService) HasRead(ctx context.Context, userID int64, googleBookID string) (bool, error) {
	return s.Store.Books().ExistsForUser(ctx, userID, googleBookID)
}

// Delete removes a book from the caller's list. Books belonging to other
// users are ErrForbidden.
func (s *BookService) Delete(ctx context.Context, userID, bookID int64) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		book, err := tx.Books().GetBookByID(ctx, bookID)
		if isNotFound(err) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if book.UserID != userID {
			slogx.FromContext(ctx).Warn("delete of foreign book refused", slog.Int64("book_id", bookID))
			return ErrForbidden
		}

		return tx.Books().DeleteBook(ctx, bookID)
	})
}

func validatePage(page, size int) error {
	if page < 0 {
		return fmt.Errorf("%w: page must not be negative", ErrInvalidInput)
	}
	if size < 1 || size > MaxPageSize {
		return fmt.Errorf("%w: size must be between 1 and %d", ErrInvalidInput, MaxPageSize)
	}
	// page*size becomes an offset and must not wrap.
	if page > math.MaxInt/size {
		return fmt.Errorf("%w: page is out of range", ErrInvalidInput)
	}
	return nil
}
