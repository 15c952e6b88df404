package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/shelf/internal/shelf/domain"
)

type booksRepo struct {
	q querier
}

const selectBook = `SELECT id, google_book_id, title, authors, description, thumbnail, user_id, created_at FROM books`

func (r *booksRepo) CreateBook(ctx context.Context, b domain.Book) (domain.Book, error) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}

	err := r.q.QueryRowContext(ctx, `
INSERT INTO books (google_book_id, title, authors, description, thumbnail, user_id, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id`,
		b.GoogleBookID, b.Title, b.Authors, b.Description, b.Thumbnail, b.UserID, toMillis(b.CreatedAt),
	).Scan(&b.ID)
	if err != nil {
		return domain.Book{}, mapConstraint(err)
	}
	b.CreatedAt = fromMillis(toMillis(b.CreatedAt))
	return b, nil
}

func (r *booksRepo) GetBookByID(ctx context.Context, id int64) (domain.Book, error) {
	b, err := scanBook(r.q.QueryRowContext(ctx, selectBook+` WHERE id = ?`, id))
	if err != nil {
		return domain.Book{}, mapNotFound(err)
	}
	return b, nil
}

func (r *booksRepo) ExistsForUser(ctx context.Context, userID int64, googleBookID string) (bool, error) {
	var exists bool
	err := r.q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM books WHERE user_id = ? AND google_book_id = ?)`,
		userID, googleBookID,
	).Scan(&exists)
	return exists, err
}

func (r *booksRepo) ListForUser(ctx context.Context, userID int64) ([]domain.Book, error) {
	return r.list(ctx, selectBook+` WHERE user_id = ? ORDER BY id`, userID)
}

func (r *booksRepo) PageForUser(
	ctx context.Context,
	userID int64,
	limit, offset int,
) (domain.Page[domain.Book], error) {
	var total int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM books WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return domain.Page[domain.Book]{}, err
	}

	items, err := r.list(ctx, selectBook+` WHERE user_id = ? ORDER BY id LIMIT ? OFFSET ?`, userID, limit, offset)
	if err != nil {
		return domain.Page[domain.Book]{}, err
	}
	return domain.Page[domain.Book]{Items: items, Total: total}, nil
}

func (r *booksRepo) DeleteBook(ctx context.Context, id int64) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	return err
}

func (r *booksRepo) list(ctx context.Context, query string, args ...any) ([]domain.Book, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []domain.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (domain.Book, error) {
	var (
		b       domain.Book
		created int64
	)
	err := row.Scan(&b.ID, &b.GoogleBookID, &b.Title, &b.Authors, &b.Description, &b.Thumbnail, &b.UserID, &created)
	if err != nil {
		return domain.Book{}, err
	}
	b.CreatedAt = fromMillis(created)
	return b, nil
}
