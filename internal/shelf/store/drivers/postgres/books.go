package postgres

import (
	"context"

	"github.com/aussiebroadwan/shelf/internal/shelf/domain"
)

type booksRepo struct {
	q querier
}

const selectBook = `SELECT id, google_book_id, title, authors, description, thumbnail, user_id, created_at FROM books`

func (r *booksRepo) CreateBook(ctx context.Context, b domain.Book) (domain.Book, error) {
	const op = "postgres.CreateBook"

	err := r.q.QueryRowContext(ctx, `
INSERT INTO books (google_book_id, title, authors, description, thumbnail, user_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at`,
		b.GoogleBookID, b.Title, b.Authors, b.Description, b.Thumbnail, b.UserID,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return domain.Book{}, wrap(op, err)
	}
	b.CreatedAt = b.CreatedAt.UTC()
	return b, nil
}

func (r *booksRepo) GetBookByID(ctx context.Context, id int64) (domain.Book, error) {
	const op = "postgres.GetBookByID"

	b, err := scanBook(r.q.QueryRowContext(ctx, selectBook+` WHERE id = $1`, id))
	if err != nil {
		return domain.Book{}, wrap(op, err)
	}
	return b, nil
}

func (r *booksRepo) ExistsForUser(ctx context.Context, userID int64, googleBookID string) (bool, error) {
	const op = "postgres.BookExistsForUser"

	var exists bool
	err := r.q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM books WHERE user_id = $1 AND google_book_id = $2)`,
		userID, googleBookID,
	).Scan(&exists)
	if err != nil {
		return false, wrap(op, err)
	}
	return exists, nil
}

func (r *booksRepo) ListForUser(ctx context.Context, userID int64) ([]domain.Book, error) {
	const op = "postgres.ListBooksForUser"

	books, err := r.list(ctx, selectBook+` WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, wrap(op, err)
	}
	return books, nil
}

func (r *booksRepo) PageForUser(
	ctx context.Context,
	userID int64,
	limit, offset int,
) (domain.Page[domain.Book], error) {
	const op = "postgres.PageBooksForUser"

	var total int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM books WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return domain.Page[domain.Book]{}, wrap(op, err)
	}

	items, err := r.list(ctx, selectBook+` WHERE user_id = $1 ORDER BY id LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return domain.Page[domain.Book]{}, wrap(op, err)
	}
	return domain.Page[domain.Book]{Items: items, Total: total}, nil
}

func (r *booksRepo) DeleteBook(ctx context.Context, id int64) error {
	const op = "postgres.DeleteBook"

	if _, err := r.q.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id); err != nil {
		return wrap(op, err)
	}
	return nil
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
	var b domain.Book
	err := row.Scan(&b.ID, &b.GoogleBookID, &b.Title, &b.Authors, &b.Description, &b.Thumbnail, &b.UserID, &b.CreatedAt)
	if err != nil {
		return domain.Book{}, err
	}
	b.CreatedAt = b.CreatedAt.UTC()
	return b, nil
}
