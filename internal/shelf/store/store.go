package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/shelf/internal/shelf/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement it. Repositories hang off it so the same code runs
// against the pool or inside a transaction.
type Store interface {
	Users() Users
	Roles() Roles
	RefreshSessions() RefreshSessions
	Books() Books

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise. Prefer it over Tx.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. Nested transactions are not supported.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns the user with its role name joined in.
	GetUserByID(ctx context.Context, id int64) (domain.User, error)

	// GetUserByEmail is an exact, case-sensitive match.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// ExistsByEmail is the cheap pre-check used by registration.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// CreateUser inserts u and returns it with ID and CreatedAt set.
	// A duplicate email yields ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)
}

type Roles interface {
	GetRoleByName(ctx context.Context, name string) (domain.Role, error)
}

type RefreshSessions interface {
	// UpsertForUser writes the user's session, replacing whatever row the
	// user already has. user_id is unique so there is never more than one.
	UpsertForUser(ctx context.Context, s domain.RefreshSession) (domain.RefreshSession, error)

	// GetByTokenHash looks a session up by its fingerprint.
	GetByTokenHash(ctx context.Context, hash string) (domain.RefreshSession, error)

	// DeleteByUserID removes the user's session, if any.
	DeleteByUserID(ctx context.Context, userID int64) error

	// DeleteByID removes one session. Deleting a missing row is not an error.
	DeleteByID(ctx context.Context, id int64) error

	// CountByUserID exists for invariant checks and tests.
	CountByUserID(ctx context.Context, userID int64) (int, error)

	// DeleteExpired removes sessions whose expiry is at or before now and
	// reports how many rows went.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type Books interface {
	// CreateBook inserts b. A second copy of the same GoogleBookID for the
	// same user yields ErrAlreadyExists.
	CreateBook(ctx context.Context, b domain.Book) (domain.Book, error)

	GetBookByID(ctx context.Context, id int64) (domain.Book, error)

	ExistsForUser(ctx context.Context, userID int64, googleBookID string) (bool, error)

	// ListForUser returns the user's books, oldest first.
	ListForUser(ctx context.Context, userID int64) ([]domain.Book, error)

	// PageForUser returns up to limit books starting at offset plus the
	// total count, oldest first.
	PageForUser(ctx context.Context, userID int64, limit, offset int) (domain.Page[domain.Book], error)

	DeleteBook(ctx context.Context, id int64) error
}
