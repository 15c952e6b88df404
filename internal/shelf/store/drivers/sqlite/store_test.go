package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/shelf/internal/shelf/domain"
	"github.com/aussiebroadwan/shelf/internal/shelf/store"
	"github.com/aussiebroadwan/shelf/internal/shelf/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "shelf.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func createUser(t *testing.T, s store.Store, email string) domain.User {
	t.Helper()
	ctx := context.Background()

	role, err := s.Roles().GetRoleByName(ctx, domain.DefaultRole)
	require.NoError(t, err)

	u, err := s.Users().CreateUser(ctx, domain.User{
		Email:        email,
		PasswordHash: "$argon2id$dummy",
		RoleID:       role.ID,
	})
	require.NoError(t, err)
	return u
}

func TestMigrationsSeedRoles(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	for _, name := range []string{"USER", "ADMIN"} {
		role, err := s.Roles().GetRoleByName(ctx, name)
		require.NoError(t, err)
		require.Equal(t, name, role.Name)
		require.NotZero(t, role.ID)
	}

	_, err := s.Roles().GetRoleByName(ctx, "ROOT")
	require.ErrorIs(t, err, store.ErrNotFound)

	// Running them again is a no-op.
	require.NoError(t, s.ApplyMigrations())
}

func TestUsers(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	u := createUser(t, s, "ada@example.com")
	require.NotZero(t, u.ID)
	require.False(t, u.CreatedAt.IsZero())

	t.Run("lookup joins role name", func(t *testing.T) {
		got, err := s.Users().GetUserByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
		require.Equal(t, "USER", got.Role)
		require.Equal(t, u.PasswordHash, got.PasswordHash)

		got, err = s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "ada@example.com", got.Email)
	})

	t.Run("email match is case-sensitive", func(t *testing.T) {
		_, err := s.Users().GetUserByEmail(ctx, "ADA@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)

		exists, err := s.Users().ExistsByEmail(ctx, "ADA@example.com")
		require.NoError(t, err)
		require.False(t, exists)
	})

	t.Run("exists by email", func(t *testing.T) {
		exists, err := s.Users().ExistsByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		require.True(t, exists)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := s.Users().CreateUser(ctx, domain.User{
			Email:        "ada@example.com",
			PasswordHash: "x",
			RoleID:       u.RoleID,
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := s.Users().GetUserByID(ctx, 9999)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestRefreshSessions(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	u := createUser(t, s, "grace@example.com")
	now := time.Now().UTC().Truncate(time.Millisecond)

	first, err := s.RefreshSessions().UpsertForUser(ctx, domain.RefreshSession{
		UserID:    u.ID,
		TokenHash: "hash-1",
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	})
	require.NoError(t, err)
	require.NotZero(t, first.ID)
	require.True(t, first.ExpiresAt.Equal(now.Add(time.Hour)))

	t.Run("upsert keeps one row per user", func(t *testing.T) {
		_, err := s.RefreshSessions().UpsertForUser(ctx, domain.RefreshSession{
			UserID:    u.ID,
			TokenHash: "hash-2",
			ExpiresAt: now.Add(2 * time.Hour),
			CreatedAt: now,
		})
		require.NoError(t, err)

		n, err := s.RefreshSessions().CountByUserID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, 1, n)

		_, err = s.RefreshSessions().GetByTokenHash(ctx, "hash-1")
		require.ErrorIs(t, err, store.ErrNotFound)

		got, err := s.RefreshSessions().GetByTokenHash(ctx, "hash-2")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.UserID)
	})

	t.Run("delete expired", func(t *testing.T) {
		other := createUser(t, s, "linus@example.com")
		_, err := s.RefreshSessions().UpsertForUser(ctx, domain.RefreshSession{
			UserID:    other.ID,
			TokenHash: "stale",
			ExpiresAt: now.Add(-time.Minute),
			CreatedAt: now.Add(-time.Hour),
		})
		require.NoError(t, err)

		n, err := s.RefreshSessions().DeleteExpired(ctx, now)
		require.NoError(t, err)
		require.EqualValues(t, 1, n)

		_, err = s.RefreshSessions().GetByTokenHash(ctx, "stale")
		require.ErrorIs(t, err, store.ErrNotFound)
		_, err = s.RefreshSessions().GetByTokenHash(ctx, "hash-2")
		require.NoError(t, err)
	})

	t.Run("delete by user and id", func(t *testing.T) {
		got, err := s.RefreshSessions().GetByTokenHash(ctx, "hash-2")
		require.NoError(t, err)

		require.NoError(t, s.RefreshSessions().DeleteByID(ctx, got.ID))
		require.NoError(t, s.RefreshSessions().DeleteByID(ctx, got.ID))
		require.NoError(t, s.RefreshSessions().DeleteByUserID(ctx, u.ID))

		n, err := s.RefreshSessions().CountByUserID(ctx, u.ID)
		require.NoError(t, err)
		require.Zero(t, n)
	})
}

func TestBooks(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	u := createUser(t, s, "barbara@example.com")
	other := createUser(t, s, "ken@example.com")

	var ids []int64
	for _, gid := range []string{"g1", "g2", "g3"} {
		b, err := s.Books().CreateBook(ctx, domain.Book{
			GoogleBookID: gid,
			Title:        "Title " + gid,
			Authors:      "Unknown",
			UserID:       u.ID,
		})
		require.NoError(t, err)
		ids = append(ids, b.ID)
	}

	t.Run("duplicate per user", func(t *testing.T) {
		_, err := s.Books().CreateBook(ctx, domain.Book{GoogleBookID: "g1", Title: "again", UserID: u.ID})
		require.ErrorIs(t, err, store.ErrAlreadyExists)

		// Another user may hold the same volume.
		_, err = s.Books().CreateBook(ctx, domain.Book{GoogleBookID: "g1", Title: "mine", UserID: other.ID})
		require.NoError(t, err)
	})

	t.Run("exists for user", func(t *testing.T) {
		ok, err := s.Books().ExistsForUser(ctx, u.ID, "g2")
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = s.Books().ExistsForUser(ctx, other.ID, "g2")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("list and page", func(t *testing.T) {
		all, err := s.Books().ListForUser(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, all, 3)
		require.Equal(t, ids[0], all[0].ID)

		page, err := s.Books().PageForUser(ctx, u.ID, 2, 2)
		require.NoError(t, err)
		require.EqualValues(t, 3, page.Total)
		require.Len(t, page.Items, 1)
		require.Equal(t, "g3", page.Items[0].GoogleBookID)

		empty, err := s.Books().ListForUser(ctx, 4242)
		require.NoError(t, err)
		require.NotNil(t, empty)
		require.Empty(t, empty)
	})

	t.Run("get and delete", func(t *testing.T) {
		b, err := s.Books().GetBookByID(ctx, ids[1])
		require.NoError(t, err)
		require.Equal(t, "Title g2", b.Title)

		require.NoError(t, s.Books().DeleteBook(ctx, ids[1]))
		_, err = s.Books().GetBookByID(ctx, ids[1])
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestWithTxRollsBack(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	role, err := s.Roles().GetRoleByName(ctx, domain.DefaultRole)
	require.NoError(t, err)

	err = s.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().CreateUser(ctx, domain.User{Email: "tx@example.com", PasswordHash: "x", RoleID: role.ID})
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	exists, err := s.Users().ExistsByEmail(ctx, "tx@example.com")
	require.NoError(t, err)
	require.False(t, exists)

	require.NoError(t, s.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().CreateUser(ctx, domain.User{Email: "tx@example.com", PasswordHash: "x", RoleID: role.ID})
		return err
	}))

	exists, err = s.Users().ExistsByEmail(ctx, "tx@example.com")
	require.NoError(t, err)
	require.True(t, exists)
}
