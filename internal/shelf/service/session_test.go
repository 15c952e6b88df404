package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/shelf/internal/shelf/store"
	"github.com/aussiebroadwan/shelf/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestReplace(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	u := createTestUser(t, f.store, "replace@example.com")

	first, err := f.sessions.Replace(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, first.ExpiresAt.After(f.clock.Now().Add(7*24*time.Hour-time.Second)))

	t.Run("only the fingerprint is stored", func(t *testing.T) {
		got, err := f.store.RefreshSessions().GetByTokenHash(ctx, cryptox.FingerprintToken(first.Token))
		require.NoError(t, err)
		require.Empty(t, got.Token)
		require.NotEqual(t, first.Token, got.TokenHash)
	})

	t.Run("twice leaves one session and forgets the old token", func(t *testing.T) {
		second, err := f.sessions.Replace(ctx, u.ID)
		require.NoError(t, err)
		require.NotEqual(t, first.Token, second.Token)

		n, err := f.store.RefreshSessions().CountByUserID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, 1, n)

		_, err = f.sessions.FindByToken(ctx, first.Token)
		require.ErrorIs(t, err, store.ErrNotFound)

		got, err := f.sessions.FindByToken(ctx, second.Token)
		require.NoError(t, err)
		require.Equal(t, u.ID, got.UserID)
	})

	t.Run("concurrent replace never duplicates", func(t *testing.T) {
		var wg sync.WaitGroup
		errs := make(chan error, 8)
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := f.sessions.Replace(ctx, u.ID)
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		n, err := f.store.RefreshSessions().CountByUserID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, 1, n)
	})
}

func TestVerifyNotExpired(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	u := createTestUser(t, f.store, "expiry@example.com")

	s, err := f.sessions.Replace(ctx, u.ID)
	require.NoError(t, err)

	got, err := f.sessions.VerifyNotExpired(ctx, s)
	require.NoError(t, err)
	require.Equal(t, s.ID, got.ID)

	f.clock.Advance(8 * 24 * time.Hour)

	_, err = f.sessions.VerifyNotExpired(ctx, s)
	require.ErrorIs(t, err, ErrSessionExpired)

	_, err = f.sessions.FindByToken(ctx, s.Token)
	require.ErrorIs(t, err, store.ErrNotFound)

	// Deleting an already removed row is fine.
	_, err = f.sessions.VerifyNotExpired(ctx, s)
	require.ErrorIs(t, err, ErrSessionExpired)
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	u := createTestUser(t, f.store, "revoke@example.com")

	s, err := f.sessions.Replace(ctx, u.ID)
	require.NoError(t, err)

	require.NoError(t, f.sessions.Revoke(ctx, u.ID))
	require.NoError(t, f.sessions.Revoke(ctx, u.ID))

	_, err = f.sessions.FindByToken(ctx, s.Token)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCookieMaxAge(t *testing.T) {
	require.Equal(t, 604800, (&SessionService{}).CookieMaxAge())
	require.Equal(t, 3600, (&SessionService{TTL: time.Hour}).CookieMaxAge())
}
