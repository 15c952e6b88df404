package service

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/shelf/internal/shelf/domain"
	"github.com/aussiebroadwan/shelf/internal/shelf/store"
	"github.com/aussiebroadwan/shelf/pkg/cryptox"
	"github.com/aussiebroadwan/shelf/pkg/jwtx"
)

// SessionService manages the single refresh session each user may hold.
type SessionService struct {
	Store store.Store
	TTL   time.Duration

	// Now overrides the clock in tests.
	Now func() time.Time
}

// Replace drops whatever session the user has and stores a fresh one.
// The returned session carries the raw token; only its fingerprint is
// persisted.
func (s *SessionService) Replace(ctx context.Context, userID int64) (domain.RefreshSession, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.RefreshSession{}, err
	}

	now := s.now()
	session := domain.RefreshSession{
		UserID:    userID,
		TokenHash: cryptox.FingerprintToken(token),
		ExpiresAt: now.Add(s.ttl()),
		CreatedAt: now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RefreshSessions().DeleteByUserID(ctx, userID); err != nil {
			return err
		}

		// The upsert keeps a concurrent Replace for the same user from
		// leaving two rows behind.
		saved, err := tx.RefreshSessions().UpsertForUser(ctx, session)
		if err != nil {
			return err
		}
		session = saved
		return nil
	})
	if err != nil {
		return domain.RefreshSession{}, err
	}

	session.Token = token
	return session, nil
}

// FindByToken returns store.ErrNotFound for empty or unknown tokens.
func (s *SessionService) FindByToken(ctx context.Context, token string) (domain.RefreshSession, error) {
	if token == "" {
		return domain.RefreshSession{}, store.ErrNotFound
	}

	session, err := s.Store.RefreshSessions().GetByTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		return domain.RefreshSession{}, err
	}
	session.Token = token
	return session, nil
}

// VerifyNotExpired deletes an expired session and reports ErrSessionExpired.
func (s *SessionService) VerifyNotExpired(
	ctx context.Context,
	session domain.RefreshSession,
) (domain.RefreshSession, error) {
	if !session.Expired(s.now()) {
		return session, nil
	}

	if err := s.Store.RefreshSessions().DeleteByID(ctx, session.ID); err != nil {
		return domain.RefreshSession{}, err
	}
	return domain.RefreshSession{}, ErrSessionExpired
}

// Revoke removes the user's session. Revoking a user with no session is
// not an error.
func (s *SessionService) Revoke(ctx context.Context, userID int64) error {
	return s.Store.RefreshSessions().DeleteByUserID(ctx, userID)
}

// CookieMaxAge is the refresh cookie lifetime in whole seconds.
func (s *SessionService) CookieMaxAge() int {
	return int(s.ttl() / time.Second)
}

func (s *SessionService) ttl() time.Duration {
	if s.TTL <= 0 {
		return jwtx.DefaultRefreshTokenTTL
	}
	return s.TTL
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
