package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/shelf/internal/shelf/domain"
)

type refreshSessionsRepo struct {
	q querier
}

func (r *refreshSessionsRepo) UpsertForUser(
	ctx context.Context,
	s domain.RefreshSession,
) (domain.RefreshSession, error) {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	var expires, created int64
	err := r.q.QueryRowContext(ctx, `
INSERT INTO refresh_sessions (token_hash, user_id, expires_at, created_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (user_id) DO UPDATE SET
    token_hash = excluded.token_hash,
    expires_at = excluded.expires_at,
    created_at = excluded.created_at
RETURNING id, expires_at, created_at`,
		s.TokenHash, s.UserID, toMillis(s.ExpiresAt), toMillis(s.CreatedAt),
	).Scan(&s.ID, &expires, &created)
	if err != nil {
		return domain.RefreshSession{}, mapConstraint(err)
	}

	s.ExpiresAt = fromMillis(expires)
	s.CreatedAt = fromMillis(created)
	return s, nil
}

func (r *refreshSessionsRepo) GetByTokenHash(ctx context.Context, hash string) (domain.RefreshSession, error) {
	var (
		s                domain.RefreshSession
		expires, created int64
	)
	err := r.q.QueryRowContext(ctx,
		`SELECT id, token_hash, user_id, expires_at, created_at FROM refresh_sessions WHERE token_hash = ?`,
		hash,
	).Scan(&s.ID, &s.TokenHash, &s.UserID, &expires, &created)
	if err != nil {
		return domain.RefreshSession{}, mapNotFound(err)
	}

	s.ExpiresAt = fromMillis(expires)
	s.CreatedAt = fromMillis(created)
	return s, nil
}

func (r *refreshSessionsRepo) DeleteByUserID(ctx context.Context, userID int64) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM refresh_sessions WHERE user_id = ?`, userID)
	return err
}

func (r *refreshSessionsRepo) DeleteByID(ctx context.Context, id int64) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM refresh_sessions WHERE id = ?`, id)
	return err
}

func (r *refreshSessionsRepo) CountByUserID(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM refresh_sessions WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}

func (r *refreshSessionsRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM refresh_sessions WHERE expires_at <= ?`, toMillis(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
