package postgres

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
	const op = "postgres.UpsertRefreshSession"

	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	err := r.q.QueryRowContext(ctx, `
INSERT INTO refresh_sessions (token_hash, user_id, expires_at, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id) DO UPDATE SET
    token_hash = EXCLUDED.token_hash,
    expires_at = EXCLUDED.expires_at,
    created_at = EXCLUDED.created_at
RETURNING id, expires_at, created_at`,
		s.TokenHash, s.UserID, s.ExpiresAt, s.CreatedAt,
	).Scan(&s.ID, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		return domain.RefreshSession{}, wrap(op, err)
	}

	s.ExpiresAt = s.ExpiresAt.UTC()
	s.CreatedAt = s.CreatedAt.UTC()
	return s, nil
}

func (r *refreshSessionsRepo) GetByTokenHash(ctx context.Context, hash string) (domain.RefreshSession, error) {
	const op = "postgres.GetRefreshSessionByTokenHash"

	var s domain.RefreshSession
	err := r.q.QueryRowContext(ctx,
		`SELECT id, token_hash, user_id, expires_at, created_at FROM refresh_sessions WHERE token_hash = $1`,
		hash,
	).Scan(&s.ID, &s.TokenHash, &s.UserID, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		return domain.RefreshSession{}, wrap(op, err)
	}

	s.ExpiresAt = s.ExpiresAt.UTC()
	s.CreatedAt = s.CreatedAt.UTC()
	return s, nil
}

func (r *refreshSessionsRepo) DeleteByUserID(ctx context.Context, userID int64) error {
	const op = "postgres.DeleteRefreshSessionByUserID"

	if _, err := r.q.ExecContext(ctx, `DELETE FROM refresh_sessions WHERE user_id = $1`, userID); err != nil {
		return wrap(op, err)
	}
	return nil
}

func (r *refreshSessionsRepo) DeleteByID(ctx context.Context, id int64) error {
	const op = "postgres.DeleteRefreshSessionByID"

	if _, err := r.q.ExecContext(ctx, `DELETE FROM refresh_sessions WHERE id = $1`, id); err != nil {
		return wrap(op, err)
	}
	return nil
}

func (r *refreshSessionsRepo) CountByUserID(ctx context.Context, userID int64) (int, error) {
	const op = "postgres.CountRefreshSessions"

	var n int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM refresh_sessions WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, wrap(op, err)
	}
	return n, nil
}

func (r *refreshSessionsRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const op = "postgres.DeleteExpiredRefreshSessions"

	res, err := r.q.ExecContext(ctx, `DELETE FROM refresh_sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, wrap(op, err)
	}
	return res.RowsAffected()
}
