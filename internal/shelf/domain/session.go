package domain

import "time"

// RefreshSession is the single persisted refresh credential of a user.
// Token holds the raw value only right after creation; the store keeps
// TokenHash.
type RefreshSession struct {
	ID        int64
	UserID    int64
	Token     string
	TokenHash string // base64url SHA-256 of Token
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session is no longer usable at now.
func (s RefreshSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
