package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/shelf/internal/shelf/domain"
	"github.com/aussiebroadwan/shelf/internal/shelf/store"
	"github.com/aussiebroadwan/shelf/internal/shelf/store/drivers/sqlite"
	"github.com/aussiebroadwan/shelf/pkg/cryptox"
	"github.com/aussiebroadwan/shelf/pkg/jwtx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "shelf.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

// fakeClock is a settable time source shared by the codec and sessions.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) RecordAuth(event, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event+":"+outcome)
}

type authFixture struct {
	store    store.Store
	codec    *jwtx.HS256Codec
	sessions *SessionService
	auth     *AuthService
	clock    *fakeClock
	metrics  *recorder
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	clock := &fakeClock{now: time.Now().UTC()}
	st := newTestStore(t)

	codec, err := jwtx.NewHS256Codec(testKey, jwtx.CodecOptions{Issuer: "shelf-test", Now: clock.Now})
	require.NoError(t, err)

	sessions := &SessionService{Store: st, TTL: jwtx.DefaultRefreshTokenTTL, Now: clock.Now}
	metrics := &recorder{}

	return &authFixture{
		store:    st,
		codec:    codec,
		sessions: sessions,
		clock:    clock,
		metrics:  metrics,
		auth: &AuthService{
			Store:    st,
			Codec:    codec,
			Hasher:   cryptox.NewBcryptHasher(bcrypt.MinCost),
			Sessions: sessions,
			Metrics:  metrics,
		},
	}
}

func (f *authFixture) sessionCount(t *testing.T, email string) int {
	t.Helper()
	ctx := context.Background()

	u, err := f.store.Users().GetUserByEmail(ctx, email)
	require.NoError(t, err)
	n, err := f.store.RefreshSessions().CountByUserID(ctx, u.ID)
	require.NoError(t, err)
	return n
}

func createTestUser(t *testing.T, st store.Store, email string) domain.User {
	t.Helper()
	ctx := context.Background()

	role, err := st.Roles().GetRoleByName(ctx, domain.DefaultRole)
	require.NoError(t, err)
	u, err := st.Users().CreateUser(ctx, domain.User{Email: email, PasswordHash: "x", RoleID: role.ID})
	require.NoError(t, err)
	u.Role = role.Name
	return u
}
