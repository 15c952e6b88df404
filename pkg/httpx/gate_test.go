package httpx_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/shelf/pkg/httpx"
	"github.com/aussiebroadwan/shelf/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

type stubLookup struct {
	users map[string]httpx.Identity
	err   error
	calls int
}

func (s *stubLookup) LookupIdentity(_ context.Context, email string) (httpx.Identity, error) {
	s.calls++
	if s.err != nil {
		return httpx.Identity{}, s.err
	}
	id, ok := s.users[email]
	if !ok {
		return httpx.Identity{}, httpx.ErrIdentityNotFound
	}
	return id, nil
}

type gateFixture struct {
	codec   *jwtx.HS256Codec
	lookup  *stubLookup
	handler http.Handler

	seen    httpx.Identity
	hasSeen bool
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()

	codec, err := jwtx.NewHS256Codec([]byte("0123456789abcdef0123456789abcdef"), jwtx.CodecOptions{})
	require.NoError(t, err)

	f := &gateFixture{
		codec: codec,
		lookup: &stubLookup{users: map[string]httpx.Identity{
			"alice@example.com": {UserID: 1, Email: "alice@example.com", Role: "USER", Authorities: []string{"ROLE_USER"}},
			"bob@example.com":   {UserID: 2, Email: "bob@example.com", Role: "ADMIN", Authorities: []string{"ROLE_ADMIN"}},
		}},
	}

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.seen, f.hasSeen = httpx.IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	f.handler = httpx.Chain(inner, httpx.Gate(httpx.GateConfig{
		Codec:          codec,
		Identities:     f.lookup,
		PublicPrefixes: []string{"/auth", "/livez"},
	}))
	return f
}

func (f *gateFixture) do(path, authz string) *httptest.ResponseRecorder {
	f.seen, f.hasSeen = httpx.Identity{}, false
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestGate_BindsIdentityForValidToken(t *testing.T) {
	f := newGateFixture(t)
	token, err := f.codec.Issue("alice@example.com", "USER")
	require.NoError(t, err)

	rec := f.do("/api/books", "Bearer "+token)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.True(t, f.hasSeen)
	require.Equal(t, int64(1), f.seen.UserID)
	require.Equal(t, []string{"ROLE_USER"}, f.seen.Authorities)
}

func TestGate_UsesLiveRoleNotClaim(t *testing.T) {
	f := newGateFixture(t)
	// token claims ADMIN but the store says alice is a USER
	token, err := f.codec.Issue("alice@example.com", "ADMIN")
	require.NoError(t, err)

	f.do("/api/books", "Bearer "+token)

	require.True(t, f.hasSeen)
	require.Equal(t, "USER", f.seen.Role)
}

func TestGate_PassesThroughAnonymous(t *testing.T) {
	f := newGateFixture(t)

	expired, err := jwtx.NewHS256Codec([]byte("0123456789abcdef0123456789abcdef"), jwtx.CodecOptions{
		Now: func() time.Time { return time.Now().Add(-48 * time.Hour) },
	})
	require.NoError(t, err)
	oldToken, err := expired.Issue("alice@example.com", "USER")
	require.NoError(t, err)

	ghost, err := f.codec.Issue("ghost@example.com", "USER")
	require.NoError(t, err)

	tests := []struct {
		name  string
		authz string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"empty bearer", "Bearer "},
		{"bearer with spaces", "Bearer a b"},
		{"garbage token", "Bearer not-a-jwt"},
		{"expired token", "Bearer " + oldToken},
		{"unknown user", "Bearer " + ghost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do("/api/books", tt.authz)
			require.Equal(t, http.StatusNoContent, rec.Code, "gate never rejects")
			require.False(t, f.hasSeen)
		})
	}
}

func TestGate_SkipsPublicPaths(t *testing.T) {
	f := newGateFixture(t)
	token, err := f.codec.Issue("alice@example.com", "USER")
	require.NoError(t, err)

	for _, path := range []string{"/auth", "/auth/login", "/livez"} {
		f.do(path, "Bearer "+token)
		require.False(t, f.hasSeen, path)
	}
	require.Zero(t, f.lookup.calls)

	// a prefix match must be on a path segment boundary
	f.do("/authors", "Bearer "+token)
	require.True(t, f.hasSeen)
}

func TestGate_DoesNotOverwriteBoundIdentity(t *testing.T) {
	f := newGateFixture(t)
	token, err := f.codec.Issue("bob@example.com", "ADMIN")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	pre := httpx.Identity{UserID: 1, Email: "alice@example.com", Role: "USER"}
	req = req.WithContext(httpx.WithIdentity(req.Context(), pre))

	f.handler.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, f.hasSeen)
	require.Equal(t, pre, f.seen)
	require.Zero(t, f.lookup.calls)
}

func TestGate_StoreErrorIsAnonymous(t *testing.T) {
	f := newGateFixture(t)
	f.lookup.err = errors.New("database is locked")
	token, err := f.codec.Issue("alice@example.com", "USER")
	require.NoError(t, err)

	rec := f.do("/api/books", "Bearer "+token)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.False(t, f.hasSeen)
}

func TestRequireIdentity(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := httpx.Chain(ok, httpx.RequireIdentity())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/books", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
	require.JSONEq(t, `{"error":"unauthorized","error_description":"authentication is required"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	req = req.WithContext(httpx.WithIdentity(req.Context(), httpx.Identity{UserID: 7}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer abc.def.ghi")
	tok, ok := httpx.BearerToken(req)
	require.True(t, ok)
	require.Equal(t, "abc.def.ghi", tok)
}
