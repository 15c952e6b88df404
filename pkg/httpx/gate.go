package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/shelf/pkg/jwtx"
	"github.com/aussiebroadwan/shelf/pkg/slogx"
)

// ErrIdentityNotFound is returned by an IdentityLookup when the token
// subject does not resolve to a user.
var ErrIdentityNotFound = errors.New("httpx: identity not found")

// IdentityLookup resolves a token subject (email) to the caller's live
// identity.
type IdentityLookup interface {
	LookupIdentity(ctx context.Context, email string) (Identity, error)
}

type GateConfig struct {
	Codec      jwtx.TokenCodec
	Identities IdentityLookup

	// PublicPrefixes are path prefixes served without looking at the
	// Authorization header at all.
	PublicPrefixes []string
}

// Gate authenticates bearer tokens and binds the caller's Identity into
// the request context. It never rejects a request: anything it cannot
// authenticate continues anonymously and RequireIdentity (or the
// handler) decides whether that is acceptable.
func Gate(cfg GateConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if _, bound := IdentityFromContext(ctx); bound || cfg.isPublic(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := BearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			id, err := cfg.authenticate(ctx, token)
			if err != nil {
				log := slogx.FromContext(ctx)
				if errors.Is(err, ErrIdentityNotFound) || isTokenError(err) {
					log.Debug("bearer token not accepted", "err", err)
				} else {
					log.Warn("bearer authentication failed", "err", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx = slogx.With(WithIdentity(ctx, id), "user_id", id.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (cfg GateConfig) authenticate(ctx context.Context, token string) (Identity, error) {
	email, err := cfg.Codec.ExtractSubject(token)
	if err != nil {
		return Identity{}, err
	}

	id, err := cfg.Identities.LookupIdentity(ctx, email)
	if err != nil {
		return Identity{}, err
	}

	if !cfg.Codec.IsValid(token, id.Email) {
		return Identity{}, jwtx.ErrInvalidClaim
	}
	return id, nil
}

func (cfg GateConfig) isPublic(path string) bool {
	for _, p := range cfg.PublicPrefixes {
		p = strings.TrimSuffix(p, "/")
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

func isTokenError(err error) bool {
	for _, target := range []error{
		jwtx.ErrMalformed, jwtx.ErrInvalidSig, jwtx.ErrAlgMismatch, jwtx.ErrExpired,
		jwtx.ErrNotYetValid, jwtx.ErrIssuer, jwtx.ErrInvalidClaim,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// BearerToken extracts the credential from "Authorization: Bearer <token>".
func BearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(authz, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

// RequireIdentity rejects requests that reach it without a bound identity.
func RequireIdentity() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := IdentityFromContext(r.Context()); !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="shelf"`)
				ErrUnauthorized.WriteError(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
