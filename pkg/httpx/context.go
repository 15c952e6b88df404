package httpx

import "context"

type ctxKey string

const ctxKeyIdentity ctxKey = "identity"

// Identity is the authenticated caller bound by Gate.
type Identity struct {
	UserID      int64
	Email       string
	Role        string
	Authorities []string
}

// WithIdentity binds id to ctx. An identity that is already bound is kept.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	if _, ok := IdentityFromContext(ctx); ok {
		return ctx
	}
	return context.WithValue(ctx, ctxKeyIdentity, id)
}

// IdentityFromContext returns the identity bound by Gate, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKeyIdentity).(Identity)
	return id, ok
}
