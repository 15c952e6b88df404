package service

import (
	"context"

	"github.com/aussiebroadwan/shelf/internal/shelf/store"
	"github.com/aussiebroadwan/shelf/pkg/httpx"
)

type UserService struct {
	Store store.Store
}

var _ httpx.IdentityLookup = (*UserService)(nil)

// LookupIdentity resolves a token subject to the user's current identity.
// The role comes from the store, not from the token.
func (s *UserService) LookupIdentity(ctx context.Context, email string) (httpx.Identity, error) {
	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if isNotFound(err) {
		return httpx.Identity{}, httpx.ErrIdentityNotFound
	}
	if err != nil {
		return httpx.Identity{}, err
	}

	return httpx.Identity{
		UserID:      u.ID,
		Email:       u.Email,
		Role:        u.Role,
		Authorities: u.Authorities(),
	}, nil
}
