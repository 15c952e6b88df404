package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/shelf/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestLookupIdentity(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	u := createTestUser(t, st, "who@example.com")
	svc := &UserService{Store: st}

	id, err := svc.LookupIdentity(ctx, "who@example.com")
	require.NoError(t, err)
	require.Equal(t, httpx.Identity{
		UserID:      u.ID,
		Email:       "who@example.com",
		Role:        "USER",
		Authorities: []string{"ROLE_USER"},
	}, id)

	_, err = svc.LookupIdentity(ctx, "nobody@example.com")
	require.ErrorIs(t, err, httpx.ErrIdentityNotFound)
}
