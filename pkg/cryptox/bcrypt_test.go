package cryptox_test

import (
	"strings"
	"testing"

	"github.com/aussiebroadwan/shelf/pkg/cryptox"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"exactly 72 bytes", strings.Repeat("a", 72)},
		{"73 bytes", strings.Repeat("a", 73)},
		{"very long password", strings.Repeat("long-pass-", 50)},
		{"multibyte over the limit", strings.Repeat("密", 30)},
	}

	h := cryptox.NewBcryptHasher(bcrypt.MinCost)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := h.Hash(tt.password)
			require.NoError(t, err)
			require.NoError(t, h.Compare(hash, tt.password))
			require.ErrorIs(t, h.Compare(hash, tt.password+"x"), cryptox.ErrPasswordMismatch)
		})
	}
}

func TestBcryptHasher_LongPasswordsDifferPastLimit(t *testing.T) {
	h := cryptox.NewBcryptHasher(bcrypt.MinCost)
	prefix := strings.Repeat("a", 80)

	hash, err := h.Hash(prefix + "one")
	require.NoError(t, err)

	require.ErrorIs(t, h.Compare(hash, prefix+"two"), cryptox.ErrPasswordMismatch)
}

func TestBcryptHasher_ShortPasswordsStayPlainBcrypt(t *testing.T) {
	h := cryptox.NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("password123")
	require.NoError(t, err)

	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("password123")))
}
