package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/shelf/pkg/cryptox"
	"github.com/aussiebroadwan/shelf/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestInitCodecPersistsGeneratedSecret(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		JWTSecretFile:  filepath.Join(dir, "jwt.secret"),
		JWTIssuer:      "shelf",
		AccessTokenTTL: 0,
	}

	first, err := InitCodec(cfg, slogx.Discard())
	require.NoError(t, err)

	token, err := first.Issue("reader@example.com", "USER")
	require.NoError(t, err)

	_, err = os.Stat(cfg.JWTSecretFile)
	require.NoError(t, err)

	// A restart reads the same secret back, so old tokens still verify.
	second, err := InitCodec(cfg, slogx.Discard())
	require.NoError(t, err)
	require.True(t, second.IsValid(token, "reader@example.com"))
}

func TestInitCodecPrefersExplicitSecret(t *testing.T) {
	cfg := Config{
		JWTSecret:     "an-explicit-secret-that-is-long-enough-for-hs256",
		JWTSecretFile: filepath.Join(t.TempDir(), "unused"),
	}

	_, err := InitCodec(cfg, slogx.Discard())
	require.NoError(t, err)

	_, err = os.Stat(cfg.JWTSecretFile)
	require.True(t, os.IsNotExist(err))
}

func TestInitCodecRejectsShortSecret(t *testing.T) {
	_, err := InitCodec(Config{JWTSecret: "short"}, slogx.Discard())
	require.Error(t, err)
}

func TestInitHasher(t *testing.T) {
	dir := t.TempDir()

	h, err := InitHasher(Config{PasswordHasher: HasherBcrypt}, slogx.Discard())
	require.NoError(t, err)
	require.IsType(t, &cryptox.BcryptHasher{}, h)

	h, err = InitHasher(Config{PasswordHasher: HasherArgon2id, PepperFile: filepath.Join(dir, "pepper")}, slogx.Discard())
	require.NoError(t, err)
	require.IsType(t, &cryptox.Argon2Hasher{}, h)

	hash, err := h.Hash("password123")
	require.NoError(t, err)
	require.NoError(t, h.Compare(hash, "password123"))

	_, err = InitHasher(Config{PasswordHasher: "md5"}, slogx.Discard())
	require.Error(t, err)
}
