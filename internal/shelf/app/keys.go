package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/shelf/pkg/cryptox"
	"github.com/aussiebroadwan/shelf/pkg/jwtx"
	"golang.org/x/crypto/bcrypt"
)

// InitCodec builds the access token codec.
//
// The HMAC secret comes from SHELF_JWT_SECRET when set. Otherwise it is
// read from SHELF_JWT_SECRET_FILE, which is created with a fresh 256-bit
// secret on first start so tokens survive restarts.
func InitCodec(cfg Config, logger *slog.Logger) (*jwtx.HS256Codec, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		var err error
		secret, err = cryptox.LoadOrCreateSecret(cfg.JWTSecretFile, cryptox.TokenSize256)
		if err != nil {
			return nil, fmt.Errorf("load jwt secret: %w", err)
		}
		logger.Info("jwt secret loaded", "path", cfg.JWTSecretFile)
	}

	codec, err := jwtx.NewHS256Codec(cryptox.DecodeSecret(secret), jwtx.CodecOptions{
		TTL:    cfg.AccessTokenTTL,
		Issuer: cfg.JWTIssuer,
	})
	if err != nil {
		return nil, fmt.Errorf("jwt codec: %w", err)
	}
	return codec, nil
}

// InitHasher picks the password hasher. argon2id is peppered with the
// contents of SHELF_PEPPER_FILE.
func InitHasher(cfg Config, logger *slog.Logger) (cryptox.PasswordHasher, error) {
	switch cfg.PasswordHasher {
	case HasherBcrypt:
		logger.Info("password hasher selected", "algorithm", HasherBcrypt)
		return cryptox.NewBcryptHasher(bcrypt.DefaultCost), nil
	case HasherArgon2id:
		pepper, err := cryptox.LoadOrCreateSecret(cfg.PepperFile, cryptox.TokenSize256)
		if err != nil {
			return nil, fmt.Errorf("load pepper: %w", err)
		}
		logger.Info("password hasher selected", "algorithm", HasherArgon2id)
		return cryptox.NewArgon2Hasher(pepper), nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", cfg.PasswordHasher)
	}
}
