package jwtx

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinKeySize is the smallest HS256 secret accepted, in bytes.
const MinKeySize = 32

// TokenCodec issues and checks access tokens. The auth service and the
// request gate depend on this rather than on a concrete signer so tests
// can swap in their own.
type TokenCodec interface {
	// Issue signs a token for subject carrying role.
	Issue(subject, role string) (string, error)

	// ExtractSubject verifies the signature and returns the subject
	// without looking at exp/nbf.
	ExtractSubject(token string) (string, error)

	// IsValid reports whether token verifies, is unexpired and was issued
	// for subject.
	IsValid(token, subject string) bool
}

type CodecOptions struct {
	TTL    time.Duration // default DefaultAccessTokenTTL
	Issuer string        // empty disables the iss check
	Leeway time.Duration // allowed clock skew on exp/nbf

	// Now overrides the clock, mostly for tests.
	Now func() time.Time
}

// HS256Codec implements TokenCodec with a shared HMAC-SHA256 secret.
type HS256Codec struct {
	key    []byte
	ttl    time.Duration
	issuer string
	leeway time.Duration
	now    func() time.Time
}

var _ TokenCodec = (*HS256Codec)(nil)

func NewHS256Codec(key []byte, opts CodecOptions) (*HS256Codec, error) {
	if len(key) < MinKeySize {
		return nil, ErrWeakKey
	}

	c := &HS256Codec{
		key:    append([]byte(nil), key...),
		ttl:    opts.TTL,
		issuer: opts.Issuer,
		leeway: opts.Leeway,
		now:    opts.Now,
	}
	if c.ttl <= 0 {
		c.ttl = DefaultAccessTokenTTL
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c, nil
}

// TTL returns the lifetime given to issued tokens.
func (c *HS256Codec) TTL() time.Duration { return c.ttl }

func (c *HS256Codec) Issue(subject, role string) (string, error) {
	if subject == "" {
		return "", ErrInvalidClaim
	}
	claims := NewClaims(subject, role, c.issuer, c.ttl, c.now())
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
}

func (c *HS256Codec) ExtractSubject(token string) (string, error) {
	claims, err := c.parse(token, jwt.WithoutClaimsValidation())
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", ErrInvalidClaim
	}
	return claims.Subject, nil
}

// Parse fully verifies token, expiry included, and returns its claims.
func (c *HS256Codec) Parse(token string) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(c.leeway),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}
	return c.parse(token, opts...)
}

func (c *HS256Codec) IsValid(token, subject string) bool {
	if subject == "" {
		return false
	}
	claims, err := c.Parse(token)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(claims.Subject), []byte(subject)) == 1
}

func (c *HS256Codec) parse(token string, opts ...jwt.ParserOption) (Claims, error) {
	if token == "" {
		return Claims{}, ErrMalformed
	}

	opts = append(opts, jwt.WithTimeFunc(c.now))
	parser := jwt.NewParser(opts...)

	var claims Claims
	_, err := parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrAlgMismatch
		}
		return c.key, nil
	})
	if err != nil {
		return Claims{}, mapParseError(err)
	}
	return claims, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, ErrAlgMismatch), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrAlgMismatch
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrIssuer
	default:
		return ErrInvalidClaim
	}
}
