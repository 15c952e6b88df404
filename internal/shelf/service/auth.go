package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/aussiebroadwan/shelf/internal/shelf/domain"
	"github.com/aussiebroadwan/shelf/internal/shelf/store"
	"github.com/aussiebroadwan/shelf/pkg/cryptox"
	"github.com/aussiebroadwan/shelf/pkg/jwtx"
	"github.com/aussiebroadwan/shelf/pkg/slogx"
)

// MinPasswordLength is counted in characters, not bytes.
const MinPasswordLength = 8

// AuthRecorder receives one call per auth event. *metricsx.Metrics
// satisfies it.
type AuthRecorder interface {
	RecordAuth(event, outcome string)
}

// AuthResult is what register, login and refresh hand back to the HTTP
// layer: a bearer token and the session backing the refresh cookie.
type AuthResult struct {
	AccessToken string
	Session     domain.RefreshSession
}

type AuthService struct {
	Store    store.Store
	Codec    jwtx.TokenCodec
	Hasher   cryptox.PasswordHasher
	Sessions *SessionService
	Metrics  AuthRecorder // optional

	dummyOnce sync.Once
	dummyHash string
}

// Register creates a USER account and signs it straight in.
func (s *AuthService) Register(ctx context.Context, email, password string) (AuthResult, error) {
	l := slogx.FromContext(ctx)

	email = strings.TrimSpace(email)
	if email == "" {
		return AuthResult{}, s.fail("register", fmt.Errorf("%w: email is required", ErrInvalidInput))
	}

	// An existing account wins over a bad password.
	exists, err := s.Store.Users().ExistsByEmail(ctx, email)
	if err != nil {
		return AuthResult{}, err
	}
	if exists {
		l.Info("registration rejected, email taken")
		return AuthResult{}, s.fail("register", ErrConflict)
	}

	if utf8.RuneCountInString(password) < MinPasswordLength {
		return AuthResult{}, s.fail("register",
			fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength))
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	var user domain.User
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		role, err := tx.Roles().GetRoleByName(ctx, domain.DefaultRole)
		if err != nil {
			return fmt.Errorf("resolve role %q: %w", domain.DefaultRole, err)
		}

		user, err = tx.Users().CreateUser(ctx, domain.User{
			Email:        email,
			PasswordHash: hash,
			RoleID:       role.ID,
		})
		if err != nil {
			return err
		}
		user.Role = role.Name
		return nil
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return AuthResult{}, s.fail("register", ErrConflict)
	}
	if err != nil {
		return AuthResult{}, err
	}

	res, err := s.signIn(ctx, user)
	if err != nil {
		return AuthResult{}, err
	}

	l.Info("user registered", slog.Int64("user_id", user.ID))
	s.record("register", "success")
	return res, nil
}

// Login checks credentials and rotates the user's refresh session.
// Unknown email and wrong password look the same to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	l := slogx.FromContext(ctx)
	email = strings.TrimSpace(email)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if isNotFound(err) {
		s.burnCompare(password)
		l.Info("login failed", slog.String("reason", "unknown_email"))
		return AuthResult{}, s.fail("login", ErrUnauthorized)
	}
	if err != nil {
		return AuthResult{}, err
	}

	if err := s.Hasher.Compare(user.PasswordHash, password); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			l.Error("stored password hash unreadable", slog.Int64("user_id", user.ID), "err", err)
		}
		l.Info("login failed", slog.String("reason", "bad_password"), slog.Int64("user_id", user.ID))
		return AuthResult{}, s.fail("login", ErrUnauthorized)
	}

	res, err := s.signIn(ctx, user)
	if err != nil {
		return AuthResult{}, err
	}

	l.Info("user logged in", slog.Int64("user_id", user.ID))
	s.record("login", "success")
	return res, nil
}

// Refresh mints a new access token from a refresh token. The session
// itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	l := slogx.FromContext(ctx)

	session, err := s.Sessions.FindByToken(ctx, refreshToken)
	if isNotFound(err) {
		l.Info("refresh rejected", slog.String("reason", "unknown_session"))
		return AuthResult{}, s.fail("refresh", ErrUnauthorized)
	}
	if err != nil {
		return AuthResult{}, err
	}

	session, err = s.Sessions.VerifyNotExpired(ctx, session)
	if errors.Is(err, ErrSessionExpired) {
		l.Info("refresh rejected", slog.String("reason", "expired"))
		return AuthResult{}, s.fail("refresh", err)
	}
	if err != nil {
		return AuthResult{}, err
	}

	user, err := s.Store.Users().GetUserByID(ctx, session.UserID)
	if isNotFound(err) {
		l.Error("refresh session without user", slog.Int64("user_id", session.UserID))
		return AuthResult{}, s.fail("refresh", ErrUserNotFound)
	}
	if err != nil {
		return AuthResult{}, err
	}

	token, err := s.Codec.Issue(user.Email, user.Role)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue access token: %w", err)
	}

	s.record("refresh", "success")
	return AuthResult{AccessToken: token, Session: session}, nil
}

// Logout only records the event. The refresh session stays valid until
// it expires or the user signs in again; the HTTP layer clears the
// cookie.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	// TODO: revoke the server-side session once clients stop relying on a
	// refresh token surviving logout.
	slogx.FromContext(ctx).Info("user logged out", slog.Bool("had_session_cookie", refreshToken != ""))
	s.record("logout", "success")
}

func (s *AuthService) signIn(ctx context.Context, user domain.User) (AuthResult, error) {
	token, err := s.Codec.Issue(user.Email, user.Role)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue access token: %w", err)
	}

	session, err := s.Sessions.Replace(ctx, user.ID)
	if err != nil {
		return AuthResult{}, fmt.Errorf("replace refresh session: %w", err)
	}

	return AuthResult{AccessToken: token, Session: session}, nil
}

// burnCompare spends one hash comparison so an unknown email costs about
// as much as a wrong password.
func (s *AuthService) burnCompare(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.Hasher.Hash("shelf-timing-equaliser")
	})
	if s.dummyHash != "" {
		_ = s.Hasher.Compare(s.dummyHash, password)
	}
}

func (s *AuthService) fail(event string, err error) error {
	s.record(event, "failure")
	return err
}

func (s *AuthService) record(event, outcome string) {
	if s.Metrics != nil {
		s.Metrics.RecordAuth(event, outcome)
	}
}
