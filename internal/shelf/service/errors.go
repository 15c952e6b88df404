package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid_input")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not_found")

	// ErrSessionExpired is an ErrUnauthorized; the session row is gone by
	// the time a caller sees it.
	ErrSessionExpired = fmt.Errorf("%w: session_expired", ErrUnauthorized)

	// ErrUserNotFound means a refresh session outlived its user. It is a
	// server fault, not a client one.
	ErrUserNotFound = errors.New("user_not_found")
)
