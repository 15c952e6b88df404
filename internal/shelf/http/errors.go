package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/shelf/internal/shelf/catalog"
	"github.com/aussiebroadwan/shelf/internal/shelf/service"
	"github.com/aussiebroadwan/shelf/pkg/httpx"
	"github.com/aussiebroadwan/shelf/pkg/slogx"
)

var (
	errEmailTaken = httpx.NewAPIError(http.StatusBadRequest, "email_taken",
		"an account with this email already exists")
	errBadCredentials = httpx.ErrUnauthorized.WithDescription("invalid email or password")
	errSessionExpired = httpx.NewAPIError(http.StatusUnauthorized, "session_expired",
		"the refresh session has expired, sign in again")
	errNoSession = httpx.ErrUnauthorized.WithDescription("refresh session is missing or unknown")
)

// writeServiceError maps service and catalog errors onto API errors.
// Anything unrecognised is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		httpx.ErrInvalidRequest.WithDescription(err.Error()).WriteError(w)
	case errors.Is(err, service.ErrSessionExpired):
		errSessionExpired.WriteError(w)
	case errors.Is(err, service.ErrUnauthorized):
		httpx.ErrUnauthorized.WriteError(w)
	case errors.Is(err, service.ErrForbidden):
		httpx.ErrForbidden.WriteError(w)
	case errors.Is(err, service.ErrNotFound):
		httpx.ErrNotFound.WriteError(w)
	case errors.Is(err, service.ErrConflict):
		httpx.ErrConflict.WriteError(w)
	case errors.Is(err, catalog.ErrUpstream):
		slogx.FromContext(r.Context()).Warn("catalog request failed", "err", err)
		httpx.ErrBadGateway.WithDescription("the book catalog is unavailable").WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		httpx.ErrServerError.WriteError(w)
	}
}
