package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/shelf/internal/shelf/service"
	"github.com/aussiebroadwan/shelf/pkg/httpx"
)

// RefreshCookieName is the cookie that carries the refresh token.
const RefreshCookieName = "refreshToken"

// AuthHandler serves the public /auth endpoints.
type AuthHandler struct {
	AuthService *service.AuthService

	// CookieSecure sets the Secure attribute. Only turn it off for local
	// development over plain http.
	CookieSecure bool
	CookieMaxAge int
}

// HandleRegister handles POST /auth/register
//
//	@Summary		Register
//	@Description	Creates a USER account and signs it in. The refresh token is set as an HttpOnly cookie.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CredentialsRequest	true	"email and password (at least 8 characters)"
//	@Success		200		{object}	TokenResponse		"access token"
//	@Header			200		{string}	Set-Cookie			"refreshToken=...; Path=/; HttpOnly; Secure; SameSite=Lax"
//	@Failure		400		{object}	ErrorResponse		"email taken, short password or malformed body"
//	@Failure		500		{object}	ErrorResponse
//	@Router			/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.ErrInvalidRequest.WithDescription("invalid JSON in request body").WriteError(w)
		return
	}

	res, err := h.AuthService.Register(r.Context(), req.Email, req.Password)
	if errors.Is(err, service.ErrConflict) {
		errEmailTaken.WriteError(w)
		return
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.writeSession(w, res)
}

// HandleLogin handles POST /auth/login
//
//	@Summary		Login
//	@Description	Verifies credentials, replaces the caller's refresh session and returns a new access token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CredentialsRequest	true	"email and password"
//	@Success		200		{object}	TokenResponse		"access token"
//	@Header			200		{string}	Set-Cookie			"refreshToken=...; Path=/; HttpOnly; Secure; SameSite=Lax"
//	@Failure		400		{object}	ErrorResponse		"malformed body"
//	@Failure		401		{object}	ErrorResponse		"invalid email or password"
//	@Router			/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.ErrInvalidRequest.WithDescription("invalid JSON in request body").WriteError(w)
		return
	}

	res, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, service.ErrUnauthorized) {
		errBadCredentials.WriteError(w)
		return
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.writeSession(w, res)
}

// HandleRefresh handles POST /auth/refresh
//
//	@Summary		Refresh access token
//	@Description	Mints a new access token from the refreshToken cookie. The refresh session is not rotated.
//	@Tags			Auth
//	@Produce		json
//	@Param			refreshToken	cookie		string			true	"refresh token"
//	@Success		200				{object}	TokenResponse	"access token"
//	@Failure		401				{object}	ErrorResponse	"missing, unknown or expired session"
//	@Failure		500				{object}	ErrorResponse
//	@Router			/auth/refresh [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(RefreshCookieName)
	if err != nil || c.Value == "" {
		errNoSession.WriteError(w)
		return
	}

	res, err := h.AuthService.Refresh(r.Context(), c.Value)
	switch {
	case errors.Is(err, service.ErrSessionExpired):
		h.clearCookie(w)
		errSessionExpired.WriteError(w)
		return
	case errors.Is(err, service.ErrUnauthorized):
		errNoSession.WriteError(w)
		return
	case err != nil:
		writeServiceError(w, r, err)
		return
	}

	h.writeSession(w, res)
}

// HandleLogout handles POST /auth/logout
//
//	@Summary		Logout
//	@Description	Clears the refreshToken cookie. The server-side session is kept until it expires or the user signs in again.
//	@Tags			Auth
//	@Success		204	"cookie cleared"
//	@Router			/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	var token string
	if c, err := r.Cookie(RefreshCookieName); err == nil {
		token = c.Value
	}

	h.AuthService.Logout(r.Context(), token)

	h.clearCookie(w)
	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) writeSession(w http.ResponseWriter, res service.AuthResult) {
	http.SetCookie(w, h.cookie(res.Session.Token, h.CookieMaxAge))
	httpx.WriteJSON(w, http.StatusOK, TokenResponse{Token: res.AccessToken})
}

func (h *AuthHandler) clearCookie(w http.ResponseWriter) {
	// A negative MaxAge is written as Max-Age=0.
	http.SetCookie(w, h.cookie("", -1))
}

func (h *AuthHandler) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     RefreshCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
