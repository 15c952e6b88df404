package shelfsdk

import (
	"context"
	"net/http"
)

// Register creates an account and returns a signed-in Session.
func (c *SDKClient) Register(ctx context.Context, email, password string) (*Session, error) {
	tok, err := c.postCredentials(ctx, "/auth/register", email, password)
	if err != nil {
		return nil, err
	}
	return newSession(c, tok.Token), nil
}

// Login signs in with email and password.
func (c *SDKClient) Login(ctx context.Context, email, password string) (*Session, error) {
	tok, err := c.postCredentials(ctx, "/auth/login", email, password)
	if err != nil {
		return nil, err
	}
	return newSession(c, tok.Token), nil
}

// Refresh trades the refresh cookie held in the client's jar for a new
// access token.
func (c *SDKClient) Refresh(ctx context.Context) (*TokenResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/refresh", nil)
	if err != nil {
		return nil, err
	}

	var tok TokenResponse
	if err := decodeJSON(resp, &tok, http.StatusOK); err != nil {
		return nil, err
	}
	return &tok, nil
}

// Logout asks the server to clear the refresh cookie.
func (c *SDKClient) Logout(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/logout", nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

func (c *SDKClient) postCredentials(ctx context.Context, path, email, password string) (*TokenResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, path, credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	var tok TokenResponse
	if err := decodeJSON(resp, &tok, http.StatusOK); err != nil {
		return nil, err
	}
	return &tok, nil
}
