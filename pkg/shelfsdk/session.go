package shelfsdk

import (
	"context"
	"net/http"
	"sync"
)

// Session is a signed-in user. Methods that get a 401 refresh the access
// token once through the client's refresh cookie and retry.
type Session struct {
	client *SDKClient

	mu          sync.RWMutex
	accessToken string
}

func newSession(client *SDKClient, accessToken string) *Session {
	return &Session{client: client, accessToken: accessToken}
}

// AccessToken returns the current bearer token.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// Refresh fetches a new access token now.
func (s *Session) Refresh(ctx context.Context) error {
	tok, err := s.client.Refresh(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.accessToken = tok.Token
	s.mu.Unlock()
	return nil
}

// Logout clears the refresh cookie and forgets the access token.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.client.Logout(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.accessToken = ""
	s.mu.Unlock()
	return nil
}

// doAuthRequest sends an authenticated request, refreshing once on 401.
func (s *Session) doAuthRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	resp, err := s.client.send(ctx, method, path, body, s.AccessToken())
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	if refreshErr := s.Refresh(ctx); refreshErr != nil {
		// Hand back the original 401 so the caller sees the server's error.
		return resp, nil
	}
	resp.Body.Close()

	return s.client.send(ctx, method, path, body, s.AccessToken())
}
