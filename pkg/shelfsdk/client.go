package shelfsdk

import (
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// SDKClient is a client for the shelf API. It serves the public endpoints
// and creates authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a client whose HTTP client keeps cookies, which is
// where the refresh token lives.
func NewSDKClient(baseURL string) *SDKClient {
	jar, _ := cookiejar.New(nil)
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			Jar:     jar,
		},
	}
}

// NewSessionFromToken wraps an access token obtained elsewhere. Refresh
// only works if the client's cookie jar holds a refresh cookie.
func (c *SDKClient) NewSessionFromToken(accessToken string) *Session {
	return newSession(c, accessToken)
}
