// Package catalog talks to the Google Books volumes API.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultBaseURL = "https://www.googleapis.com/books/v1/volumes"

var (
	// ErrUpstream covers transport failures, non-2xx answers and bodies
	// that do not decode.
	ErrUpstream = errors.New("catalog: upstream unavailable")

	// ErrNotFound is returned by Volume when the id is unknown.
	ErrNotFound = errors.New("catalog: volume not found")
)

// Volume is the flattened view of a catalog entry.
type Volume struct {
	GoogleBookID string
	Title        string
	Authors      string
	Description  string
	Thumbnail    string
}

type SearchResult struct {
	TotalItems int
	Volumes    []Volume
}

// Client is a minimal Google Books client. The zero value is not usable;
// build one with NewClient.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Search runs a full-text query. page is zero based; the API is asked for
// size results starting at page*size.
func (c *Client) Search(ctx context.Context, q string, page, size int) (SearchResult, error) {
	params := url.Values{}
	params.Set("q", q)
	params.Set("startIndex", strconv.Itoa(page*size))
	params.Set("maxResults", strconv.Itoa(size))

	var body searchResponse
	if err := c.get(ctx, "", params, &body); err != nil {
		return SearchResult{}, err
	}

	res := SearchResult{TotalItems: body.TotalItems, Volumes: make([]Volume, 0, len(body.Items))}
	for _, item := range body.Items {
		res.Volumes = append(res.Volumes, item.toVolume())
	}
	return res, nil
}

// Volume fetches a single volume by its Google id.
func (c *Client) Volume(ctx context.Context, id string) (Volume, error) {
	if strings.TrimSpace(id) == "" {
		return Volume{}, ErrNotFound
	}

	var body volumeResource
	if err := c.get(ctx, "/"+url.PathEscape(id), url.Values{}, &body); err != nil {
		return Volume{}, err
	}
	return body.toVolume(), nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, target any) error {
	if c.APIKey != "" {
		params.Set("key", c.APIKey)
	}

	u := c.BaseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound && path != "":
		_, _ = io.Copy(io.Discard, resp.Body)
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}
	return nil
}
