// Package httpx is a small net/http wrapper shared by the Mojang and
// Fabric mapping sources: construct a GET request, check the status code,
// and return the whole body. It knows nothing about mapping.Error; callers
// classify the returned errors themselves.
package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client fetches a URL's body over HTTP GET. The zero value uses
// http.DefaultClient.
type Client struct {
	HTTP *http.Client
}

func (c Client) client() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

// Fetch implements mapping.Fetcher: GET url and return its body, or an
// error if the request fails to build, fails to execute, or the response
// status isn't 2xx.
func (c Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("httpx: constructing request for %s: %w", url, err)
	}
	res, err := c.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpx: requesting %s: %w", url, err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("httpx: unexpected status for %s: %s", url, res.Status)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("httpx: reading response body from %s: %w", url, err)
	}
	return body, nil
}

// GetJSON fetches url and decodes its body as JSON into v.
func GetJSON(ctx context.Context, c Client, url string, v any) error {
	body, err := c.Fetch(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("httpx: decoding JSON from %s: %w", url, err)
	}
	return nil
}
