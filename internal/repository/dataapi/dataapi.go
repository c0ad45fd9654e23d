// Package dataapi implements the repository interfaces against the hosted
// data/auth service.
//
// The service exposes a PostgREST-style REST surface — tables are URLs,
// filters are query parameters (`id=eq.abc`), and writes are POST/PATCH/
// DELETE against the table URL — plus a token endpoint for password sign-in.
// All of it is plain HTTP + JSON, so the client is net/http with a shared
// http.Client.
//
// TIMEOUTS:
// Every request goes through a client with a 10 second timeout. A hung
// remote call must hang one request, not the process; handlers get their
// error and turn it into a response.
package dataapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sakif/blog-admin/internal/apperror"
)

const requestTimeout = 10 * time.Second

// Client talks to one hosted data service instance. It implements both
// repository.PostRepository (post.go) and repository.Authenticator (auth.go).
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New creates a Client for the service at baseURL (no trailing slash),
// authenticating every request with apiKey.
func New(baseURL, apiKey string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("dataapi: base URL is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("dataapi: API key is required")
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: requestTimeout},
	}, nil
}

// do sends one request with the service headers applied and returns the
// response body. Any transport error and any status outside okLow..okHigh
// becomes an apperror.ErrRemote — remote failures are never swallowed.
func (c *Client) do(ctx context.Context, method, url string, body any, extraHeaders map[string]string) ([]byte, int, error) {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("dataapi: encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("dataapi: building request: %w", err)
	}

	// The service expects the project key both as `apikey` and as a bearer
	// token when no user token is in play.
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, apperror.Remote("data", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, apperror.Remote("data", fmt.Errorf("reading response: %w", err))
	}

	return respBody, resp.StatusCode, nil
}

func ok(status int) bool {
	return status >= 200 && status < 300
}
