package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client talks to a PostgREST-compatible endpoint (Supabase REST).
// The API key is sent both as the apikey header and as a Bearer token,
// which is what Supabase expects for anon-role access.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// APIError represents a non-2xx HTTP response.
type APIError struct {
	StatusCode int
	Body       string // first 512 bytes
	retryAfter string // internal: Retry-After header value for 429s
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures Client behavior.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// New creates a Client for the given REST base URL (e.g.
// "https://xyz.supabase.co/rest/v1").
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

const maxRetries = 3

// GetJSON reads rows from a table and unmarshals the JSON response into
// dest. Returns *APIError for non-2xx responses. Retries on 429 (with
// Retry-After) and 5xx (with exponential backoff: 1s, 2s, 4s). Max 3
// retries.
func (c *Client) GetJSON(ctx context.Context, table string, query url.Values, dest any) error {
	fullURL := c.baseURL + "/" + table
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var lastErr *APIError
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			wait := backoffDelay(attempt, lastErr)
			t := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return err
		}
		c.setAuth(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return err
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return json.Unmarshal(body, dest)
		}

		apiErr := newAPIError(resp, body)
		if resp.StatusCode == 429 || resp.StatusCode >= 500 {
			lastErr = apiErr
			continue
		}
		return apiErr
	}

	return lastErr
}

// PostJSON inserts a row into a table. The same retry policy as GetJSON
// applies; Prefer: return=minimal keeps the response empty.
func (c *Client) PostJSON(ctx context.Context, table string, row any) error {
	payload, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("postgrest: encode row: %w", err)
	}
	fullURL := c.baseURL + "/" + table

	var lastErr *APIError
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			wait := backoffDelay(attempt, lastErr)
			t := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		c.setAuth(req)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=minimal")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return err
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}

		apiErr := newAPIError(resp, body)
		if resp.StatusCode == 429 || resp.StatusCode >= 500 {
			lastErr = apiErr
			continue
		}
		return apiErr
	}

	return lastErr
}

func (c *Client) setAuth(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
}

func newAPIError(resp *http.Response, body []byte) *APIError {
	bodyStr := string(body)
	if len(bodyStr) > 512 {
		bodyStr = bodyStr[:512]
	}
	apiErr := &APIError{StatusCode: resp.StatusCode, Body: bodyStr}
	if resp.StatusCode == 429 {
		apiErr.retryAfter = resp.Header.Get("Retry-After")
	}
	return apiErr
}

// backoffDelay returns the wait duration before a retry attempt.
func backoffDelay(attempt int, lastErr *APIError) time.Duration {
	if lastErr != nil && lastErr.StatusCode == 429 && lastErr.retryAfter != "" {
		if secs, err := strconv.Atoi(lastErr.retryAfter); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	// Exponential backoff: 1s, 2s, 4s
	return time.Duration(1<<(attempt-1)) * time.Second
}
