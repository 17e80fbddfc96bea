package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

// TokenSource supplies the bearer token sent with authenticated calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed bearer token.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	if t == "" {
		return "", ErrUnauthenticated
	}
	return string(t), nil
}

// HTTPClient provides the JSON-over-HTTP plumbing shared by every endpoint.
type HTTPClient struct {
	client     *http.Client
	baseURL    string
	name       string // used in the User-Agent and logs
	tokens     TokenSource
	maxRetries int
	retryBase  time.Duration
}

// NewHTTPClient creates a new HTTP client with default settings
func NewHTTPClient(name string, timeoutSec int) *HTTPClient {
	if timeoutSec == 0 {
		timeoutSec = 30 // default timeout
	}

	return &HTTPClient{
		client: &http.Client{
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
		name:      name,
		retryBase: 200 * time.Millisecond,
	}
}

// SetBaseURL sets the base URL for all requests
func (c *HTTPClient) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// SetTokenSource sets where bearer tokens come from.
func (c *HTTPClient) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

// SetRetry configures how often idempotent GETs are retried after a
// network error, a 429 or a 5xx, and the first backoff interval.
func (c *HTTPClient) SetRetry(maxRetries int, base time.Duration) {
	c.maxRetries = maxRetries
	if base > 0 {
		c.retryBase = base
	}
}

// Get makes a GET request. GETs are retried with exponential backoff.
func (c *HTTPClient) Get(ctx context.Context, endpoint string, query url.Values, auth bool) (*HTTPResponse, error) {
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, endpoint, nil, "", auth)
}

// SendJSON makes a request with a JSON payload (nil for no body).
func (c *HTTPClient) SendJSON(ctx context.Context, method, endpoint string, payload interface{}) (*HTTPResponse, error) {
	if payload == nil {
		return c.do(ctx, method, endpoint, nil, "", true)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON payload: %w", err)
	}
	return c.do(ctx, method, endpoint, body, "application/json", true)
}

// PostMultipart posts an already encoded multipart body.
func (c *HTTPClient) PostMultipart(ctx context.Context, endpoint string, body []byte, contentType string) (*HTTPResponse, error) {
	return c.do(ctx, http.MethodPost, endpoint, body, contentType, true)
}

// retryableStatus marks a response worth retrying.
type retryableStatus struct{ code int }

func (e *retryableStatus) Error() string { return fmt.Sprintf("retryable status %d", e.code) }

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, body []byte, contentType string, auth bool) (*HTTPResponse, error) {
	if method != http.MethodGet || c.maxRetries <= 0 {
		return c.once(ctx, method, endpoint, body, contentType, auth)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryBase
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.maxRetries)), ctx)

	attempt := 0
	resp, err := backoff.RetryWithData(func() (*HTTPResponse, error) {
		attempt++
		resp, err := c.once(ctx, method, endpoint, body, contentType, auth)
		if err != nil {
			if errors.Is(err, ErrUnauthenticated) || ctx.Err() != nil {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			log.Debug().Str("client", c.name).Str("url", endpoint).Int("attempt", attempt).Int("status_code", resp.StatusCode).Msg("retrying request")
			return resp, &retryableStatus{code: resp.StatusCode}
		}
		return resp, nil
	}, policy)

	var rs *retryableStatus
	if errors.As(err, &rs) {
		// Out of retries: hand the last response back for normal error mapping.
		return resp, nil
	}
	return resp, err
}

func (c *HTTPClient) once(ctx context.Context, method, endpoint string, body []byte, contentType string, auth bool) (*HTTPResponse, error) {
	url := c.baseURL + endpoint

	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rdr)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set default headers
	req.Header.Set("User-Agent", fmt.Sprintf("Hooked/%s", c.name))
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if auth {
		if c.tokens == nil {
			return nil, ErrUnauthenticated
		}
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log.Debug().
		Str("client", c.name).
		Str("method", method).
		Str("url", url).
		Msg("making HTTP request")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Error().
			Str("client", c.name).
			Str("url", url).
			Err(err).
			Msg("HTTP request failed")
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}

	return c.handleResponse(resp)
}

// handleResponse processes the HTTP response
func (c *HTTPClient) handleResponse(resp *http.Response) (*HTTPResponse, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	httpResp := &HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	log.Debug().
		Str("client", c.name).
		Int("status_code", resp.StatusCode).
		Int("body_length", len(body)).
		Msg("received HTTP response")

	return httpResp, nil
}

// HTTPResponse represents an HTTP response
type HTTPResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// IsSuccess checks if the response indicates success (2xx status code)
func (r *HTTPResponse) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// UnmarshalJSON unmarshals the response body into the provided struct
func (r *HTTPResponse) UnmarshalJSON(v interface{}) error {
	return json.Unmarshal(r.Body, v)
}

// String returns the response body as a string
func (r *HTTPResponse) String() string {
	return string(r.Body)
}
