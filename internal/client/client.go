package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"hooked/internal/config"
)

// Client talks to the Hooked REST backend.
type Client struct {
	http *HTTPClient
}

// New builds a client from the API section of the config. ts may be nil, in
// which case the configured static token is used.
func New(cfg config.APICfg, ts TokenSource) *Client {
	hc := NewHTTPClient("client", cfg.TimeoutSec)
	hc.SetBaseURL(cfg.BaseURL)
	if ts == nil {
		ts = StaticToken(cfg.Token)
	}
	hc.SetTokenSource(ts)
	hc.SetRetry(cfg.MaxRetries, 0)
	return &Client{http: hc}
}

// WithRetryBase shortens the first backoff interval. Tests use it to keep
// retries fast.
func (c *Client) WithRetryBase(d time.Duration) *Client {
	c.http.SetRetry(c.http.maxRetries, d)
	return c
}

func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return q
}

// getJSON performs a GET and decodes a 2xx body into out.
func (c *Client) getJSON(ctx context.Context, op, endpoint string, query url.Values, auth bool, out interface{}) error {
	resp, err := c.http.Get(ctx, endpoint, query, auth)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !resp.IsSuccess() {
		return newAPIError(op, resp)
	}
	if err := resp.UnmarshalJSON(out); err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrDecode, err)
	}
	return nil
}

// send performs a mutating call and checks the status against want (any 2xx
// when want is empty). When out is non-nil the body is decoded into it.
func (c *Client) send(ctx context.Context, op, method, endpoint string, payload, out interface{}, want ...int) error {
	resp, err := c.http.SendJSON(ctx, method, endpoint, payload)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return checkStatus(op, resp, out, want...)
}

func checkStatus(op string, resp *HTTPResponse, out interface{}, want ...int) error {
	ok := resp.IsSuccess()
	if len(want) > 0 {
		ok = slices.Contains(want, resp.StatusCode)
	}
	if !ok {
		return newAPIError(op, resp)
	}
	if out != nil {
		if err := resp.UnmarshalJSON(out); err != nil {
			return fmt.Errorf("%s: %w: %v", op, ErrDecode, err)
		}
	}
	return nil
}

var (
	created   = []int{http.StatusCreated}
	noContent = []int{http.StatusOK, http.StatusNoContent}
)
