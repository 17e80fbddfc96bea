package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnauthenticated = errors.New("not signed in")
	ErrDecode          = errors.New("unexpected response body")
)

// APIError is a non-success response from the backend.
type APIError struct {
	Op         string `json:"op"`
	StatusCode int    `json:"status"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: server error %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: server error %d", e.Op, e.StatusCode)
}

// Temporary reports whether retrying the same call later may succeed.
func (e *APIError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// errorEnvelope matches the dev API's {"error":{"code","message"}} bodies.
type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newAPIError(op string, resp *HTTPResponse) *APIError {
	msg := strings.TrimSpace(resp.String())
	var env errorEnvelope
	if resp.UnmarshalJSON(&env) == nil && env.Error.Message != "" {
		msg = env.Error.Message
	}
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return &APIError{Op: op, StatusCode: resp.StatusCode, Message: msg}
}
