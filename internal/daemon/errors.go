package daemon

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable indicates the daemon could not be reached or returned
	// nothing usable. Every ListWorkspaces failure wraps it.
	ErrUnavailable = errors.New("daemon unavailable")

	// ErrUnexpectedStatus indicates a response status other than the one expected.
	ErrUnexpectedStatus = errors.New("unexpected response status")

	// ErrMalformedResponse indicates a response body that could not be decoded.
	ErrMalformedResponse = errors.New("malformed response")
)

// APIError carries the status and error message of a failed daemon call.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("daemon returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("daemon returned status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return ErrUnexpectedStatus
}
