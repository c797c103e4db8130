package fetch

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedStatus is returned when the server answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrInvalidProxyURL is returned when the proxy URL cannot be used.
	ErrInvalidProxyURL = errors.New("invalid proxy URL")

	// ErrBodyTooLarge is returned when a response exceeds the body size limit.
	ErrBodyTooLarge = errors.New("response body too large")
)

// StatusError describes a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %v: %d", e.URL, ErrUnexpectedStatus, e.StatusCode)
}

// Unwrap returns ErrUnexpectedStatus.
func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}
