package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	// ErrNetwork is a transport fault that survived every retry.
	ErrNetwork = errors.New("network error")
	// ErrServer is a non-2xx upstream response.
	ErrServer = errors.New("upstream server error")
	// ErrServerDataMismatch means the upstream answered a lookup with a different record.
	ErrServerDataMismatch = errors.New("server data mismatch")
)

// NetworkError wraps a transport failure such as a reset, an abort or a timeout.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("network error: %v", e.Err)
	}
	return fmt.Sprintf("network error: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// ServerError is an upstream response outside 2xx.
type ServerError struct {
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream status=%d", e.StatusCode)
	}
	return fmt.Sprintf("upstream status=%d body=%s", e.StatusCode, e.Body)
}

func (e *ServerError) Is(target error) bool {
	return target == ErrServer
}

// Retryable is true for 5xx responses.
func (e *ServerError) Retryable() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// IsTransient reports whether err is worth retrying or polling through: network faults
// and 5xx responses.
func IsTransient(err error) bool {
	if errors.Is(err, ErrNetwork) {
		return true
	}
	var serverErr *ServerError
	return errors.As(err, &serverErr) && serverErr.Retryable()
}
