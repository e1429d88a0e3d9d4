package invidious

import (
	"errors"
	"fmt"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrUnavailable = errors.New("upstream: host unreachable or transport failure")
	ErrStatus      = errors.New("upstream: non-success status")
	ErrBadResponse = errors.New("upstream: invalid response format or malformed data")
	ErrTimeout     = errors.New("upstream: request timed out")
)

// APIError wraps the sentinel errors with request context. The sentinel is
// exposed through Unwrap so callers match with errors.Is without ever
// forwarding upstream response text.
type APIError struct {
	Sentinel  error
	Operation string
	Status    int
	Err       error
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("invidious: %s: %v", e.Operation, e.Sentinel)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Sentinel
}
