package fetch

import "fmt"

// ErrorKind classifies a transport failure. The search core never retries;
// the kind is exposed so callers can decide whether a retry makes sense.
type ErrorKind string

const (
	KindTimeout    ErrorKind = "timeout"
	KindConnection ErrorKind = "connection"
	KindHTTPStatus ErrorKind = "http-status"
	KindBlocked    ErrorKind = "blocked"
)

// Error is a typed transport failure.
type Error struct {
	Kind   ErrorKind
	Status int // set for http-status and blocked
	URL    string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("transport: unexpected status code %d", e.Status)
	case KindBlocked:
		return fmt.Sprintf("transport: request blocked by upstream (status %d)", e.Status)
	case KindTimeout:
		return fmt.Sprintf("transport: request timed out: %v", e.Err)
	default:
		return fmt.Sprintf("transport: connection failed: %v", e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether a caller-side retry could plausibly succeed.
func (e *Error) Retryable() bool {
	return e.Kind == KindTimeout || e.Kind == KindConnection
}
