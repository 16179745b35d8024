package tmdb

import (
	"errors"
	"fmt"
)

// Error kinds returned by the client. Match with errors.Is.
var (
	// ErrConfiguration means the API key is missing or a placeholder. Never retried.
	ErrConfiguration = errors.New("tmdb api key not configured")

	// ErrTimeout is a connect, read or write timeout. Retried.
	ErrTimeout = errors.New("tmdb request timed out")

	// ErrUnauthorized is HTTP 401: the API key was rejected. Not retried.
	ErrUnauthorized = errors.New("unauthorized: invalid tmdb api key")

	// ErrNotFound is HTTP 404. Not retried and not a breaker failure.
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimited is HTTP 429. Retried.
	ErrRateLimited = errors.New("rate limited: too many requests")

	// ErrService is HTTP 5xx, a transport failure, or a malformed body. Retried.
	ErrService = errors.New("tmdb service error")

	// ErrRequest is any other non-2xx status. Not retried.
	ErrRequest = errors.New("tmdb rejected request")
)

// StatusError is a non-2xx response. It unwraps to one of the error kinds above.
type StatusError struct {
	StatusCode int
	Status     string
	Endpoint   string
	kind       error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.kind, e.Status, e.Endpoint)
}

func (e *StatusError) Unwrap() error {
	return e.kind
}

// retryable reports whether another attempt may succeed.
func retryable(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrRateLimited) || errors.Is(err, ErrService)
}

// breakerFailures are the kinds that count toward opening the circuit.
var breakerFailures = []error{ErrTimeout, ErrRateLimited, ErrService, ErrUnauthorized}

// surfaced reports whether err is returned to the caller instead of fallback data.
func surfaced(err error) bool {
	return errors.Is(err, ErrConfiguration) || errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNotFound)
}
