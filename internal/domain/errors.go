package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrArticleNotFound is returned when the upstream has no article with
	// the requested id.
	ErrArticleNotFound = errors.New("article not found")

	// ErrInvalidArticleID is returned when an id is not a positive integer.
	ErrInvalidArticleID = errors.New("invalid article id")

	// ErrUpstreamUnavailable covers transport failures (DNS, refused
	// connections, timeouts).
	ErrUpstreamUnavailable = errors.New("article source unreachable")

	// ErrUpstreamStatus is returned for non-2xx responses. It is wrapped by
	// *StatusError which carries the code.
	ErrUpstreamStatus = errors.New("article source returned an error status")

	// ErrMalformedResponse is returned when a response body cannot be decoded.
	ErrMalformedResponse = errors.New("malformed article response")

	// ErrCircuitOpen is returned while the upstream circuit breaker is open.
	ErrCircuitOpen = errors.New("article source temporarily disabled")

	// ErrRateLimited is returned when a client exceeds its request budget.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// StatusError records the HTTP status of a failed upstream request.
type StatusError struct {
	StatusCode int
	Operation  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: upstream status %d", e.Operation, e.StatusCode)
}

// Unwrap lets errors.Is match ErrUpstreamStatus.
func (e *StatusError) Unwrap() error {
	return ErrUpstreamStatus
}
