package client

import (
	"errors"
	"fmt"

	"github.com/tair/storefront/pkg/circuitbreaker"
)

var (
	// ErrUpstreamUnavailable covers transport failures, timeouts and 5xx answers
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrProductNotFound means the catalog has no such product
	ErrProductNotFound = errors.New("product not found")
	// ErrUnauthorized means the favorites service rejected the credential
	ErrUnauthorized = errors.New("unauthorized")
	// ErrCircuitOpen means the call was short-circuited by an open breaker
	ErrCircuitOpen = circuitbreaker.ErrOpen
)

// StatusError is a non-2xx answer from a collaborator
type StatusError struct {
	Service    string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s responded %d: %s", e.Service, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s responded %d", e.Service, e.StatusCode)
}

// Is maps status codes onto the package sentinels
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == 401
	case ErrProductNotFound:
		return e.StatusCode == 404
	case ErrUpstreamUnavailable:
		return e.StatusCode >= 500
	}
	return false
}

// countsAgainstUpstream keeps client-side faults from tripping a breaker
func countsAgainstUpstream(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500
	}
	return true
}
