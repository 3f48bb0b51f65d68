package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrStationNotFound     = errors.New("station not found")
	ErrInvalidStation      = errors.New("invalid station")
	ErrInvalidQuery        = errors.New("invalid query")
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrMalformedResponse   = errors.New("malformed provider response")
)

// Navitia error ids we act on.
const (
	navitiaNoSolution    = "no_solution"
	navitiaUnknownObject = "unknown_object"
	navitiaBadFilter     = "bad_filter"
)

// ProviderError is a non-200 reply from the provider. It unwraps to one of the
// package sentinels so callers can use errors.Is.
type ProviderError struct {
	StatusCode int
	ID         string
	Message    string
}

func (e *ProviderError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("API returned %d (%s): %s", e.StatusCode, e.ID, e.Message)
	}
	return fmt.Sprintf("API returned %d: %s", e.StatusCode, e.Message)
}

func (e *ProviderError) Unwrap() error {
	switch {
	case e.StatusCode >= 500,
		e.StatusCode == http.StatusUnauthorized,
		e.StatusCode == http.StatusForbidden,
		e.StatusCode == http.StatusTooManyRequests:
		return ErrProviderUnavailable
	case e.ID == navitiaNoSolution:
		return nil
	case e.ID == navitiaUnknownObject, e.ID == navitiaBadFilter, e.StatusCode == http.StatusNotFound:
		return ErrInvalidStation
	default:
		return ErrInvalidQuery
	}
}

// NoSolution reports whether the provider answered that no journey matches,
// which Navitia signals with a 404.
func (e *ProviderError) NoSolution() bool {
	return e.ID == navitiaNoSolution
}
