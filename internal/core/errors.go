package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes the engine distinguishes.
// Only backend failures are user-visible; enrichment paths swallow
// their own errors and log instead.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("backend rejected credentials")
	ErrRateLimited  = errors.New("backend rate limit exceeded")
	ErrTimeout      = errors.New("backend request timed out")
)

// BackendError wraps a non-2xx generation backend response.
type BackendError struct {
	StatusCode int
	Body       string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend http %d: %s", e.StatusCode, e.Body)
}

func (e *BackendError) Unwrap() error {
	switch e.StatusCode {
	case 401, 403:
		return ErrUnauthorized
	case 429:
		return ErrRateLimited
	case 408, 504:
		return ErrTimeout
	}
	return nil
}
