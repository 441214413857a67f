package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrLocationNotFound is returned when the provider knows no matching city.
	ErrLocationNotFound = errors.New("location not found")

	// ErrUnauthorized is returned when the provider rejects our credentials.
	ErrUnauthorized = errors.New("provider rejected credentials")

	// ErrRateLimited is returned when the provider signals quota exhaustion.
	ErrRateLimited = errors.New("provider rate limit exceeded")

	// ErrUnavailable is returned when all retry attempts exhaust on a
	// transient failure (timeout, connection refused, DNS).
	ErrUnavailable = errors.New("provider unavailable")

	// ErrNotConfigured is returned when a required provider credential is
	// missing. It is detected before any outbound call is attempted.
	ErrNotConfigured = errors.New("provider credentials not configured")
)

// UpstreamError carries an unclassified non-2xx provider response.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream error: status %d: %s", e.StatusCode, e.Message)
}
