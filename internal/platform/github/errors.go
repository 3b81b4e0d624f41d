package github

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// APIError is returned for any non-2xx GitHub response. It preserves
// the HTTP status and the raw error body so callers can branch on
// status (retry, re-auth, surface to the user).
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte

	// RateLimitRemaining is the raw X-RateLimit-Remaining header value
	// from the failed response, empty when the header was absent.
	RateLimitRemaining string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("github: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("github: request failed with status %d", e.StatusCode)
}

// IsRateLimited reports whether the error is a rate-limit rejection.
// GitHub signals primary rate limiting as a 403 with a depleted quota,
// indistinguishable by status code alone from a permissions 403, so a
// 403 only counts when the quota header or the message says so.
func (e *APIError) IsRateLimited() bool {
	if e.StatusCode == 429 {
		return true
	}
	if e.StatusCode != 403 {
		return false
	}
	if e.RateLimitRemaining == "0" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Message), "rate limit")
}

// IsTimeout reports whether err represents a timeout or cancellation
// of the underlying request rather than an upstream API rejection.
// Callers use this to decide retryability.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
