// Package failure classifies upstream failures for logging. Nothing in this
// backend retries; the classification only tells operators whether a failed
// page fetch or model call is likely to succeed if the user asks again.
package failure

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// Kind is the coarse category of an upstream failure.
type Kind string

const (
	KindNone      Kind = ""
	KindTransient Kind = "transient"
	KindCanceled  Kind = "canceled"
	KindPermanent Kind = "permanent"
)

// StatusError records a non-2xx response from an upstream HTTP endpoint.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.URL, e.StatusCode)
}

// Transient reports whether the status usually clears up on its own.
func (e *StatusError) Transient() bool {
	return IsTransientHTTPStatus(e.StatusCode)
}

// Classify returns the Kind of err, walking wrapped errors.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case IsTransient(err):
		return KindTransient
	default:
		return KindPermanent
	}
}

// IsTransient returns true for timeouts, connection resets, DNS hiccups and
// upstream statuses such as 429 or 503.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var se *StatusError
	if errors.As(err, &se) {
		return se.Transient()
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	// SDK clients often flatten the cause into the message.
	msg := strings.ToLower(err.Error())
	for _, p := range transientPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

var transientPatterns = []string{
	"connection reset by peer",
	"broken pipe",
	"temporary failure in name resolution",
	"tls handshake timeout",
	"i/o timeout",
	"server closed idle connection",
	"resource_exhausted",
	"unavailable",
	"overloaded",
}

// IsTransientHTTPStatus reports whether an HTTP status code indicates a
// temporary upstream condition.
func IsTransientHTTPStatus(statusCode int) bool {
	switch statusCode {
	case 408, 425, 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
