// Package resilience provides the error taxonomy and retry machinery shared
// by the data-source backends.
package resilience

import (
	"errors"
	"net"
	"strings"
	"syscall"
)

// UpstreamError wraps a failure of an upstream data source that is safe to
// retry (connection loss, pool exhaustion, server-side timeout). It maps to
// the per-table "error" status in analysis results.
type UpstreamError struct {
	Err    error
	Source string
}

func (e *UpstreamError) Error() string {
	return e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError wraps an error as a retryable upstream failure.
func NewUpstreamError(err error, source string) *UpstreamError {
	return &UpstreamError{Err: err, Source: source}
}

// IsTransient returns true if the error (or any error in its chain) is an
// UpstreamError, or if it matches common transient failure patterns from
// database drivers and the network stack.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var ue *UpstreamError
	if errors.As(err, &ue) {
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

	// String-based heuristics for errors wrapped by drivers.
	msg := strings.ToLower(err.Error())
	transientPatterns := []string{
		"connection reset by peer",
		"broken pipe",
		"i/o timeout",
		"conn closed",
		"connection refused",
		"too many clients",
		"the database system is starting up",
		"database is locked",
	}
	for _, p := range transientPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}

	return false
}
