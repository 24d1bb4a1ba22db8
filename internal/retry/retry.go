// Package retry provides exponential-backoff retries for the TMDB client.
package retry

import (
	"errors"
	"net"
	"net/url"
	"strings"
	"time"
)

// Retry executes fn until it succeeds or maxAttempts is reached, doubling
// the backoff after each failed attempt. Non-retryable errors (auth
// failures, 404s) return immediately.
func Retry(fn func() error, maxAttempts int, initialBackoff time.Duration) error {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	var lastErr error
	backoff := initialBackoff

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if !IsRetryable(lastErr) && !IsRateLimited(lastErr) {
			return lastErr
		}

		if attempt < maxAttempts {
			sleep := backoff
			if IsRateLimited(lastErr) {
				// Rate-limited responses get double the usual backoff.
				sleep = backoff * 2
			}
			time.Sleep(sleep)
			backoff *= 2
		}
	}

	return lastErr
}

// IsRetryable reports whether the error is transient: a network timeout,
// a connection failure, or a 5xx server response.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return true
	}

	errStr := err.Error()
	for _, marker := range []string{
		"status 500", "status 502", "status 503", "status 504",
		"connection reset", "connection refused", "no such host", "i/o timeout",
	} {
		if strings.Contains(errStr, marker) {
			return true
		}
	}
	return false
}

// IsRateLimited reports whether the error indicates HTTP 429.
func IsRateLimited(err error) bool {
	return err != nil && strings.Contains(err.Error(), "status 429")
}
