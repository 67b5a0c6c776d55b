// Package retry defines the provider call retry policy: pure error
// classification plus exponential backoff, kept independent of the HTTP
// transport so both are unit-testable.
package retry

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"verse-server/services/chat-api/internal/utils/platformerrors"
)

// Class is the transport-level outcome of a single provider attempt.
type Class string

const (
	ClassOK                 Class = "ok"
	ClassRateLimited        Class = "rate_limited"
	ClassUnavailable        Class = "unavailable"
	ClassInvalidCredentials Class = "invalid_credentials"
	ClassAccessForbidden    Class = "access_forbidden"
	ClassBadRequest         Class = "bad_request"
	ClassNetwork            Class = "network"
	ClassTimeout            Class = "timeout"
)

// Retryable reports whether another attempt may succeed. Anything not
// explicitly retryable aborts the loop on first occurrence.
func (c Class) Retryable() bool {
	switch c {
	case ClassRateLimited, ClassUnavailable, ClassNetwork, ClassTimeout:
		return true
	default:
		return false
	}
}

// ErrorType maps the class to the service error taxonomy.
func (c Class) ErrorType() platformerrors.ErrorType {
	switch c {
	case ClassRateLimited:
		return platformerrors.ErrorTypeRateLimited
	case ClassUnavailable:
		return platformerrors.ErrorTypeProviderUnavailable
	case ClassInvalidCredentials:
		return platformerrors.ErrorTypeInvalidCredentials
	case ClassAccessForbidden:
		return platformerrors.ErrorTypeAccessForbidden
	case ClassBadRequest:
		return platformerrors.ErrorTypeProviderBadRequest
	case ClassNetwork:
		return platformerrors.ErrorTypeNetwork
	case ClassTimeout:
		return platformerrors.ErrorTypeTimeout
	default:
		return platformerrors.ErrorTypeInternal
	}
}

// Classify maps a transport error or HTTP status to a Class. When err is
// non-nil the status code is ignored: the request never completed.
func Classify(statusCode int, err error) Class {
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ClassTimeout
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return ClassTimeout
		}
		return ClassNetwork
	}

	switch {
	case statusCode == http.StatusOK:
		return ClassOK
	case statusCode == http.StatusUnauthorized:
		return ClassInvalidCredentials
	case statusCode == http.StatusForbidden:
		return ClassAccessForbidden
	case statusCode == http.StatusTooManyRequests:
		return ClassRateLimited
	case statusCode >= 500:
		return ClassUnavailable
	case statusCode >= 400:
		return ClassBadRequest
	default:
		return ClassUnavailable
	}
}

// Policy is the backoff schedule for one generate call. MaxRetries is the
// number of additional attempts after the first.
type Policy struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// Attempts returns the total attempt budget.
func (p Policy) Attempts() int {
	return p.MaxRetries + 1
}

// Delay returns the backoff inserted after attempt k (0-indexed):
// BaseDelay * 2^k.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 0 {
		return 0
	}
	return p.BaseDelay << uint(attempt)
}

// SleepFunc waits for the given duration or until ctx is done. Injected into
// the provider client so tests can record delays instead of waiting.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the production SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
