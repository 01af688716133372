// Package retry wraps a single fallible collaborator call with a bounded
// retry policy driven by an error classifier.
package retry

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"
)

// TransientError marks an error as retryable regardless of its message.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	if e == nil || e.Err == nil {
		return "transient error"
	}
	return e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Policy controls how Do retries a failing operation.
type Policy struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// Backoff maps a zero-based attempt index to the sleep before the next
	// attempt. Nil means LinearBackoff(2 * time.Second).
	Backoff func(attempt int) time.Duration

	// Retryable classifies an error. Nil means IsTransient.
	Retryable func(err error) bool
}

// DefaultPolicy is the policy used for site searches: three total attempts
// with 2s, 4s linear backoff.
func DefaultPolicy() Policy {
	return Policy{MaxRetries: 2}
}

func (p Policy) withDefaults() Policy {
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}
	if p.Backoff == nil {
		p.Backoff = LinearBackoff(2 * time.Second)
	}
	if p.Retryable == nil {
		p.Retryable = IsTransient
	}
	return p
}

// LinearBackoff returns (attempt+1) * step: step, 2*step, 3*step, ...
func LinearBackoff(step time.Duration) func(attempt int) time.Duration {
	return func(attempt int) time.Duration {
		return time.Duration(attempt+1) * step
	}
}

// Do runs op up to 1+MaxRetries times. Failures that the policy classifies
// as retryable sleep for Backoff(attempt) and try again; anything else is
// returned immediately. On exhaustion the last attempt's error is returned
// verbatim so callers see the real upstream message.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	p = p.withDefaults()

	var lastRes T
	var lastErr error
	attempts := 1 + p.MaxRetries
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return lastRes, err
		}

		res, err := op(ctx)
		lastRes = res
		if err == nil {
			return res, nil
		}
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return lastRes, ctx.Err()
		}
		lastErr = err
		if !p.Retryable(err) || attempt == attempts-1 {
			return lastRes, err
		}

		t := time.NewTimer(p.Backoff(attempt))
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return lastRes, ctx.Err()
		}
	}
	return lastRes, lastErr
}

// Known transient signatures in upstream agent error messages. Remote
// collaborators occasionally surface these as plain strings rather than
// typed errors.
var transientSignatures = []string{
	"500",
	"502",
	"503",
	"504",
	"internal error",
	"no candidates",
	"empty response",
	"null response",
}

// IsTransient reports whether an error should be retried: a TransientError
// marker, a timing-out net error, a deadline, or a message matching a known
// transient signature.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var te *TransientError
	if errors.As(err, &te) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return ne.Timeout() || ne.Temporary()
	}
	msg := strings.ToLower(err.Error())
	for _, sig := range transientSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}
