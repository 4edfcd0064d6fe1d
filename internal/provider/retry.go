package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// TransportError marks a failed network round trip. StatusCode is zero for
// pure transport failures (connect errors, timeouts). RetryAfter, when
// non-zero, is a server-supplied wait taken from a Retry-After header.
type TransportError struct {
	StatusCode int
	RetryAfter time.Duration
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("transport error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// retryableStatus reports whether an HTTP status is worth retrying.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests, // 429
		http.StatusRequestTimeout,      // 408
		http.StatusInternalServerError, // 500
		http.StatusBadGateway,          // 502
		http.StatusServiceUnavailable,  // 503
		http.StatusGatewayTimeout:      // 504
		return true
	}
	return false
}

// Retryable reports whether err is a transient failure: any transport error
// without a status, or one of the retryable HTTP statuses.
func Retryable(err error) bool {
	var te *TransportError
	if !errors.As(err, &te) {
		return false
	}
	return te.StatusCode == 0 || retryableStatus(te.StatusCode)
}

// ParseRetryAfter parses a Retry-After header value, which is either a
// number of seconds or an HTTP-date.
func ParseRetryAfter(v string) (time.Duration, bool) {
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, true
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d, true
		}
		return 0, true
	}
	return 0, false
}

// RetryPolicy retries transient failures with exponential backoff.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryPolicy returns the standard policy: 3 attempts, backoff
// starting at 2s and capped at 60s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: 2 * time.Second,
		MaxBackoff:     60 * time.Second,
	}
}

// Do runs fn until it succeeds, fails permanently, or attempts are
// exhausted. A server-supplied Retry-After overrides the computed backoff.
// Pending backoff sleeps abort promptly when ctx is canceled.
func (p RetryPolicy) Do(ctx context.Context, logger *slog.Logger, op string, fn func(context.Context) error) error {
	backoff := p.InitialBackoff

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !Retryable(lastErr) {
			return lastErr
		}
		if attempt == p.MaxAttempts {
			break
		}

		delay := backoff
		var te *TransportError
		if errors.As(lastErr, &te) && te.RetryAfter > 0 {
			delay = te.RetryAfter
		}
		if delay > p.MaxBackoff {
			delay = p.MaxBackoff
		}

		logger.Warn("transient failure, retrying",
			"op", op,
			"attempt", attempt,
			"max_attempts", p.MaxAttempts,
			"delay", delay,
			"error", lastErr,
		)

		if err := sleepContext(ctx, delay); err != nil {
			return err
		}

		backoff *= 2
		if backoff > p.MaxBackoff {
			backoff = p.MaxBackoff
		}
	}

	return fmt.Errorf("%s: %d attempts exhausted: %w", op, p.MaxAttempts, lastErr)
}

// sleepContext waits for d or until ctx is canceled, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
