// Package retry provides a bounded, sequential retry combinator with
// linear backoff. Attempt N+1 never starts before attempt N resolved
// and its inter-attempt delay elapsed.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ErrExhausted is returned when the attempt budget runs out without a
// successful attempt.
var ErrExhausted = errors.New("retry: attempt budget exhausted")

// Policy bounds a retry loop. Backoff grows linearly with the attempt
// number: Step, 2×Step, 3×Step, …
type Policy struct {
	MaxAttempts int
	Step        time.Duration
}

// Backoff returns the wait after the given 1-based attempt.
func (p Policy) Backoff(attempt int) time.Duration {
	return time.Duration(attempt) * p.Step
}

// Func runs one attempt. done reports whether the result is usable;
// err is recorded but does not abort the loop (a failed attempt is
// just "try again").
type Func func(ctx context.Context, attempt int) (done bool, err error)

// Do runs fn up to p.MaxAttempts times, sleeping p.Backoff(n) between
// attempts. It returns nil as soon as fn reports done, ErrExhausted
// when the budget is spent, or the context error on cancellation.
func Do(ctx context.Context, p Policy, logger *slog.Logger, fn Func) error {
	if logger == nil {
		logger = slog.Default()
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		done, err := fn(ctx, attempt)
		if err != nil {
			logger.Warn("retry.attempt_failed",
				"attempt", attempt,
				"max_attempts", p.MaxAttempts,
				"error", err,
			)
		}
		if done {
			return nil
		}
		if attempt == p.MaxAttempts {
			break
		}

		wait := p.Backoff(attempt)
		logger.Info("retry.waiting", "attempt", attempt, "wait_ms", wait.Milliseconds())
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return ErrExhausted
}
