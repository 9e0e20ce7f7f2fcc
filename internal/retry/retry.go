// Package retry provides the single retry policy shared by every external
// call in the service. Callers configure attempts, backoff shape and a
// retryable predicate; throttling errors back off harder than ordinary
// failures.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/gatat123/YouTube-Bot-v7/internal/models"
)

// Policy describes how an operation is retried. The zero value is unusable;
// build one with NewPolicy or fill every field.
type Policy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int

	// BaseDelay is the pause after the first failure. Each further failure
	// multiplies it by Multiplier, capped at MaxDelay.
	BaseDelay  time.Duration
	Multiplier float64
	MaxDelay   time.Duration

	// JitterFrac adds up to this fraction of random extra delay so parallel
	// callers do not retry in lockstep.
	JitterFrac float64

	// RateLimitFactor inflates the delay when the error matches
	// models.ErrRateLimited.
	RateLimitFactor float64

	// Retryable decides whether an error is worth another attempt. Nil means
	// every error is retryable.
	Retryable func(error) bool

	// OnRetry runs before each re-attempt. Callers use it to rotate request
	// identity or log.
	OnRetry func(attempt int, err error, delay time.Duration)

	// Sleep is replaceable in tests. Nil uses a context-aware wait.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewPolicy returns a policy with the usual shape: exponential backoff with
// jitter and a hard throttling penalty.
func NewPolicy(maxAttempts int, base time.Duration, multiplier float64, maxDelay time.Duration, rateLimitFactor float64) Policy {
	return Policy{
		MaxAttempts:     maxAttempts,
		BaseDelay:       base,
		Multiplier:      multiplier,
		MaxDelay:        maxDelay,
		JitterFrac:      0.25,
		RateLimitFactor: rateLimitFactor,
	}
}

// Do runs op until it succeeds, attempts are exhausted, or ctx is done.
// The last error is returned on exhaustion; a context error wins when the
// wait is interrupted.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context, attempt int) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op(ctx, attempt)
		if lastErr == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(lastErr) {
			return lastErr
		}
		if attempt == attempts {
			break
		}

		delay := p.delayFor(attempt, lastErr)
		if p.OnRetry != nil {
			p.OnRetry(attempt, lastErr, delay)
		}
		if err := p.sleep(ctx, delay); err != nil {
			return err
		}
	}
	return lastErr
}

func (p Policy) delayFor(attempt int, err error) time.Duration {
	delay := float64(p.BaseDelay)
	mult := p.Multiplier
	if mult <= 0 {
		mult = 1
	}
	for i := 1; i < attempt; i++ {
		delay *= mult
	}
	if errors.Is(err, models.ErrRateLimited) && p.RateLimitFactor > 1 {
		delay *= p.RateLimitFactor
	}
	if p.MaxDelay > 0 && delay > float64(p.MaxDelay) {
		delay = float64(p.MaxDelay)
	}
	if p.JitterFrac > 0 {
		delay += delay * p.JitterFrac * rand.Float64()
	}
	return time.Duration(delay)
}

func (p Policy) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
