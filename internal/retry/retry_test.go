package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gatat123/YouTube-Bot-v7/internal/models"
)

func noSleep(ctx context.Context, d time.Duration) error { return nil }

func TestDoRetriesUntilSuccess(t *testing.T) {
	p := NewPolicy(3, time.Second, 2, 30*time.Second, 5)
	p.Sleep = noSleep

	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context, attempt int) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	p := NewPolicy(3, time.Second, 2, 30*time.Second, 5)
	p.Sleep = noSleep

	calls := 0
	wantErr := errors.New("still broken")
	err := p.Do(context.Background(), func(ctx context.Context, attempt int) error {
		calls++
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected last error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestDoStopsOnNonRetryable(t *testing.T) {
	p := NewPolicy(5, time.Second, 2, 30*time.Second, 5)
	p.Sleep = noSleep
	p.Retryable = func(err error) bool { return !errors.Is(err, models.ErrInvalidInput) }

	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context, attempt int) error {
		calls++
		return fmt.Errorf("%w: bad topic", models.ErrInvalidInput)
	})
	if !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected a single attempt, got %d", calls)
	}
}

func TestDelayGrowsExponentially(t *testing.T) {
	p := NewPolicy(4, time.Second, 2, time.Minute, 5)
	p.JitterFrac = 0

	plain := errors.New("transient")
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
	}
	for _, tt := range tests {
		if got := p.delayFor(tt.attempt, plain); got != tt.want {
			t.Errorf("attempt %d: got %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestRateLimitBacksOffHarder(t *testing.T) {
	p := NewPolicy(3, time.Second, 2, time.Minute, 5)
	p.JitterFrac = 0

	plain := p.delayFor(1, errors.New("transient"))
	limited := p.delayFor(1, fmt.Errorf("%w: 429", models.ErrRateLimited))
	if limited <= plain {
		t.Fatalf("throttled delay %v should exceed plain delay %v", limited, plain)
	}
	if limited != 5*time.Second {
		t.Errorf("expected 5s throttled delay, got %v", limited)
	}
}

func TestDoRespectsCanceledContext(t *testing.T) {
	p := NewPolicy(3, time.Second, 2, 30*time.Second, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Do(ctx, func(ctx context.Context, attempt int) error {
		t.Fatal("op must not run on canceled context")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestOnRetryRotationHook(t *testing.T) {
	p := NewPolicy(3, time.Second, 2, 30*time.Second, 5)
	p.Sleep = noSleep

	rotations := 0
	p.OnRetry = func(attempt int, err error, delay time.Duration) { rotations++ }

	calls := 0
	_ = p.Do(context.Background(), func(ctx context.Context, attempt int) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if rotations != 2 {
		t.Errorf("expected 2 rotation callbacks, got %d", rotations)
	}
}
