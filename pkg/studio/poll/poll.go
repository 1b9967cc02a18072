package poll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

var (
	// ErrPending is returned by a Check while the remote job is still running.
	ErrPending = errors.New("job pending")
	// ErrExhausted means the attempts or the deadline ran out while the job was still pending.
	ErrExhausted = errors.New("polling exhausted")
)

// Policy bounds how a remote job is polled. Intervals grow by Multiplier up to
// MaxInterval, each randomized by ±Jitter.
type Policy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	Jitter          float64
	MaxAttempts     int
	Timeout         time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		InitialInterval: 10 * time.Second,
		MaxInterval:     30 * time.Second,
		Multiplier:      1.5,
		Jitter:          0.2,
		MaxAttempts:     120,
		Timeout:         30 * time.Minute,
	}
}

func (p Policy) Validate() error {
	if p.InitialInterval <= 0 {
		return fmt.Errorf("initial interval must be positive")
	}
	if p.MaxInterval < p.InitialInterval {
		return fmt.Errorf("max interval must be at least the initial interval")
	}
	if p.Multiplier < 1 {
		return fmt.Errorf("multiplier must be at least 1")
	}
	if p.Jitter < 0 || p.Jitter >= 1 {
		return fmt.Errorf("jitter must be in [0, 1)")
	}
	if p.MaxAttempts <= 0 && p.Timeout <= 0 {
		return fmt.Errorf("either max attempts or timeout must bound polling")
	}
	return nil
}

// Check queries the job once. It returns ErrPending to be called again; any
// other error stops polling.
type Check[T any] func(ctx context.Context, attempt int) (T, error)

// Until calls check until it returns something other than ErrPending, the
// attempts or deadline run out, or ctx is done.
func Until[T any](ctx context.Context, policy Policy, check Check[T]) (T, error) {
	var zero T

	if err := policy.Validate(); err != nil {
		return zero, fmt.Errorf("invalid poll policy: %w", err)
	}

	parent := ctx
	if policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, policy.Timeout)
		defer cancel()
	}

	exponential := backoff.NewExponentialBackOff()
	exponential.InitialInterval = policy.InitialInterval
	exponential.MaxInterval = policy.MaxInterval
	exponential.Multiplier = policy.Multiplier
	exponential.RandomizationFactor = policy.Jitter
	exponential.MaxElapsedTime = 0
	exponential.Reset()

	var b backoff.BackOff = exponential
	if policy.MaxAttempts > 0 {
		b = backoff.WithMaxRetries(b, uint64(policy.MaxAttempts-1))
	}
	b = backoff.WithContext(b, ctx)

	attempt := 0
	var result T
	operation := func() error {
		attempt++

		value, err := check(ctx, attempt)
		if errors.Is(err, ErrPending) {
			return err
		}
		if err != nil {
			return backoff.Permanent(err)
		}

		result = value
		return nil
	}

	notify := func(err error, wait time.Duration) {
		slog.Debug("job still pending", "attempt", attempt, "wait", wait)
	}

	err := backoff.RetryNotify(operation, b, notify)
	switch {
	case err == nil:
		return result, nil
	case parent.Err() != nil:
		return zero, parent.Err()
	case ctx.Err() != nil:
		return zero, fmt.Errorf("%w: deadline of %s reached after %d attempts", ErrExhausted, policy.Timeout, attempt)
	case errors.Is(err, ErrPending):
		return zero, fmt.Errorf("%w after %d attempts", ErrExhausted, attempt)
	default:
		return zero, err
	}
}
