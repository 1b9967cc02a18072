package poll_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NethermindEth/yayois-studio/pkg/studio/poll"
)

func fastPolicy() poll.Policy {
	return poll.Policy{
		InitialInterval: time.Millisecond,
		MaxInterval:     4 * time.Millisecond,
		Multiplier:      2,
		Jitter:          0.5,
		MaxAttempts:     50,
		Timeout:         10 * time.Second,
	}
}

func TestUntil_PendingThenComplete(t *testing.T) {
	for _, pending := range []int{0, 1, 5, 20} {
		calls := 0

		result, err := poll.Until(context.Background(), fastPolicy(), func(ctx context.Context, attempt int) (string, error) {
			calls++
			require.Equal(t, calls, attempt)
			if calls <= pending {
				return "", poll.ErrPending
			}
			return "video bytes", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "video bytes", result)
		assert.Equal(t, pending+1, calls)
	}
}

func TestUntil_TerminalErrorStops(t *testing.T) {
	calls := 0
	vendorErr := errors.New("content moderation")

	_, err := poll.Until(context.Background(), fastPolicy(), func(ctx context.Context, attempt int) (int, error) {
		calls++
		if calls < 3 {
			return 0, poll.ErrPending
		}
		return 0, vendorErr
	})

	assert.ErrorIs(t, err, vendorErr)
	assert.Equal(t, 3, calls)
}

func TestUntil_MaxAttempts(t *testing.T) {
	policy := fastPolicy()
	policy.MaxAttempts = 4
	calls := 0

	_, err := poll.Until(context.Background(), policy, func(ctx context.Context, attempt int) (int, error) {
		calls++
		return 0, poll.ErrPending
	})

	assert.ErrorIs(t, err, poll.ErrExhausted)
	assert.Equal(t, 4, calls)
}

func TestUntil_Timeout(t *testing.T) {
	policy := fastPolicy()
	policy.MaxAttempts = 0
	policy.Timeout = 30 * time.Millisecond

	_, err := poll.Until(context.Background(), policy, func(ctx context.Context, attempt int) (int, error) {
		return 0, poll.ErrPending
	})

	assert.ErrorIs(t, err, poll.ErrExhausted)
}

func TestUntil_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	_, err := poll.Until(ctx, fastPolicy(), func(ctx context.Context, attempt int) (int, error) {
		if attempt == 2 {
			cancel()
		}
		return 0, poll.ErrPending
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, poll.ErrExhausted)
}

func TestPolicy_Validate(t *testing.T) {
	assert.NoError(t, poll.DefaultPolicy().Validate())

	tests := []struct {
		name   string
		mutate func(*poll.Policy)
	}{
		{name: "zero interval", mutate: func(p *poll.Policy) { p.InitialInterval = 0 }},
		{name: "max below initial", mutate: func(p *poll.Policy) { p.MaxInterval = time.Second }},
		{name: "shrinking", mutate: func(p *poll.Policy) { p.Multiplier = 0.5 }},
		{name: "jitter too large", mutate: func(p *poll.Policy) { p.Jitter = 1 }},
		{name: "unbounded", mutate: func(p *poll.Policy) { p.MaxAttempts = 0; p.Timeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := poll.DefaultPolicy()
			tt.mutate(&policy)
			assert.Error(t, policy.Validate())

			_, err := poll.Until(context.Background(), policy, func(ctx context.Context, attempt int) (int, error) {
				t.Fatal("check must not run with an invalid policy")
				return 0, nil
			})
			assert.Error(t, err)
		})
	}
}
