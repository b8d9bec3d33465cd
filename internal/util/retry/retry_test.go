package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	t.Parallel()
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_SucceedsAfterRetries(t *testing.T) {
	t.Parallel()
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, WithMaxRetries(5), WithInitialDelay(time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustsBudget(t *testing.T) {
	t.Parallel()
	calls := 0
	sentinel := errors.New("still broken")
	err := Do(context.Background(), func() error {
		calls++
		return sentinel
	}, WithMaxRetries(4), WithInitialDelay(time.Millisecond))
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 5, calls, "budget is MaxRetries+1 attempts")
}

func TestDo_FatalStopsImmediately(t *testing.T) {
	t.Parallel()
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		return Fatal(errors.New("bad request"))
	}, WithMaxRetries(10), WithInitialDelay(time.Millisecond))
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, IsFatal(err))
}

func TestDo_ContextCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Do(ctx, func() error {
		return errors.New("transient")
	}, WithMaxRetries(3), WithInitialDelay(time.Hour))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDo_ConstantInterval(t *testing.T) {
	t.Parallel()
	// With Multiplier 1.0 the delay never grows; exercise the full budget
	// with a tiny interval and verify the attempt count.
	calls := 0
	sentinel := errors.New("refused")
	err := Do(context.Background(), func() error {
		calls++
		return sentinel
	}, WithMaxRetries(19), WithInitialDelay(time.Millisecond), WithMultiplier(1.0))
	require.Error(t, err)
	assert.Equal(t, 20, calls)
}

func TestFatal_NilPassthrough(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Fatal(nil))
	assert.False(t, IsFatal(nil))
}

func TestFatal_Unwrap(t *testing.T) {
	t.Parallel()
	inner := errors.New("inner")
	err := Fatal(inner)
	assert.ErrorIs(t, err, inner)
}
