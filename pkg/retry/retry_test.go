package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:   attempts,
		InitialDelay:  time.Millisecond,
		MaxDelay:      2 * time.Millisecond,
		BackoffFactor: 2,
	}
}

func TestDo_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(5), func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoWithLog_ReportsAttemptsAndGivesUp(t *testing.T) {
	var logged []int
	err := DoWithLog(context.Background(), fastConfig(3), "PostgreSQL", func() error {
		return errors.New("refused")
	}, func(attempt int, err error, next time.Duration) {
		logged = append(logged, attempt)
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "PostgreSQL: max retry attempts (3) exceeded")
	assert.Equal(t, []int{1, 2}, logged)
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	cause := errors.New("bad credentials")
	calls := 0
	err := Do(context.Background(), fastConfig(5), func() error {
		calls++
		return Permanent(cause)
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, cause)
}

func TestDo_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, fastConfig(3), func() error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
