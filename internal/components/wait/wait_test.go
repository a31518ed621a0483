package wait

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestUntilSucceedsAfterRetries(t *testing.T) {
	calls := 0
	value, err := Until(context.Background(), Options{Attempts: 5, Interval: time.Millisecond}, func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", ErrNotReady
		}
		return "ready", nil
	})
	require.NoError(t, err)
	require.Equal(t, "ready", value)
	require.Equal(t, 3, calls)
}

func TestUntilIsBounded(t *testing.T) {
	calls := 0
	_, err := Until(context.Background(), Options{Attempts: 4, Interval: time.Millisecond}, func(context.Context) (int, error) {
		calls++
		return 0, ErrNotReady
	})
	require.ErrorIs(t, err, ErrNotReady)
	require.Equal(t, 4, calls)
}

func TestUntilStopsOnOtherErrors(t *testing.T) {
	broken := errors.New("broken")
	calls := 0
	_, err := Until(context.Background(), Options{Attempts: 10, Interval: time.Millisecond}, func(context.Context) (int, error) {
		calls++
		return 0, broken
	})
	require.ErrorIs(t, err, broken)
	require.Equal(t, 1, calls)
}

func TestUntilHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Until(ctx, Options{Attempts: 100, Interval: time.Hour}, func(context.Context) (int, error) {
		return 0, ErrNotReady
	})
	require.Error(t, err)
}
