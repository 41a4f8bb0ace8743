package throttle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// A burst of 10 requests at t=0 yields exactly one accepted change, and
// one more no earlier than t=interval.
func TestBurstCollapsesToOne(t *testing.T) {
	l := NewLimiter(500 * time.Millisecond)
	now := time.Now()
	accepted := 0
	for i := 0; i < 10; i++ {
		if l.Allow(now) {
			accepted++
		}
	}
	require.Equal(t, 1, accepted)
	require.False(t, l.Allow(now.Add(499*time.Millisecond)))
	require.True(t, l.Allow(now.Add(500*time.Millisecond)))
}

func TestSpacedRequestsAllowed(t *testing.T) {
	l := NewLimiter(500 * time.Millisecond)
	now := time.Now()
	for i := 0; i < 5; i++ {
		require.True(t, l.Allow(now.Add(time.Duration(i)*500*time.Millisecond)))
	}
}

func TestZeroIntervalAllowsEverything(t *testing.T) {
	l := NewLimiter(0)
	now := time.Now()
	for i := 0; i < 10; i++ {
		require.True(t, l.Allow(now))
	}
}
