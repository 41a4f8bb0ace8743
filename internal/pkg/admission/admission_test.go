package admission

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRejectsRapidRepeatFromSameOrigin(t *testing.T) {
	g := NewGate(100 * time.Millisecond)
	now := time.Now()
	require.True(t, g.Admit("10.0.0.1", now))
	require.False(t, g.Admit("10.0.0.1", now.Add(50*time.Millisecond)))
	require.True(t, g.Admit("10.0.0.1", now.Add(150*time.Millisecond)))
}

func TestDifferentOriginAlwaysAdmitted(t *testing.T) {
	g := NewGate(100 * time.Millisecond)
	now := time.Now()
	require.True(t, g.Admit("10.0.0.1", now))
	require.True(t, g.Admit("10.0.0.2", now))
	// the slot now remembers .2, so .1 is admitted again immediately
	require.True(t, g.Admit("10.0.0.1", now.Add(time.Millisecond)))
}

func TestZeroIntervalAdmitsEverything(t *testing.T) {
	g := NewGate(0)
	now := time.Now()
	for i := 0; i < 10; i++ {
		require.True(t, g.Admit("10.0.0.1", now))
	}
}
