package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTryJoinRejectsDuplicate(t *testing.T) {
	r := NewRegistry()
	alice := New(&fakeConn{})
	impostor := New(&fakeConn{})
	require.True(t, r.TryJoin("alice", alice))
	require.False(t, r.TryJoin("alice", impostor))
	require.Equal(t, 1, r.Len())
}

// Concurrent joins with the same name must yield exactly one winner.
func TestTryJoinConcurrent(t *testing.T) {
	r := NewRegistry()
	const racers = 32
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.TryJoin("alice", New(&fakeConn{})) {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, wins)
	require.Equal(t, 1, r.Len())
}

func TestLeaveIsIdempotent(t *testing.T) {
	r := NewRegistry()
	require.True(t, r.TryJoin("alice", New(&fakeConn{})))
	r.Leave("alice")
	r.Leave("alice")
	r.Leave("never-joined")
	require.Equal(t, 0, r.Len())
}

func TestMembersIsAStableCopy(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 4; i++ {
		require.True(t, r.TryJoin(fmt.Sprintf("user-%d", i), New(&fakeConn{})))
	}
	members := r.Members()
	require.Len(t, members, 4)
	r.Leave("user-0")
	require.Len(t, members, 4)
	require.Equal(t, 3, r.Len())
}
