// Package admission implements the pre-handshake connection gate.
package admission

import (
	"sync"
	"time"
)

// DefaultInterval is the minimum spacing between two accepted
// connections from the same origin.
const DefaultInterval = 100 * time.Millisecond

// Gate is a single-slot heuristic against rapid reconnects: it remembers
// only the most recent accepted origin, not per-address history. It runs
// before any handshake, so rejected connections never reach session
// creation.
type Gate struct {
	mu       sync.Mutex
	interval time.Duration
	lastAddr string
	lastAt   time.Time
}

// NewGate creates a gate with the given minimum interval. A non-positive
// interval admits everything, which tests rely on.
func NewGate(interval time.Duration) *Gate {
	return &Gate{interval: interval}
}

// Admit reports whether a connection from origin may proceed at time
// now. A connection is rejected only when its origin matches the
// previously remembered one and arrived within the interval; on
// acceptance the remembered slot is updated.
func (g *Gate) Admit(origin string, now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.interval > 0 && origin == g.lastAddr && now.Sub(g.lastAt) < g.interval {
		return false
	}
	g.lastAddr = origin
	g.lastAt = now
	return true
}
