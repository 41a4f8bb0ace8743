// Package throttle implements the per-session change rate limit.
package throttle

import "time"

// DefaultInterval is the minimum spacing between accepted changes from
// one session.
const DefaultInterval = 500 * time.Millisecond

// Limiter tracks one session's last accepted change. It is owned by the
// session's read goroutine and needs no locking. Requests arriving
// faster than the interval are dropped silently, a soft throttle rather
// than a punitive one.
type Limiter struct {
	interval time.Duration
	last     time.Time
}

// NewLimiter creates a limiter with the given minimum interval. A
// non-positive interval allows everything.
func NewLimiter(interval time.Duration) *Limiter {
	return &Limiter{interval: interval}
}

// Allow reports whether a change may be accepted at time now. On allow,
// the last-accepted timestamp is updated before the change is applied.
func (l *Limiter) Allow(now time.Time) bool {
	if l.interval > 0 && now.Sub(l.last) < l.interval {
		return false
	}
	l.last = now
	return true
}
