package session

import "sync"

// Registry owns the mapping from display name to joined session. Name
// uniqueness is enforced here: first writer wins, latecomers are
// rejected outright.
type Registry struct {
	mu      sync.RWMutex
	members map[string]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		members: make(map[string]*Session),
	}
}

// TryJoin atomically checks that name is free and inserts the session
// under it. It returns false if the name is already held; the caller
// must reject the session.
func (r *Registry) TryJoin(name string, sess *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.members[name]; taken {
		return false
	}
	r.members[name] = sess
	return true
}

// Leave removes the session holding name. Removing an absent name is a
// no-op, so disconnect paths may call it unconditionally.
func (r *Registry) Leave(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, name)
}

// Members returns a stable copy of the current membership for fan-out.
// A concurrent join or leave never affects a copy already taken.
func (r *Registry) Members() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := make([]*Session, 0, len(r.members))
	for _, sess := range r.members {
		members = append(members, sess)
	}
	return members
}

// Len returns the number of joined sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}
