// Package presence tracks which users currently hold at least one live
// connection. The registry is the only state shared across connection
// goroutines; every read and write goes through its mutex and no I/O is
// ever performed while it is held.
package presence

import (
	"sort"
	"sync"
)

// Registry maps a user id to the set of its active connection ids. A
// user appears in the map iff the set is non-empty.
type Registry struct {
	mu    sync.RWMutex
	conns map[int]map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[int]map[string]struct{})}
}

// Register adds a connection id to the user's set, creating the entry
// if absent. Invalid ids are ignored.
func (r *Registry) Register(userID int, connID string) {
	if userID <= 0 || connID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.conns[userID]
	if !ok {
		set = make(map[string]struct{})
		r.conns[userID] = set
	}
	set[connID] = struct{}{}
}

// Unregister removes a connection id, deleting the user's entry when the
// set becomes empty. It returns the number of connections the user still
// holds so callers can act on the last disconnect without re-locking.
func (r *Registry) Unregister(userID int, connID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.conns[userID]
	if !ok {
		return 0
	}
	delete(set, connID)
	if len(set) == 0 {
		delete(r.conns, userID)
		return 0
	}
	return len(set)
}

// IsOnline reports whether the user has at least one active connection.
func (r *Registry) IsOnline(userID int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.conns[userID]
	return ok
}

// Snapshot returns the ids of all online users in ascending order, so
// repeated broadcasts of the same state produce identical payloads.
func (r *Registry) Snapshot() []int {
	r.mu.RLock()
	ids := make([]int, 0, len(r.conns))
	for id := range r.conns {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Ints(ids)
	return ids
}
