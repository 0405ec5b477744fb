// Package userlock serializes mutations of a single user's progress row.
// Two concurrent attempts for the same user must not interleave their
// read-modify-write cycles on hearts, points or coins.
package userlock

import "sync"

type Registry struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for userID, creating it on first use. The returned
// func releases the lock.
func (r *Registry) Lock(userID string) func() {
	r.mu.Lock()
	l, ok := r.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[userID] = l
	}
	r.mu.Unlock()

	l.Lock()
	return l.Unlock
}
