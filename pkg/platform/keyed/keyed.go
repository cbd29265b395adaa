// Package keyed provides a per-key mutex. Services take the
// currency-scoped lock for the span of one invocation so multi-record
// read-modify-write sequences stay consistent.
package keyed

import "sync"

// Mutex hands out one lock per key. Locks are never reclaimed; the key
// space is bounded by the number of configured currencies.
type Mutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewMutex() *Mutex {
	return &Mutex{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the lock for key and returns the unlock function.
func (m *Mutex) Lock(key string) func() {
	m.mu.Lock()
	l, ok := m.locks[key]
	if !ok {
		l = &sync.Mutex{}
		m.locks[key] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}
