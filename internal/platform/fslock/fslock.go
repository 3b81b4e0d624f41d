// Package fslock provides per-key mutual exclusion for file writers.
//
// The task and work-log stores write whole files; two writers hitting
// the same path concurrently must be serialized or readers can observe
// interleaved content. Locks are tracked in a reference-counted map so
// the table shrinks back to empty once a path is uncontended, instead
// of growing for every path ever written.
package fslock

import "sync"

// KeyedMutex serializes operations per key. The zero value is not
// usable; construct with New.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// New creates an empty KeyedMutex.
func New() *KeyedMutex {
	return &KeyedMutex{
		locks: make(map[string]*lockEntry),
	}
}

// Lock acquires the mutex for key, blocking until any current holder
// releases it. Waiters for the same key are granted the lock in
// roughly arrival order (sync.Mutex hands off to the longest waiter
// under contention).
func (k *KeyedMutex) Lock(key string) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &lockEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the mutex for key. It must only be called by the
// current holder. When no other goroutine holds or waits on the key,
// its entry is removed from the table.
func (k *KeyedMutex) Unlock(key string) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		k.mu.Unlock()
		panic("fslock: unlock of unheld key " + key)
	}
	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()

	e.mu.Unlock()
}

// Len reports the number of keys currently held or waited on.
// Intended for tests and diagnostics.
func (k *KeyedMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
