// Package keylock provides in-process mutual exclusion keyed by string.
// Feedback writes serialize per file key; rename migrations hold their
// client key exclusively for the whole multi-step run.
package keylock

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

// Table hands out one mutex per key. Entries are reclaimed once the last
// holder releases, so the table stays bounded by the number of keys in use.
type Table struct {
	mu    sync.Mutex
	locks map[string]*entry
}

func NewTable() *Table {
	return &Table{locks: make(map[string]*entry)}
}

func (t *Table) acquireEntry(key string) *entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.locks[key]
	if !ok {
		e = &entry{}
		t.locks[key] = e
	}
	e.refs++
	return e
}

func (t *Table) releaseEntry(key string, e *entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(t.locks, key)
	}
}

// Lock blocks until the key is held. The returned func releases it.
func (t *Table) Lock(key string) func() {
	e := t.acquireEntry(key)
	e.mu.Lock()
	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()
			t.releaseEntry(key, e)
		})
	}
}

// TryLock acquires the key without blocking. ok is false when another
// holder has it, letting callers surface a retryable conflict instead of
// queueing behind a long migration.
func (t *Table) TryLock(key string) (release func(), ok bool) {
	e := t.acquireEntry(key)
	if !e.mu.TryLock() {
		t.releaseEntry(key, e)
		return nil, false
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()
			t.releaseEntry(key, e)
		})
	}, true
}
