package service

import "sync"

// complaintLocks hands out one mutex per complaint id. Entries are dropped once
// nobody holds or waits on them.
type complaintLocks struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newComplaintLocks() *complaintLocks {
	return &complaintLocks{locks: make(map[string]*lockEntry)}
}

// lock blocks until the complaint is free and returns its release func.
func (l *complaintLocks) lock(id string) func() {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &lockEntry{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func (l *complaintLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
