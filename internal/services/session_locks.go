package services

import "sync"

// sessionLocks serialises read-modify-write cycles on one browser's state.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the session's mutex and returns its unlock func.
func (l *sessionLocks) lock(session string) func() {
	l.mu.Lock()
	m, ok := l.locks[session]
	if !ok {
		m = &sync.Mutex{}
		l.locks[session] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
