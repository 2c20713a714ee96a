package fixtures

import "sync"

// Latest keeps the result of the newest request that has completed.
// Callers take a ticket before starting a request and resolve it when the
// response arrives; a response whose ticket is older than one already
// resolved is discarded.
type Latest[T any] struct {
	mu       sync.Mutex
	issued   uint64
	resolved uint64
	value    T
	ok       bool
}

// Begin issues the next ticket.
func (l *Latest[T]) Begin() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.issued++
	return l.issued
}

// Resolve stores v unless a newer ticket already resolved. It reports
// whether v was stored.
func (l *Latest[T]) Resolve(ticket uint64, v T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if ticket <= l.resolved || ticket > l.issued {
		return false
	}
	l.resolved = ticket
	l.value = v
	l.ok = true
	return true
}

// Load returns the stored value and whether any ticket has resolved.
func (l *Latest[T]) Load() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value, l.ok
}
