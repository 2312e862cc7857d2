// Package guard provides a per-operation single-flight gate: refresh,
// download and delete each get their own Guard so a given operation
// cannot be started twice concurrently, while unrelated operations
// never block each other.
package guard

import "sync"

// Guard admits at most one in-flight operation.
type Guard struct {
	mu   sync.Mutex
	busy bool
}

// TryStart atomically claims the guard. It returns false, doing
// nothing, when an operation is already running.
func (g *Guard) TryStart() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy {
		return false
	}
	g.busy = true
	return true
}

// Finish releases the guard unconditionally. Callers defer it on every
// exit path so a failed operation never wedges the gate.
func (g *Guard) Finish() {
	g.mu.Lock()
	g.busy = false
	g.mu.Unlock()
}

// Busy reports whether an operation is currently in flight.
func (g *Guard) Busy() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.busy
}
