// Package guard contains the one-shot latch that decides which trigger
// gets to run the crash capture.
package guard

import "sync/atomic"

const (
	armed uint32 = iota
	fired
	closed
)

// Guard permits exactly one successful TryEnter for its whole lifetime.
// The zero value is armed and ready to use.
type Guard struct {
	state atomic.Uint32
}

func New() *Guard {
	return &Guard{}
}

// TryEnter reports whether the caller won the guard. It never blocks and
// never allocates, so it is safe to call while a goroutine is panicking.
func (g *Guard) TryEnter() bool {
	return g.state.CompareAndSwap(armed, fired)
}

func (g *Guard) Fired() bool {
	return g.state.Load() != armed
}

// Teardown releases the guard after the winning capture. It does nothing
// when the guard never fired.
func (g *Guard) Teardown() {
	g.state.CompareAndSwap(fired, closed)
}

func (g *Guard) Closed() bool {
	return g.state.Load() == closed
}
