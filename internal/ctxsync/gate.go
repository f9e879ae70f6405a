package ctxsync

import (
	"context"
	"sync"
)

// Gate is a one-shot barrier.
// Waiters block until the gate is opened or their context is done.
// Once opened, a gate stays open and every waiter observes the same error.
type Gate struct {
	once sync.Once
	done chan struct{}
	err  error
}

// NewGate returns a closed gate.
func NewGate() *Gate {
	return &Gate{done: make(chan struct{})}
}

// Open opens the gate and releases all waiters with err.
// It reports whether this call opened the gate; subsequent calls are no-ops.
func (g *Gate) Open(err error) bool {
	opened := false
	g.once.Do(func() {
		g.err = err
		close(g.done)
		opened = true
	})
	return opened
}

// IsOpen reports whether the gate has been opened.
func (g *Gate) IsOpen() bool {
	select {
	case <-g.done:
		return true
	default:
		return false
	}
}

// WaitCtx waits for the gate to open.
// It returns the error passed to Open, or the context error if the context is done first.
func (g *Gate) WaitCtx(ctx context.Context) error {
	select {
	case <-g.done:
		return g.err
	default:
	}

	select {
	case <-g.done:
		return g.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
