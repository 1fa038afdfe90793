package atomics

import (
	"context"
	"sync"
	"time"
)

// A Barrier can be lowered once, after which it stays lowered. It is used for
// permanent state changes such as a worker going offline or the reclaimer
// shutting down.
type Barrier struct {
	m sync.Mutex
	b chan struct{}
}

func (b *Barrier) init() {
	b.m.Lock()
	defer b.m.Unlock()

	if b.b == nil {
		b.b = make(chan struct{})
	}
}

// Fall lowers the barrier, unblocking everybody waiting for it. Returns true
// if this call was the one that lowered the barrier.
func (b *Barrier) Fall() bool {
	b.init()

	b.m.Lock()
	defer b.m.Unlock()

	select {
	case <-b.b:
		return false
	default:
	}
	close(b.b)
	return true
}

// IsFallen returns true, if the barrier is lowered.
func (b *Barrier) IsFallen() bool {
	select {
	case <-b.Barrier():
		return true
	default:
		return false
	}
}

// Barrier returns a channel that is closed when the barrier is lowered.
func (b *Barrier) Barrier() <-chan struct{} {
	b.init()
	return b.b
}

// AsContext returns a context.Context that is canceled when the barrier is
// lowered.
func (b *Barrier) AsContext() context.Context {
	return &barrierAsContext{b}
}

type barrierAsContext struct {
	b *Barrier
}

func (c *barrierAsContext) Deadline() (time.Time, bool) {
	return time.Time{}, false
}

func (c *barrierAsContext) Done() <-chan struct{} {
	return c.b.Barrier()
}

func (c *barrierAsContext) Err() error {
	if c.b.IsFallen() {
		return context.Canceled
	}
	return nil
}

func (c *barrierAsContext) Value(interface{}) interface{} {
	return nil
}
