package fleet

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// MemoryInstances is an InstanceProvider that keeps track of instances in
// memory.
type MemoryInstances struct {
	m         sync.Mutex
	running   map[string]bool
	destroyed []string
	failures  map[string]error
}

// NewMemoryInstances returns an empty MemoryInstances
func NewMemoryInstances() *MemoryInstances {
	return &MemoryInstances{
		running:  make(map[string]bool),
		failures: make(map[string]error),
	}
}

// CreateInstance records an instance as running
func (mi *MemoryInstances) CreateInstance(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	mi.m.Lock()
	defer mi.m.Unlock()

	if mi.running[name] {
		return errors.Errorf("instance %s already exists", name)
	}
	mi.running[name] = true
	return nil
}

// DestroyInstance removes a running instance, destroying an instance that
// isn't running is not an error.
func (mi *MemoryInstances) DestroyInstance(name string) error {
	mi.m.Lock()
	defer mi.m.Unlock()

	if err, ok := mi.failures[name]; ok {
		delete(mi.failures, name)
		return err
	}
	if mi.running[name] {
		delete(mi.running, name)
		mi.destroyed = append(mi.destroyed, name)
	}
	return nil
}

// FailNextDestroy makes the next DestroyInstance(name) return err
func (mi *MemoryInstances) FailNextDestroy(name string, err error) {
	mi.m.Lock()
	defer mi.m.Unlock()

	mi.failures[name] = err
}

// Running returns the number of running instances
func (mi *MemoryInstances) Running() int {
	mi.m.Lock()
	defer mi.m.Unlock()

	return len(mi.running)
}

// Destroyed returns the names of destroyed instances in order
func (mi *MemoryInstances) Destroyed() []string {
	mi.m.Lock()
	defer mi.m.Unlock()

	return append([]string(nil), mi.destroyed...)
}
