package atomics

import "sync"

// Once is similar to sync.Once except that Do() reports whether this was the
// call that ran f.
//
// Once.Do(nil) is allowed and acts like Once.Do(func(){}).
type Once struct {
	m    sync.Mutex
	done Bool
}

// Do will call f() and return true, the first time Do() is called.
// All following calls will not call f() and return false. Concurrent calls
// block until f() has returned.
func (o *Once) Do(f func()) bool {
	if o.done.Get() {
		return false
	}

	o.m.Lock()
	defer o.m.Unlock()

	if o.done.Get() {
		return false
	}

	// Set done even if f panics
	defer o.done.Set(true)

	if f != nil {
		f()
	}
	return true
}
