package atomics

import "sync"

// Counter can be changed atomically and conditionally waited on. The zero
// value is a counter at zero.
type Counter struct {
	m     sync.Mutex
	c     sync.Cond
	value int
}

func (c *Counter) init() {
	if c.c.L == nil {
		c.c.L = &c.m
	}
}

// Add value to counter and return the new value
func (c *Counter) Add(value int) int {
	c.m.Lock()
	defer c.m.Unlock()
	c.init()

	if value == 0 {
		return c.value
	}
	c.value += value
	c.c.Broadcast()
	return c.value
}

// Value of the counter
func (c *Counter) Value() int {
	c.m.Lock()
	defer c.m.Unlock()

	return c.value
}

// WaitFor blocks until predicate holds for the value of the counter
func (c *Counter) WaitFor(predicate func(val int) bool) {
	c.m.Lock()
	defer c.m.Unlock()
	c.init()

	for !predicate(c.value) {
		c.c.Wait()
	}
}

// WaitForLessThan blocks until the counter is less than val
func (c *Counter) WaitForLessThan(val int) {
	c.WaitFor(func(v int) bool {
		return v < val
	})
}

// WaitForZero blocks until counter has reached zero
func (c *Counter) WaitForZero() {
	c.WaitFor(func(val int) bool {
		return val == 0
	})
}
