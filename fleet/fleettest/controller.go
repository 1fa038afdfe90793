// Package fleettest provides test doubles for fleet.Controller.
package fleettest

import (
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/taskcluster/idle-reclaimer/fleet"
	"github.com/taskcluster/idle-reclaimer/runtime/atomics"
)

// MockController is a fleet.Controller that records calls to
// TerminateInstance using testify/mock, and counts how often the mutation
// lock is acquired.
//
// Expectations must be declared for TerminateInstance, as in:
//
//	c := fleettest.NewMockController()
//	c.On("TerminateInstance", "node-1").Once()
type MockController struct {
	mock.Mock
	m        sync.Mutex
	holders  atomics.Counter
	acquired atomics.Counter
	// Hold is how long Lock() sleeps after acquiring the lock, to widen the
	// window in which overlapping critical sections would be observed.
	Hold time.Duration
}

var _ fleet.Controller = &MockController{}

// NewMockController returns a MockController
func NewMockController() *MockController {
	return &MockController{}
}

// Lock acquires the mutation lock
func (c *MockController) Lock() {
	c.m.Lock()
	c.holders.Add(1)
	c.acquired.Add(1)

	if c.Hold > 0 {
		time.Sleep(c.Hold)
	}
}

// Unlock releases the mutation lock
func (c *MockController) Unlock() {
	c.holders.Add(-1)
	c.m.Unlock()
}

// TerminateInstance records the call and checks that the lock is held
func (c *MockController) TerminateInstance(nodeName string) {
	if c.holders.Value() != 1 {
		panic("fleettest.MockController: TerminateInstance called without holding the lock")
	}
	c.Called(nodeName)
}

// IsLocked returns true if the lock is currently held
func (c *MockController) IsLocked() bool {
	return c.holders.Value() > 0
}

// Acquisitions returns the number of times the lock has been acquired
func (c *MockController) Acquisitions() int {
	return c.acquired.Value()
}
