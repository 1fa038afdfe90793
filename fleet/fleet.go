package fleet

import (
	"context"
	"sync"
	"time"
)

// A Controller is the authoritative owner of fleet membership.
//
// The embedded sync.Locker is the single mutation lock for the fleet. It must
// be held by any code that reads membership, decides and then acts upon it,
// including TerminateInstance.
type Controller interface {
	sync.Locker
	// TerminateInstance destroys the instance backing nodeName and removes it
	// from the fleet. Calling it for an instance that is already gone is a
	// no-op. The caller must hold the lock.
	TerminateInstance(nodeName string)
}

// A Node is the inventory entry backing a Worker.
type Node interface {
	// NodeName is stable and unique within the fleet.
	NodeName() string
}

// OfflineCause explains why a worker was disconnected.
type OfflineCause struct {
	Reason  string
	Message string
}

func (c OfflineCause) String() string {
	if c.Message == "" {
		return c.Reason
	}
	return c.Reason + ": " + c.Message
}

// IdleTimeout is the OfflineCause used when disconnecting an idle worker.
var IdleTimeout = OfflineCause{
	Reason:  "idle-timeout",
	Message: "worker has been idle for longer than the idle timeout",
}

// A Worker is a handle for a connected (or connectable) worker.
type Worker interface {
	// Name is a human readable name used in logs
	Name() string
	// IdleStart is the instant the worker last became idle. It is maintained by
	// whoever dispatches tasks to the worker.
	IdleStart() time.Time
	// IsOnline returns true if the worker has a live connection
	IsOnline() bool
	// IsAcceptingTasks returns false if tasks must not be dispatched to the
	// worker.
	IsAcceptingTasks() bool
	SetAcceptingTasks(accepting bool)
	// Node returns the backing node, or nil if the worker has been detached
	// from the inventory.
	Node() Node
	// Disconnect requests that the worker goes offline, it doesn't block.
	Disconnect(cause OfflineCause)
	// WaitUntilOffline blocks until the worker is offline or ctx is done, in
	// which case ctx.Err() is returned.
	WaitUntilOffline(ctx context.Context) error
	// Connect requests that the worker is brought online, it doesn't block.
	// Failures are reported through the worker's own status.
	Connect(forceReconnect bool)
}
