package fleet

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/taskcluster/idle-reclaimer/runtime"
	"github.com/taskcluster/idle-reclaimer/runtime/atomics"
)

// ErrNotAcceptingTasks is returned from MemoryWorker.StartTask when the
// task-acceptance gate is closed or the worker is offline.
var ErrNotAcceptingTasks = errors.New("worker is not accepting tasks")

// ErrDetached is reported as connection error when connecting a worker whose
// node has been removed from the fleet.
var ErrDetached = errors.New("worker has been detached from the fleet")

// WorkerOptions for creating a MemoryWorker
type WorkerOptions struct {
	Name    string
	Clock   clock.Clock
	Monitor runtime.Monitor
	// Time from Connect() to online, zero means immediately
	ConnectDelay time.Duration
	// Time from Disconnect() to offline, zero means immediately
	DisconnectDelay time.Duration
}

type memoryNode struct {
	name string
}

func (n *memoryNode) NodeName() string {
	return n.name
}

// MemoryWorker is an in-memory Worker. Tasks are tracked with StartTask and
// FinishTask, which maintain IdleStart the way a task dispatcher would.
type MemoryWorker struct {
	options   WorkerOptions
	accepting atomics.Bool

	m           sync.Mutex
	node        Node
	idleStart   time.Time
	activeTasks int
	online      bool
	connecting  bool
	offline     *atomics.Barrier
	connects    int
	lastCause   OfflineCause
	lastError   error
}

// NewMemoryWorker returns an offline MemoryWorker that accepts tasks once it is
// connected, and has been idle since now.
func NewMemoryWorker(options WorkerOptions) *MemoryWorker {
	if options.Clock == nil {
		options.Clock = clock.New()
	}
	offline := &atomics.Barrier{}
	offline.Fall()
	w := &MemoryWorker{
		options:   options,
		node:      &memoryNode{name: options.Name},
		idleStart: options.Clock.Now(),
		offline:   offline,
	}
	w.accepting.Set(true)
	return w
}

// Name returns the name of the worker
func (w *MemoryWorker) Name() string {
	return w.options.Name
}

// IdleStart returns the time at which the last task finished, or the time
// the worker was created if it never ran a task. While tasks are running it
// returns the current time, as the worker isn't idle.
func (w *MemoryWorker) IdleStart() time.Time {
	w.m.Lock()
	defer w.m.Unlock()

	if w.activeTasks > 0 {
		return w.options.Clock.Now()
	}
	return w.idleStart
}

// IsOnline returns true if the worker is connected
func (w *MemoryWorker) IsOnline() bool {
	w.m.Lock()
	defer w.m.Unlock()

	return w.online
}

// IsAcceptingTasks returns the task-acceptance gate
func (w *MemoryWorker) IsAcceptingTasks() bool {
	return w.accepting.Get()
}

// SetAcceptingTasks sets the task-acceptance gate
func (w *MemoryWorker) SetAcceptingTasks(accepting bool) {
	w.accepting.Set(accepting)
}

// Node returns the backing node, nil if detached
func (w *MemoryWorker) Node() Node {
	w.m.Lock()
	defer w.m.Unlock()

	return w.node
}

// Detach removes the backing node, this is done by Pool when the instance is
// terminated.
func (w *MemoryWorker) Detach() {
	w.m.Lock()
	defer w.m.Unlock()

	w.node = nil
}

// ActiveTasks returns the number of tasks currently running
func (w *MemoryWorker) ActiveTasks() int {
	w.m.Lock()
	defer w.m.Unlock()

	return w.activeTasks
}

// StartTask dispatches a task to the worker, returns ErrNotAcceptingTasks if
// the worker is offline or doesn't accept tasks.
func (w *MemoryWorker) StartTask() error {
	w.m.Lock()
	defer w.m.Unlock()

	if !w.online || !w.accepting.Get() {
		return ErrNotAcceptingTasks
	}
	w.activeTasks++
	return nil
}

// FinishTask marks a task as done, when no more tasks are running the worker
// becomes idle.
func (w *MemoryWorker) FinishTask() {
	w.m.Lock()
	defer w.m.Unlock()

	if w.activeTasks == 0 {
		panic("MemoryWorker.FinishTask() called without any active tasks")
	}
	w.activeTasks--
	if w.activeTasks == 0 {
		w.idleStart = w.options.Clock.Now()
	}
}

// Connect requests the worker to come online.
func (w *MemoryWorker) Connect(forceReconnect bool) {
	w.m.Lock()
	defer w.m.Unlock()

	w.connects++
	if w.node == nil {
		w.lastError = ErrDetached
		w.report(ErrDetached, "cannot connect worker")
		return
	}
	if w.connecting || (w.online && !forceReconnect) {
		return
	}
	if w.online {
		w.goOffline(OfflineCause{Reason: "reconnect"})
	}
	w.connecting = true
	w.after(w.options.ConnectDelay, w.finishConnect)
}

// finishConnect requires w.m to be held
func (w *MemoryWorker) finishConnect() {
	if !w.connecting {
		return
	}
	w.connecting = false
	if w.node == nil {
		w.lastError = ErrDetached
		w.report(ErrDetached, "worker detached while connecting")
		return
	}
	w.online = true
	w.lastError = nil
	w.offline = &atomics.Barrier{}
}

// Disconnect requests the worker to go offline.
func (w *MemoryWorker) Disconnect(cause OfflineCause) {
	w.m.Lock()
	defer w.m.Unlock()

	w.lastCause = cause
	w.connecting = false
	if !w.online {
		return
	}
	// A reconnect before the delay expires starts a new session, which this
	// disconnect must not end.
	session := w.offline
	w.after(w.options.DisconnectDelay, func() {
		if w.offline == session {
			w.goOffline(cause)
		}
	})
}

// goOffline requires w.m to be held
func (w *MemoryWorker) goOffline(cause OfflineCause) {
	if !w.online {
		return
	}
	w.online = false
	w.lastCause = cause
	w.offline.Fall()
}

// WaitUntilOffline blocks until the worker is offline or ctx is done.
func (w *MemoryWorker) WaitUntilOffline(ctx context.Context) error {
	w.m.Lock()
	offline := w.offline
	w.m.Unlock()

	select {
	case <-offline.Barrier():
		return nil
	case <-ctx.Done():
		return errors.Wrapf(ctx.Err(), "interrupted waiting for %s to go offline", w.Name())
	}
}

// Connects returns the number of times Connect() has been called
func (w *MemoryWorker) Connects() int {
	w.m.Lock()
	defer w.m.Unlock()

	return w.connects
}

// OfflineCause returns the cause given to the last Disconnect()
func (w *MemoryWorker) OfflineCause() OfflineCause {
	w.m.Lock()
	defer w.m.Unlock()

	return w.lastCause
}

// LastError returns the error from the last connection attempt, if any
func (w *MemoryWorker) LastError() error {
	w.m.Lock()
	defer w.m.Unlock()

	return w.lastError
}

// after runs fn with w.m held after d, or immediately if d is zero. Must be
// called with w.m held.
func (w *MemoryWorker) after(d time.Duration, fn func()) {
	if d <= 0 {
		fn()
		return
	}
	w.options.Clock.AfterFunc(d, func() {
		w.m.Lock()
		defer w.m.Unlock()
		fn()
	})
}

func (w *MemoryWorker) report(err error, message string) {
	if w.options.Monitor != nil {
		w.options.Monitor.WithTag("worker", w.options.Name).ReportWarning(err, message)
	}
}
