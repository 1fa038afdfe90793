package fleet

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskcluster/idle-reclaimer/runtime/mocks"
)

func TestMemoryWorkerConnectAndTasks(t *testing.T) {
	c := clock.NewMock()
	w := NewMemoryWorker(WorkerOptions{Name: "w-1", Clock: c})

	assert.False(t, w.IsOnline())
	assert.Equal(t, ErrNotAcceptingTasks, w.StartTask(), "offline worker can't take tasks")

	w.Connect(false)
	require.True(t, w.IsOnline())
	assert.Equal(t, "w-1", w.Node().NodeName())

	require.NoError(t, w.StartTask())
	c.Add(10 * time.Minute)
	assert.Equal(t, c.Now(), w.IdleStart(), "busy worker isn't idle")

	w.FinishTask()
	finished := c.Now()
	c.Add(5 * time.Minute)
	assert.Equal(t, finished, w.IdleStart())

	w.SetAcceptingTasks(false)
	assert.Equal(t, ErrNotAcceptingTasks, w.StartTask())
	assert.Equal(t, 0, w.ActiveTasks())
}

func TestMemoryWorkerConnectDelay(t *testing.T) {
	c := clock.NewMock()
	w := NewMemoryWorker(WorkerOptions{Name: "w-1", Clock: c, ConnectDelay: time.Second})

	w.Connect(false)
	w.Connect(false)
	assert.False(t, w.IsOnline())
	c.Add(time.Second)
	require.Eventually(t, w.IsOnline, 5*time.Second, time.Millisecond)
	assert.Equal(t, 2, w.Connects())
}

func TestMemoryWorkerDisconnect(t *testing.T) {
	c := clock.NewMock()
	w := NewMemoryWorker(WorkerOptions{Name: "w-1", Clock: c, DisconnectDelay: time.Minute})
	w.Connect(false)
	require.True(t, w.IsOnline())

	w.Disconnect(IdleTimeout)
	assert.True(t, w.IsOnline(), "disconnect takes DisconnectDelay")

	done := make(chan error, 1)
	go func() {
		done <- w.WaitUntilOffline(context.Background())
	}()
	select {
	case <-done:
		assert.FailNow(t, "worker isn't offline yet")
	case <-time.After(5 * time.Millisecond):
	}

	c.Add(time.Minute)
	require.NoError(t, <-done)
	assert.False(t, w.IsOnline())
	assert.Equal(t, IdleTimeout, w.OfflineCause())
}

func TestMemoryWorkerWaitUntilOfflineInterrupted(t *testing.T) {
	c := clock.NewMock()
	w := NewMemoryWorker(WorkerOptions{Name: "w-1", Clock: c, DisconnectDelay: time.Hour})
	w.Connect(false)
	w.Disconnect(IdleTimeout)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := w.WaitUntilOffline(ctx)
	require.Error(t, err)
	assert.Equal(t, context.Canceled, errors.Cause(err))
	assert.True(t, w.IsOnline())
}

func TestMemoryWorkerWaitUntilOfflineWhenOffline(t *testing.T) {
	w := NewMemoryWorker(WorkerOptions{Name: "w-1"})
	assert.NoError(t, w.WaitUntilOffline(context.Background()))
}

func TestMemoryWorkerConnectDetached(t *testing.T) {
	monitor := mocks.NewMockMonitor(false)
	w := NewMemoryWorker(WorkerOptions{Name: "w-1", Monitor: monitor})
	w.Detach()
	assert.Nil(t, w.Node())

	w.Connect(false)
	assert.False(t, w.IsOnline())
	assert.Equal(t, ErrDetached, w.LastError())
	assert.Len(t, monitor.EntriesOfKind("WARNING-REPORT"), 1)
}

func TestMemoryWorkerForceReconnect(t *testing.T) {
	w := NewMemoryWorker(WorkerOptions{Name: "w-1"})
	w.Connect(false)
	w.Connect(true)
	assert.True(t, w.IsOnline())
	assert.Equal(t, "reconnect", w.OfflineCause().Reason)
}

func TestMemoryWorkerReconnectCancelsPendingDisconnect(t *testing.T) {
	c := clock.NewMock()
	w := NewMemoryWorker(WorkerOptions{Name: "w-1", Clock: c, DisconnectDelay: time.Minute})
	w.Connect(false)
	require.True(t, w.IsOnline())

	w.Disconnect(OfflineCause{Reason: "test"})
	c.Add(30 * time.Second)
	require.True(t, w.IsOnline(), "still within the disconnect delay")

	w.Connect(true)
	require.True(t, w.IsOnline())

	c.Add(time.Minute)
	assert.Never(t, func() bool { return !w.IsOnline() }, 50*time.Millisecond, time.Millisecond,
		"disconnect scheduled for the previous session must not apply")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, w.WaitUntilOffline(ctx), "new session is still online")
}
