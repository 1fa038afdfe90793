package retention

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taskcluster/idle-reclaimer/fleet"
)

func TestTaskGate(t *testing.T) {
	w := fleet.NewMemoryWorker(fleet.WorkerOptions{Name: "w-1"})

	func() {
		gate := closeTaskGate(w)
		defer gate.release()
		assert.False(t, w.IsAcceptingTasks())
	}()
	assert.True(t, w.IsAcceptingTasks(), "release restores the gate")

	func() {
		gate := closeTaskGate(w)
		defer gate.release()
		gate.retire()
	}()
	assert.False(t, w.IsAcceptingTasks(), "retired gate stays closed")

	func() {
		gate := closeTaskGate(w)
		defer gate.release()
	}()
	assert.False(t, w.IsAcceptingTasks(), "closed gate is restored as closed")
}

func TestTaskGateReleasedOnPanic(t *testing.T) {
	w := fleet.NewMemoryWorker(fleet.WorkerOptions{Name: "w-1"})
	assert.Panics(t, func() {
		gate := closeTaskGate(w)
		defer gate.release()
		panic("check failed")
	})
	assert.True(t, w.IsAcceptingTasks())
}
