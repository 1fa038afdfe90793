package retention

import "github.com/taskcluster/idle-reclaimer/fleet"

// taskGate closes the task-acceptance gate of a worker for the duration of a
// check. Callers must defer release(), which restores the gate to its original
// value unless retire() was called, in which case the gate stays closed.
type taskGate struct {
	w       fleet.Worker
	restore bool
}

func closeTaskGate(w fleet.Worker) *taskGate {
	g := &taskGate{
		w:       w,
		restore: w.IsAcceptingTasks(),
	}
	w.SetAcceptingTasks(false)
	return g
}

// retire keeps the gate closed on release
func (g *taskGate) retire() {
	g.restore = false
}

func (g *taskGate) release() {
	g.w.SetAcceptingTasks(g.restore)
}
