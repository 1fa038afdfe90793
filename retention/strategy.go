package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/taskcluster/idle-reclaimer/fleet"
	"github.com/taskcluster/idle-reclaimer/runtime"
)

// A Strategy decides when a worker should be reclaimed.
type Strategy interface {
	// Evaluate checks w and reclaims it if the strategy says so. Evaluate never
	// fails, problems are reported to the monitor. ctx is used to interrupt
	// blocking operations, such as waiting for w to go offline.
	Evaluate(ctx context.Context, w fleet.Worker) Outcome

	// OnStart requests w to be connected, without waiting for it.
	OnStart(w fleet.Worker)
}

// Outcome of Strategy.Evaluate
type Outcome struct {
	// Checked is false if no check was performed, e.g. because the worker had
	// been detached from the fleet.
	Checked bool
	// Reclaimed is true if termination of the worker was requested
	Reclaimed bool
	// NextCheck is a hint for when the worker should be checked again, zero
	// means at the next opportunity.
	NextCheck time.Duration
}

func (o Outcome) String() string {
	switch {
	case o.Reclaimed:
		return fmt.Sprintf("reclaimed (next check in %s)", o.NextCheck)
	case o.Checked:
		return fmt.Sprintf("kept (next check in %s)", o.NextCheck)
	default:
		return "not checked"
	}
}

// Base implements OnStart, strategies should embed it.
type Base struct {
	Monitor runtime.Monitor
}

// OnStart logs and asks w to connect
func (b Base) OnStart(w fleet.Worker) {
	b.Monitor.WithTag("worker", w.Name()).Info("connecting to worker")
	w.Connect(false)
}
