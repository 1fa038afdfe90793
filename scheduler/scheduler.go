// Package scheduler implements the periodic loop that applies a
// retention.Strategy to every worker in a fleet.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/taskcluster/idle-reclaimer/fleet"
	"github.com/taskcluster/idle-reclaimer/retention"
	"github.com/taskcluster/idle-reclaimer/runtime"
	"github.com/taskcluster/idle-reclaimer/runtime/atomics"
)

// An Inventory lists the workers the scheduler manages
type Inventory interface {
	Workers() []fleet.Worker
}

// Options for creating a Scheduler
type Options struct {
	Inventory Inventory
	Strategy  retention.Strategy
	Monitor   runtime.Monitor
	Clock     clock.Clock
	// Time between passes over the inventory
	TickInterval time.Duration
	// Maximum number of evaluations running at the same time
	Concurrency int
}

type entry struct {
	worker    fleet.Worker
	started   atomics.Once
	nextCheck time.Time
	checking  bool
}

// A Scheduler invokes Strategy.OnStart once for every new worker that is
// offline, and Strategy.Evaluate for every worker whose next check is due.
type Scheduler struct {
	inventory    Inventory
	strategy     retention.Strategy
	monitor      runtime.Monitor
	clock        clock.Clock
	tickInterval time.Duration
	concurrency  int

	running  atomics.Bool
	inFlight atomics.Counter
	m        sync.Mutex
	entries  map[string]*entry
}

// New returns a Scheduler, Clock defaults to the wall clock and Concurrency
// to 1.
func New(options Options) *Scheduler {
	if options.Clock == nil {
		options.Clock = clock.New()
	}
	if options.Concurrency < 1 {
		options.Concurrency = 1
	}
	if options.TickInterval <= 0 {
		options.TickInterval = time.Minute
	}
	return &Scheduler{
		inventory:    options.Inventory,
		strategy:     options.Strategy,
		monitor:      options.Monitor,
		clock:        options.Clock,
		tickInterval: options.TickInterval,
		concurrency:  options.Concurrency,
		entries:      make(map[string]*entry),
	}
}

// Run ticks every TickInterval until ctx is done, then waits for running
// evaluations to finish. Evaluations are given ctx, so canceling it also
// interrupts evaluations waiting for workers to go offline.
func (s *Scheduler) Run(ctx context.Context) {
	if s.running.Swap(true) {
		panic("Scheduler.Run() called while scheduler is already running")
	}
	defer s.running.Set(false)

	ticker := s.clock.Ticker(s.tickInterval)
	defer ticker.Stop()

	for {
		s.Tick(ctx)
		select {
		case <-ctx.Done():
			s.Wait()
			return
		case <-ticker.C:
		}
	}
}

// Tick makes a single pass over the inventory, starting evaluations that are
// due. It returns the number of evaluations started, without waiting for them.
// Tick blocks while Concurrency evaluations are running, and must not be
// called concurrently with itself or Run.
func (s *Scheduler) Tick(ctx context.Context) int {
	workers := s.inventory.Workers()
	now := s.clock.Now()

	s.m.Lock()
	current := make(map[string]*entry, len(workers))
	for _, w := range workers {
		e, ok := s.entries[w.Name()]
		if !ok {
			e = &entry{worker: w}
		}
		current[w.Name()] = e
	}
	// Forget workers that left the fleet
	s.entries = current
	s.m.Unlock()

	started := 0
	for _, w := range workers {
		if ctx.Err() != nil {
			break
		}
		e := current[w.Name()]
		e.started.Do(func() {
			if !w.IsOnline() {
				s.strategy.OnStart(w)
			}
		})

		s.m.Lock()
		due := !e.checking && !now.Before(e.nextCheck)
		s.m.Unlock()
		if !due {
			continue
		}

		s.inFlight.WaitForLessThan(s.concurrency)
		s.m.Lock()
		e.checking = true
		s.m.Unlock()
		s.inFlight.Add(1)
		started++
		go s.evaluate(ctx, e)
	}
	s.monitor.Measure("workers", float64(len(workers)))
	return started
}

func (s *Scheduler) evaluate(ctx context.Context, e *entry) {
	defer s.inFlight.Add(-1)

	outcome := retention.Outcome{}
	incidentID := s.monitor.CapturePanic(func() {
		outcome = s.strategy.Evaluate(ctx, e.worker)
	})
	if incidentID != "" {
		s.monitor.Count("evaluate-panics", 1)
	}
	s.monitor.WithTag("worker", e.worker.Name()).Debugf("evaluated: %s", outcome)

	s.m.Lock()
	defer s.m.Unlock()
	e.checking = false
	e.nextCheck = s.clock.Now().Add(outcome.NextCheck)
}

// Wait blocks until no evaluations are running
func (s *Scheduler) Wait() {
	s.inFlight.WaitForZero()
}

// InFlight returns the number of evaluations currently running
func (s *Scheduler) InFlight() int {
	return s.inFlight.Value()
}
