package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	schematypes "github.com/taskcluster/go-schematypes"
	"github.com/taskcluster/idle-reclaimer/fleet"
	"github.com/taskcluster/idle-reclaimer/runtime"
	"github.com/taskcluster/idle-reclaimer/runtime/util"
)

type idleProvider struct{}

func (idleProvider) ConfigSchema() schematypes.Object {
	return schematypes.Object{
		MetaData: schematypes.MetaData{
			Title: "Idle Retention Strategy",
			Description: util.Markdown(`
				Reclaims workers that have been idle for longer than 'idleTimeout'
				minutes. Idle workers are disconnected and their instances terminated.
			`),
		},
		Properties: schematypes.Properties{
			"idleTimeout": schematypes.Integer{
				MetaData: schematypes.MetaData{
					Title: "Idle Timeout",
					Description: util.Markdown(`
						Number of minutes a worker may be idle before it is reclaimed. A
						worker idle for exactly this long is kept until the next check.
					`),
				},
				Minimum: 0,
				Maximum: 7 * 24 * 60,
			},
			"checkInterval": checkIntervalSchema,
		},
		Required: []string{"idleTimeout"},
	}
}

func (idleProvider) NewStrategy(options Options) Strategy {
	var c struct {
		IdleTimeout   int `json:"idleTimeout"`
		CheckInterval int `json:"checkInterval"`
	}
	if err := schematypes.MustMap(idleProvider{}.ConfigSchema(), options.Config, &c); err != nil {
		panic(fmt.Sprintf("invalid 'idle' retention config, error: %s", err))
	}
	if c.CheckInterval == 0 {
		c.CheckInterval = defaultCheckInterval
	}
	return NewIdleStrategy(IdleOptions{
		Fleet:         options.Fleet,
		Monitor:       options.Monitor,
		Clock:         options.Clock,
		IdleTimeout:   time.Duration(c.IdleTimeout) * time.Minute,
		CheckInterval: time.Duration(c.CheckInterval) * time.Second,
	})
}

// IdleOptions for NewIdleStrategy
type IdleOptions struct {
	Fleet         fleet.Controller
	Monitor       runtime.Monitor
	Clock         clock.Clock
	IdleTimeout   time.Duration
	CheckInterval time.Duration
}

// An IdleStrategy reclaims workers that have been idle for longer than the
// idle timeout.
type IdleStrategy struct {
	Base
	fleet         fleet.Controller
	clock         clock.Clock
	idleTimeout   time.Duration
	checkInterval time.Duration
}

// NewIdleStrategy returns an IdleStrategy, options.Clock defaults to the wall
// clock.
func NewIdleStrategy(options IdleOptions) *IdleStrategy {
	if options.Clock == nil {
		options.Clock = clock.New()
	}
	options.Monitor.Infof("idle retention initiated, idle timeout: %s", options.IdleTimeout)
	return &IdleStrategy{
		Base:          Base{Monitor: options.Monitor},
		fleet:         options.Fleet,
		clock:         options.Clock,
		idleTimeout:   options.IdleTimeout,
		checkInterval: options.CheckInterval,
	}
}

func (s *IdleStrategy) isIdleForTooLong(w fleet.Worker, monitor runtime.Monitor) bool {
	age := s.clock.Now().Sub(w.IdleStart()).Milliseconds()
	maxAge := s.idleTimeout.Milliseconds()
	monitor.Debugf("age: %d ms, max age: %d ms", age, maxAge)
	return age > maxAge
}

// Evaluate disconnects and terminates w if it has been idle for longer than
// the idle timeout.
//
// The fleet lock is held for the entire call. While the check is running w
// doesn't accept tasks; if w is kept its original acceptance is restored, if
// it's reclaimed it never accepts tasks again. If ctx is canceled while
// waiting for w to go offline, termination is requested anyway.
func (s *IdleStrategy) Evaluate(ctx context.Context, w fleet.Worker) (outcome Outcome) {
	monitor := s.Monitor.WithTag("worker", w.Name())
	s.Monitor.Count("checks", 1)
	s.Monitor.Time("evaluate", func() {
		outcome = s.evaluate(ctx, w, monitor)
	})
	return
}

func (s *IdleStrategy) evaluate(ctx context.Context, w fleet.Worker, monitor runtime.Monitor) Outcome {
	// Nobody may mutate the fleet, or check another worker, while we decide
	s.fleet.Lock()
	defer s.fleet.Unlock()

	// Nobody may dispatch tasks to w until we're done checking
	gate := closeTaskGate(w)
	defer gate.release()

	if !s.isIdleForTooLong(w, monitor) {
		return Outcome{Checked: true, NextCheck: s.checkInterval}
	}
	gate.retire()

	node := w.Node()
	if node == nil {
		monitor.Debug("worker has been detached, nothing to terminate")
		return Outcome{}
	}
	nodeName := node.NodeName()

	if w.IsOnline() {
		monitor.Info("disconnecting idle worker")
		w.Disconnect(fleet.IdleTimeout)
		if err := w.WaitUntilOffline(ctx); err != nil {
			monitor.ReportWarning(err, "interrupted while disconnecting worker")
			s.Monitor.Count("interrupted", 1)
		}
	}

	monitor.WithTag("node", nodeName).Info("terminating idle worker")
	s.fleet.TerminateInstance(nodeName)
	s.Monitor.Count("reclaimed", 1)
	return Outcome{Checked: true, Reclaimed: true, NextCheck: s.checkInterval}
}

func init() {
	Register("idle", idleProvider{})
}
