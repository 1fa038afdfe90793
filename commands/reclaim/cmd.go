// Package reclaim provides the reclaim command, which runs an in-memory fleet
// under the retention scheduler.
package reclaim

import (
	"fmt"
	"os"

	"github.com/taskcluster/idle-reclaimer/commands"
	"github.com/taskcluster/idle-reclaimer/config"
	"github.com/taskcluster/idle-reclaimer/runtime"
	"github.com/taskcluster/idle-reclaimer/runtime/atomics"
	"github.com/taskcluster/idle-reclaimer/runtime/monitoring"
)

func init() {
	commands.Register("reclaim", cmd{})
}

type cmd struct{}

func (cmd) Summary() string {
	return "Run an in-memory fleet and reclaim idle workers."
}

func (cmd) Usage() string {
	return `
idle-reclaimer reclaim provisions an in-memory fleet as configured, connects
the workers and terminates them as the retention strategy decides. It runs
until interrupted or until every instance has been terminated.

usage:
  idle-reclaimer reclaim <config.yml>
`
}

func (cmd) Execute(args map[string]interface{}) bool {
	monitor := monitoring.PreConfig()

	cfg, err := config.LoadFromFile(args["<config.yml>"].(string), monitor)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return false
	}

	shutdown := runtime.NewSignalShutdownManager()
	defer shutdown.Stop()

	var stop atomics.Barrier
	go func() {
		<-shutdown.WaitForShutdown()
		stop.Fall()
	}()
	ctx := stop.AsContext()
	r, err := newReclaimer(ctx, cfg, monitoring.New(cfg.Monitor), nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return false
	}
	r.Run(ctx)
	return true
}
