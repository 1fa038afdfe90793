package reclaim

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/taskcluster/idle-reclaimer/config"
	"github.com/taskcluster/idle-reclaimer/fleet"
	"github.com/taskcluster/idle-reclaimer/retention"
	"github.com/taskcluster/idle-reclaimer/runtime"
	"github.com/taskcluster/idle-reclaimer/scheduler"
)

type reclaimer struct {
	monitor   runtime.Monitor
	clock     clock.Clock
	instances *fleet.MemoryInstances
	pool      *fleet.Pool
	scheduler *scheduler.Scheduler
	interval  time.Duration
}

// newReclaimer provisions the fleet described by cfg and wires it to a
// scheduler running the configured retention strategy.
func newReclaimer(ctx context.Context, cfg *config.Config, monitor runtime.Monitor, clk clock.Clock) (*reclaimer, error) {
	if clk == nil {
		clk = clock.New()
	}
	instances := fleet.NewMemoryInstances()
	pool := fleet.NewPool(fleet.PoolOptions{
		Instances: instances,
		Monitor:   monitor.WithPrefix("fleet"),
		Clock:     clk,
		Worker: fleet.WorkerOptions{
			Monitor:         monitor.WithPrefix("worker"),
			ConnectDelay:    time.Duration(cfg.Fleet.ConnectDelay) * time.Millisecond,
			DisconnectDelay: time.Duration(cfg.Fleet.DisconnectDelay) * time.Millisecond,
		},
	})

	for i := 0; i < cfg.Fleet.InitialSize; i++ {
		if _, err := pool.Provision(ctx); err != nil {
			return nil, errors.Wrap(err, "failed to provision initial fleet")
		}
	}

	strategy := retention.New(retention.Options{
		Fleet:   pool,
		Monitor: monitor,
		Clock:   clk,
		Config:  cfg.Retention,
	})

	interval := time.Duration(cfg.Scheduler.TickInterval) * time.Second
	return &reclaimer{
		monitor:   monitor,
		clock:     clk,
		instances: instances,
		pool:      pool,
		interval:  interval,
		scheduler: scheduler.New(scheduler.Options{
			Inventory:    pool,
			Strategy:     strategy,
			Monitor:      monitor.WithPrefix("scheduler"),
			Clock:        clk,
			TickInterval: interval,
			Concurrency:  cfg.Scheduler.Concurrency,
		}),
	}, nil
}

// Run the scheduler until ctx is done or the fleet has no instances left.
func (r *reclaimer) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := r.clock.Ticker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if r.pool.Size() == 0 {
					r.monitor.Info("all instances have been terminated")
					cancel()
					return
				}
			}
		}
	}()

	r.monitor.Infof("reclaiming idle workers from a fleet of %d instances", r.pool.Size())
	r.scheduler.Run(ctx)
	cancel()
	<-done
	r.monitor.Infof("stopped with %d instances running", r.instances.Running())
}
