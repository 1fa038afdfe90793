package fleet

import (
	"context"
	"sort"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/taskcluster/idle-reclaimer/runtime"
	"github.com/taskcluster/slugid-go/slugid"
)

// An InstanceProvider creates and destroys the compute instances backing
// nodes, typically through a cloud provider API.
type InstanceProvider interface {
	CreateInstance(ctx context.Context, name string) error
	DestroyInstance(name string) error
}

// PoolOptions for creating a Pool
type PoolOptions struct {
	Instances InstanceProvider
	Monitor   runtime.Monitor
	Clock     clock.Clock
	// Template for workers created by Provision, Name and Clock are overwritten
	Worker WorkerOptions
}

type member struct {
	worker      *MemoryWorker
	terminating bool
}

// Pool is an in-memory Controller, it owns the membership of a fleet of
// MemoryWorkers and the mutation lock guarding it.
type Pool struct {
	m         sync.Mutex
	instances InstanceProvider
	monitor   runtime.Monitor
	clock     clock.Clock
	template  WorkerOptions
	members   map[string]*member
}

var _ Controller = &Pool{}

// NewPool returns an empty Pool, options.Monitor is required.
func NewPool(options PoolOptions) *Pool {
	if options.Monitor == nil {
		panic("fleet.NewPool: PoolOptions.Monitor is required")
	}
	if options.Clock == nil {
		options.Clock = clock.New()
	}
	if options.Instances == nil {
		options.Instances = NewMemoryInstances()
	}
	return &Pool{
		instances: options.Instances,
		monitor:   options.Monitor,
		clock:     options.Clock,
		template:  options.Worker,
		members:   make(map[string]*member),
	}
}

// Lock acquires the fleet mutation lock
func (p *Pool) Lock() {
	p.m.Lock()
}

// Unlock releases the fleet mutation lock
func (p *Pool) Unlock() {
	p.m.Unlock()
}

// assertLocked panics if the mutation lock isn't held by anyone. It cannot
// tell who holds it, but it catches callers that forgot to take it.
func (p *Pool) assertLocked() {
	if p.m.TryLock() {
		p.m.Unlock()
		panic("fleet.Pool: mutation lock must be held by the caller")
	}
}

// Provision creates a new instance and adds a worker for it to the fleet.
// The worker is offline until it is connected.
func (p *Pool) Provision(ctx context.Context) (*MemoryWorker, error) {
	p.Lock()
	defer p.Unlock()

	name := "node-" + slugid.Nice()
	if err := p.instances.CreateInstance(ctx, name); err != nil {
		return nil, errors.Wrapf(err, "failed to create instance for %s", name)
	}

	options := p.template
	options.Name = name
	options.Clock = p.clock
	if options.Monitor == nil {
		options.Monitor = p.monitor
	}
	w := NewMemoryWorker(options)
	p.members[name] = &member{worker: w}
	p.monitor.WithTag("node", name).Info("provisioned instance")
	p.monitor.Count("provisioned", 1)
	return w, nil
}

// TerminateInstance destroys the instance backing nodeName and removes it from
// the fleet. Unknown names are ignored. If destroying the instance fails the
// member is kept, marked as terminating, so a later call can retry.
//
// The caller must hold the mutation lock.
func (p *Pool) TerminateInstance(nodeName string) {
	p.assertLocked()

	mb, ok := p.members[nodeName]
	if !ok {
		p.monitor.WithTag("node", nodeName).Debug("terminate requested for unknown instance, ignoring")
		return
	}
	monitor := p.monitor.WithTag("node", nodeName)

	mb.terminating = true
	if err := p.instances.DestroyInstance(nodeName); err != nil {
		monitor.ReportError(err, "failed to destroy instance")
		p.monitor.Count("terminate-failed", 1)
		return
	}
	mb.worker.Detach()
	delete(p.members, nodeName)
	monitor.Info("terminated instance")
	p.monitor.Count("terminated", 1)
}

// Workers returns a snapshot of the workers in the fleet ordered by name,
// members being terminated are included.
func (p *Pool) Workers() []Worker {
	p.Lock()
	defer p.Unlock()

	names := make([]string, 0, len(p.members))
	for name := range p.members {
		names = append(names, name)
	}
	sort.Strings(names)

	workers := make([]Worker, 0, len(names))
	for _, name := range names {
		workers = append(workers, p.members[name].worker)
	}
	return workers
}

// Member returns the worker for nodeName, or nil if it isn't in the fleet
func (p *Pool) Member(nodeName string) *MemoryWorker {
	p.Lock()
	defer p.Unlock()

	if mb, ok := p.members[nodeName]; ok {
		return mb.worker
	}
	return nil
}

// Size returns the number of members, including those being terminated
func (p *Pool) Size() int {
	p.Lock()
	defer p.Unlock()

	return len(p.members)
}
