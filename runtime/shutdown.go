package runtime

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/taskcluster/idle-reclaimer/runtime/atomics"
)

// ShutdownManager implements a method for listening for shutdown events.
type ShutdownManager interface {
	WaitForShutdown() <-chan struct{}
}

// SignalShutdownManager is a ShutdownManager that signals shutdown when the
// process receives SIGINT or SIGTERM, or when Shutdown() is called.
type SignalShutdownManager struct {
	signals  chan os.Signal
	shutdown atomics.Barrier
}

// NewSignalShutdownManager starts listening for SIGINT and SIGTERM, call
// Stop() to stop listening.
func NewSignalShutdownManager() *SignalShutdownManager {
	m := &SignalShutdownManager{signals: make(chan os.Signal, 1)}
	signal.Notify(m.signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-m.signals:
			m.shutdown.Fall()
		case <-m.shutdown.Barrier():
		}
	}()
	return m
}

// WaitForShutdown returns a channel that is closed when shutdown is signaled
func (m *SignalShutdownManager) WaitForShutdown() <-chan struct{} {
	return m.shutdown.Barrier()
}

// Shutdown signals shutdown as if the process had received SIGTERM
func (m *SignalShutdownManager) Shutdown() {
	m.shutdown.Fall()
}

// Stop listening for signals, this also signals shutdown.
func (m *SignalShutdownManager) Stop() {
	signal.Stop(m.signals)
	m.shutdown.Fall()
}
