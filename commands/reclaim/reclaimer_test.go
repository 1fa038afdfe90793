package reclaim

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskcluster/idle-reclaimer/config"
	"github.com/taskcluster/idle-reclaimer/runtime/mocks"
)

func testConfig(size int, retention map[string]interface{}) *config.Config {
	cfg := &config.Config{
		Monitor:   map[string]interface{}{"type": "mock", "panicOnError": false},
		Retention: retention,
	}
	cfg.Scheduler.TickInterval = 1
	cfg.Scheduler.Concurrency = 2
	cfg.Fleet.InitialSize = size
	return cfg
}

// advance moves mock time forward until done is closed
func advance(t *testing.T, mock *clock.Mock, done <-chan struct{}) {
	deadline := time.After(10 * time.Second)
	for {
		select {
		case <-done:
			return
		case <-deadline:
			t.Fatal("timed out waiting for reclaimer to stop")
		default:
			mock.Add(time.Second)
		}
	}
}

func TestReclaimDrainsIdleFleet(t *testing.T) {
	monitor := mocks.NewMockMonitor(false)
	mock := clock.NewMock()
	cfg := testConfig(3, map[string]interface{}{
		"provider":      "idle",
		"idleTimeout":   float64(1),
		"checkInterval": float64(10),
	})

	r, err := newReclaimer(context.Background(), cfg, monitor, mock)
	require.NoError(t, err)
	require.Equal(t, 3, r.pool.Size())

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Run(context.Background())
	}()
	advance(t, mock, done)

	assert.Equal(t, 0, r.pool.Size())
	assert.Equal(t, 0, r.instances.Running())
	assert.Len(t, r.instances.Destroyed(), 3)
	assert.Equal(t, float64(3), monitor.CounterValue("retention.reclaimed"))
	assert.Equal(t, float64(3), monitor.CounterValue("fleet.terminated"))
}

func TestReclaimStopsWhenCanceled(t *testing.T) {
	monitor := mocks.NewMockMonitor(false)
	mock := clock.NewMock()
	cfg := testConfig(2, map[string]interface{}{"provider": "always"})

	r, err := newReclaimer(context.Background(), cfg, monitor, mock)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Run(ctx)
	}()
	require.Eventually(t, func() bool {
		mock.Add(time.Second)
		for _, w := range r.pool.Workers() {
			if !w.IsOnline() {
				return false
			}
		}
		return true
	}, 10*time.Second, 10*time.Millisecond, "workers should have been connected")
	cancel()
	advance(t, mock, done)

	assert.Equal(t, 2, r.pool.Size())
	assert.Equal(t, 2, r.instances.Running())
}
