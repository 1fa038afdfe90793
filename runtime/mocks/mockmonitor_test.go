package mocks

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockMonitorRecords(t *testing.T) {
	m := NewMockMonitor(false)
	child := m.WithPrefix("retention").WithTag("worker", "w-1")

	child.Count("reclaimed", 1)
	child.Count("reclaimed", 1)
	child.Time("evaluate", func() {})
	child.ReportWarning(errors.New("interrupted"), "waiting for worker")
	child.Info("hello")

	assert.Equal(t, float64(2), m.CounterValue("retention.reclaimed"))
	assert.True(t, m.HasMeasure("retention.evaluate"))

	warnings := m.EntriesOfKind("WARNING-REPORT")
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "interrupted")
	assert.Equal(t, "w-1", warnings[0].Tags["worker"])
	assert.NotEmpty(t, warnings[0].Tags["incidentId"])
	assert.Len(t, m.EntriesOfKind("INFO"), 1)
}

func TestMockMonitorPanicOnError(t *testing.T) {
	m := NewMockMonitor(true)
	assert.Panics(t, func() { m.Error("bad") })
	assert.Panics(t, func() { m.ReportError(errors.New("bad")) })
	assert.NotPanics(t, func() { m.ReportWarning(errors.New("not so bad")) })
}

func TestMockMonitorCapturePanic(t *testing.T) {
	m := NewMockMonitor(false)
	assert.Empty(t, m.CapturePanic(func() {}))
	assert.NotEmpty(t, m.CapturePanic(func() { panic("boom") }))
	assert.Len(t, m.EntriesOfKind("PANIC"), 1)
}
