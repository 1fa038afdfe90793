// Package mocks provides test doubles for runtime interfaces.
package mocks

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	godebug "runtime/debug"

	"github.com/pborman/uuid"
	"github.com/taskcluster/idle-reclaimer/runtime"
)

var mockMonitorLog = runtime.Debug("monitor")

// An Entry is a log message recorded by MockMonitor
type Entry struct {
	Kind    string // DEBUG, INFO, WARN, ERROR, WARNING-REPORT, ERROR-REPORT, PANIC
	Message string
	Tags    map[string]string
}

type recorder struct {
	m        sync.Mutex
	measures map[string][]float64
	counters map[string]float64
	entries  []Entry
}

// MockMonitor implements runtime.Monitor for use in unit tests, it records
// everything so tests can assert on what was logged and counted.
type MockMonitor struct {
	tags         map[string]string
	prefix       string
	metadata     string
	panicOnError bool
	rec          *recorder
}

// NewMockMonitor returns a Monitor that records all messages and prints them
// using runtime.Debug("monitor"), so set DEBUG=monitor to see them.
//
// If panicOnError is set this will panic if Error() or ReportError() is called.
// This is useful for testing components that should never report errors.
func NewMockMonitor(panicOnError bool) *MockMonitor {
	return &MockMonitor{
		panicOnError: panicOnError,
		rec: &recorder{
			measures: make(map[string][]float64),
			counters: make(map[string]float64),
		},
	}
}

// Measure records values for given name
func (m *MockMonitor) Measure(name string, value ...float64) {
	m.rec.m.Lock()
	defer m.rec.m.Unlock()

	m.rec.measures[m.prefix+name] = append(m.rec.measures[m.prefix+name], value...)
}

// Count increments counter by name with given value
func (m *MockMonitor) Count(name string, value float64) {
	m.rec.m.Lock()
	defer m.rec.m.Unlock()

	m.rec.counters[m.prefix+name] += value
}

// Time measures and records the execution time of fn
func (m *MockMonitor) Time(name string, fn func()) {
	start := time.Now()
	fn()
	m.Measure(name, time.Since(start).Seconds()*1000)
}

// HasMeasure returns true if a measure with given name has been reported,
// name is relative to the prefix of m.
func (m *MockMonitor) HasMeasure(name string) bool {
	m.rec.m.Lock()
	defer m.rec.m.Unlock()

	_, ok := m.rec.measures[m.prefix+name]
	return ok
}

// CounterValue returns the sum of values counted for name, name is relative
// to the prefix of m.
func (m *MockMonitor) CounterValue(name string) float64 {
	m.rec.m.Lock()
	defer m.rec.m.Unlock()

	return m.rec.counters[m.prefix+name]
}

// Entries returns all entries recorded by m and monitors derived from m.
func (m *MockMonitor) Entries() []Entry {
	m.rec.m.Lock()
	defer m.rec.m.Unlock()

	return append([]Entry(nil), m.rec.entries...)
}

// EntriesOfKind returns recorded entries with the given kind
func (m *MockMonitor) EntriesOfKind(kind string) []Entry {
	var result []Entry
	for _, e := range m.Entries() {
		if e.Kind == kind {
			result = append(result, e)
		}
	}
	return result
}

// CapturePanic recovers from panic in fn and returns incidentID, if any
func (m *MockMonitor) CapturePanic(fn func()) (incidentID string) {
	defer func() {
		if crash := recover(); crash != nil {
			incidentID = uuid.NewRandom().String()
			trace := godebug.Stack()
			text := fmt.Sprint("Recovered from panic: ", crash, "\nAt:\n", string(trace))
			m.WithTag("incidentId", incidentID).(*MockMonitor).output("PANIC", text)
			if m.panicOnError {
				panic(fmt.Sprintf("Panic: %s", text))
			}
		}
	}()
	fn()
	return
}

// ReportError records an error, and panics if panicOnError was set
func (m *MockMonitor) ReportError(err error, message ...interface{}) string {
	incidentID := uuid.NewRandom().String()
	text := fmt.Sprint(append([]interface{}{"error: ", err, " "}, message...)...)
	m.WithTag("incidentId", incidentID).(*MockMonitor).output("ERROR-REPORT", text)
	if m.panicOnError {
		panic(fmt.Sprintf("ReportError: %s", text))
	}
	return incidentID
}

// ReportWarning records a warning
func (m *MockMonitor) ReportWarning(err error, message ...interface{}) string {
	incidentID := uuid.NewRandom().String()
	text := fmt.Sprint(append([]interface{}{"error: ", err, " "}, message...)...)
	m.WithTag("incidentId", incidentID).(*MockMonitor).output("WARNING-REPORT", text)
	return incidentID
}

func (m *MockMonitor) output(kind string, a ...interface{}) {
	message := fmt.Sprint(a...)
	m.rec.m.Lock()
	m.rec.entries = append(m.rec.entries, Entry{
		Kind:    kind,
		Message: message,
		Tags:    m.tags,
	})
	m.rec.m.Unlock()
	mockMonitorLog("%s: %s (%s)", kind, message, m.metadata)
}

// Debug writes a debug message
func (m *MockMonitor) Debug(a ...interface{}) { m.output("DEBUG", a...) }

// Debugln writes a debug message
func (m *MockMonitor) Debugln(a ...interface{}) { m.Debug(fmt.Sprintln(a...)) }

// Debugf writes a debug message
func (m *MockMonitor) Debugf(f string, a ...interface{}) { m.Debug(fmt.Sprintf(f, a...)) }

// Print writes a message labelled as INFO
func (m *MockMonitor) Print(a ...interface{}) { m.output("INFO", a...) }

// Println writes a message labelled as INFO
func (m *MockMonitor) Println(a ...interface{}) { m.Print(fmt.Sprintln(a...)) }

// Printf writes a message labelled as INFO
func (m *MockMonitor) Printf(f string, a ...interface{}) { m.Print(fmt.Sprintf(f, a...)) }

// Info writes a message labelled as INFO
func (m *MockMonitor) Info(a ...interface{}) { m.output("INFO", a...) }

// Infoln writes a message labelled as INFO
func (m *MockMonitor) Infoln(a ...interface{}) { m.Info(fmt.Sprintln(a...)) }

// Infof writes a message labelled as INFO
func (m *MockMonitor) Infof(f string, a ...interface{}) { m.Info(fmt.Sprintf(f, a...)) }

// Warn writes a message labelled as WARN
func (m *MockMonitor) Warn(a ...interface{}) { m.output("WARN", a...) }

// Warnln writes a message labelled as WARN
func (m *MockMonitor) Warnln(a ...interface{}) { m.Warn(fmt.Sprintln(a...)) }

// Warnf writes a message labelled as WARN
func (m *MockMonitor) Warnf(f string, a ...interface{}) { m.Warn(fmt.Sprintf(f, a...)) }

// Error writes a message labelled as ERROR, and panics if panicOnError was set
func (m *MockMonitor) Error(a ...interface{}) {
	m.output("ERROR", a...)
	if m.panicOnError {
		panic(fmt.Sprint(a...))
	}
}

// Errorln writes a message labelled as ERROR, and panics if panicOnError was set
func (m *MockMonitor) Errorln(a ...interface{}) { m.Error(fmt.Sprintln(a...)) }

// Errorf writes a message labelled as ERROR, and panics if panicOnError was set
func (m *MockMonitor) Errorf(f string, a ...interface{}) { m.Error(fmt.Sprintf(f, a...)) }

// Panic writes a message labelled as PANIC, and panics
func (m *MockMonitor) Panic(a ...interface{}) {
	m.output("PANIC", a...)
	panic(fmt.Sprint(a...))
}

// Panicln writes a message labelled as PANIC, and panics
func (m *MockMonitor) Panicln(a ...interface{}) { m.Panic(fmt.Sprintln(a...)) }

// Panicf writes a message labelled as PANIC, and panics
func (m *MockMonitor) Panicf(f string, a ...interface{}) { m.Panic(fmt.Sprintf(f, a...)) }

// WithTags creates a new child Monitor with given tags
func (m *MockMonitor) WithTags(tags map[string]string) runtime.Monitor {
	allTags := make(map[string]string, len(m.tags)+len(tags))
	for k, v := range m.tags {
		allTags[k] = v
	}
	for k, v := range tags {
		allTags[k] = v
	}
	return &MockMonitor{
		tags:         allTags,
		prefix:       m.prefix,
		metadata:     mockMonitorMetadata(allTags, m.prefix),
		panicOnError: m.panicOnError,
		rec:          m.rec,
	}
}

// WithTag creates a new child Monitor with given tag
func (m *MockMonitor) WithTag(key, value string) runtime.Monitor {
	return m.WithTags(map[string]string{key: value})
}

// WithPrefix creates a new child Monitor with given prefix
func (m *MockMonitor) WithPrefix(prefix string) runtime.Monitor {
	if prefix != "" {
		prefix += "."
	}
	return &MockMonitor{
		tags:         m.tags,
		prefix:       m.prefix + prefix,
		metadata:     mockMonitorMetadata(m.tags, m.prefix+prefix),
		panicOnError: m.panicOnError,
		rec:          m.rec,
	}
}

func mockMonitorMetadata(tags map[string]string, prefix string) string {
	prefix = strings.TrimSuffix(prefix, ".")

	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(tags)+1)
	pairs = append(pairs, fmt.Sprintf("prefix=%s", prefix))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, tags[k]))
	}
	return strings.Join(pairs, " ")
}
