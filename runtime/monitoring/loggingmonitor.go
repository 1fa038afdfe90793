package monitoring

import (
	"fmt"
	godebug "runtime/debug"
	"strings"
	"time"

	"github.com/pborman/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/taskcluster/idle-reclaimer/runtime"
)

type loggingMonitor struct {
	*logrus.Entry
	prefix string
}

// ParseLevel returns the logrus.Level for one of the log-levels allowed in
// ConfigSchema.
func ParseLevel(logLevel string) (logrus.Level, error) {
	level, err := logrus.ParseLevel(strings.ToLower(logLevel))
	if err != nil {
		return level, errors.Wrapf(err, "unsupported log-level: %s", logLevel)
	}
	return level, nil
}

// NewLoggingMonitor creates a monitor that writes everything to a logrus
// logger. Measures and counters are written as debug messages.
func NewLoggingMonitor(logLevel string, tags map[string]string, syslogName string) runtime.Monitor {
	level, err := ParseLevel(logLevel)
	if err != nil {
		panic(err.Error())
	}
	logger := logrus.New()
	logger.Level = level

	fields := make(logrus.Fields, len(tags))
	for k, v := range tags {
		fields[k] = v
	}

	m := &loggingMonitor{
		Entry: logrus.NewEntry(logger).WithFields(fields),
	}

	if syslogName != "" {
		if err := setupSyslog(logger, syslogName); err != nil {
			m.ReportError(err, "cannot set up syslog output")
		}
	}

	return m
}

// newLoggingMonitorFromEntry is used by tests to capture output
func newLoggingMonitorFromEntry(entry *logrus.Entry) runtime.Monitor {
	return &loggingMonitor{Entry: entry}
}

func (m *loggingMonitor) Measure(name string, value ...float64) {
	strs := make([]string, 0, len(value))
	for _, v := range value {
		strs = append(strs, fmt.Sprintf("%f", v))
	}
	m.Debugf("measure: %s%s recorded %s", m.prefix, name, strings.Join(strs, ","))
}

func (m *loggingMonitor) Count(name string, value float64) {
	m.Debugf("counter: %s%s incremented by %f", m.prefix, name, value)
}

func (m *loggingMonitor) Time(name string, fn func()) {
	start := time.Now()
	defer func() {
		m.Measure(name, time.Since(start).Seconds()*1000)
	}()
	fn()
}

func (m *loggingMonitor) CapturePanic(fn func()) (incidentID string) {
	defer func() {
		if crash := recover(); crash != nil {
			incidentID = uuid.NewRandom().String()
			m.Entry.WithField("incidentId", incidentID).WithField("panic", crash).Error(
				"Recovered from panic: ", fmt.Sprint(crash), "\nAt:\n", string(godebug.Stack()),
			)
		}
	}()
	fn()
	return
}

func (m *loggingMonitor) ReportError(err error, message ...interface{}) string {
	incidentID := uuid.NewRandom().String()
	m.Entry.WithField("incidentId", incidentID).WithError(err).Error(message...)
	return incidentID
}

func (m *loggingMonitor) ReportWarning(err error, message ...interface{}) string {
	incidentID := uuid.NewRandom().String()
	m.Entry.WithField("incidentId", incidentID).WithError(err).Warn(message...)
	return incidentID
}

func (m *loggingMonitor) WithTags(tags map[string]string) runtime.Monitor {
	fields := make(logrus.Fields, len(tags)+1)
	for k, v := range tags {
		fields[k] = v
	}
	if m.prefix != "" {
		fields["prefix"] = strings.TrimSuffix(m.prefix, ".") // don't allow overwrite "prefix"
	}
	return &loggingMonitor{
		Entry:  m.Entry.WithFields(fields),
		prefix: m.prefix,
	}
}

func (m *loggingMonitor) WithTag(key, value string) runtime.Monitor {
	return m.WithTags(map[string]string{key: value})
}

func (m *loggingMonitor) WithPrefix(prefix string) runtime.Monitor {
	prefix = m.prefix + prefix
	return &loggingMonitor{
		Entry:  m.Entry.WithField("prefix", prefix),
		prefix: prefix + ".",
	}
}
