package runtime

// A Monitor is responsible for collecting logs, stats and error messages.
//
// Components of the reclaimer are handed a Monitor rather than a logger, so
// that the same object can be tagged with the worker or node being operated on
// and carry counters for the decisions being made.
type Monitor interface {
	// Measure values, such as the duration of a critical section
	Measure(name string, value ...float64)
	// Increment counters
	Count(name string, value float64)
	// Measure time of fn
	Time(name string, fn func())

	// CapturePanic recovers from a panic in fn, reports it and returns an
	// incidentId, or an empty string if fn didn't panic.
	CapturePanic(fn func()) (incidentID string)

	// Report error/warning and write to log, returns an incidentId which can be
	// used to correlate log entries.
	ReportError(err error, message ...interface{}) string
	ReportWarning(err error, message ...interface{}) string

	// Write log messages to system log
	Debug(...interface{})
	Debugln(...interface{})
	Debugf(string, ...interface{})
	Print(...interface{})
	Println(...interface{})
	Printf(string, ...interface{})
	Info(...interface{})
	Infoln(...interface{})
	Infof(string, ...interface{})
	Warn(...interface{})
	Warnln(...interface{})
	Warnf(string, ...interface{})
	Error(...interface{})
	Errorln(...interface{})
	Errorf(string, ...interface{})
	Panic(...interface{})
	Panicln(...interface{})
	Panicf(string, ...interface{})

	// Create child monitor with given tags
	WithTags(tags map[string]string) Monitor
	WithTag(key, value string) Monitor
	// Create child monitor with given prefix (prefix applies to everything)
	WithPrefix(prefix string) Monitor
}
