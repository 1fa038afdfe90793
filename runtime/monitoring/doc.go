// Package monitoring provides implementations of runtime.Monitor.
//
// Besides the logrus backed monitor this package exposes ConfigSchema and a
// generic New(config) that picks an implementation from configuration, so the
// reclaimer can run with a mock monitor in test configurations.
package monitoring
