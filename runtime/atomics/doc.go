// Package atomics provides small synchronization primitives used by the
// scheduler and the in-memory fleet: barriers for one-way state changes,
// atomic booleans, once-only actions and counters that can be waited on.
package atomics
