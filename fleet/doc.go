// Package fleet defines the collaborators a retention strategy operates on: a
// Controller that owns fleet membership and the lock guarding it, and Worker
// handles for the nodes in the fleet.
//
// The package also ships in-memory implementations, Pool and MemoryWorker,
// that are used by the reclaim command and by tests. They model the contract a
// real cloud backed controller has to satisfy, notably that every operation
// reading and then mutating membership holds the controller lock, and that
// TerminateInstance is idempotent.
package fleet
