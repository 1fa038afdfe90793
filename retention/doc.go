// Package retention decides when workers in an elastic fleet are reclaimed.
//
// A Strategy is invoked periodically by the scheduler for every worker in the
// fleet. Evaluate inspects the worker and, if the strategy decides the worker
// is no longer needed, disconnects it and asks the fleet.Controller to
// terminate the instance backing it. OnStart is invoked once when a worker
// should be brought online.
//
// Strategies are provided by providers registered with Register, typically
// from func init(). New picks a provider from configuration matching
// ConfigSchema(). This package registers two providers:
//
//	idle    reclaims workers that have been idle longer than idleTimeout
//	always  keeps every worker
//
// The idle strategy holds the controller lock for the whole of Evaluate,
// including while waiting for the worker to go offline. This serializes
// checks for all workers and fleet mutations such as provisioning, so a worker
// being torn down can never be handed out, and no instance is terminated
// twice.
package retention
