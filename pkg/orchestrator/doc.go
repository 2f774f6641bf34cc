// Package orchestrator wires the loader → stage lookup → theme → renderer
// pipeline and the stage submission flow, providing dependency injection
// friendly helpers for consumers that prefer a single entry point.
package orchestrator
