// Package host is the host-facing side of the vessel bridge.
//
// A VesselContext adapts the host's lifecycle and per-frame callbacks to one
// vessel's logic: it owns the logic's driver, guards callbacks with a small
// state machine (Constructing, Configured, Running, Destroyed) and destroys
// the logic exactly once. The free functions in exports.go expose the same
// surface keyed by an opaque handle so the host never holds a Go pointer.
//
// Logic can run in-process (a vessel.Box built from a vessel.Definition) or
// inside a WASM module loaded by an Executor on the wazero runtime.
package host
