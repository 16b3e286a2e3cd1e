// Package hostfuncs wraps the simulation host's native services for use by
// vessel logic.
//
// Services is the typed surface (ports.VesselServices): it validates every
// argument, converts it to host form, calls the host once and maps sentinel
// results to typed errors. HandlerRegistry exposes the same services as named
// JSON host functions for WASM logic modules, with middleware for panic
// recovery, logging and metrics.
//
// Nothing in this package depends on a WASM runtime.
package hostfuncs
