// Package ports defines the interfaces the vessel bridge depends on.
// The simulation host and its in-memory test double implement Host;
// hostfuncs.Services implements VesselServices.
package ports
