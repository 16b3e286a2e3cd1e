// Package wazero exposes the vessel host functions to WASM guests running on
// the wazero runtime.
//
// A HostModule turns each op of a hostfuncs.HandlerRegistry into a guest
// import that takes and returns packed i64 ptr+len JSON. Requests are read
// from guest memory and responses are written into memory obtained from the
// guest's allocate export.
//
//	registry, err := hostfuncs.NewRegistry(
//	    hostfuncs.WithBundle(hostfuncs.VesselBundle()),
//	)
//	if err != nil {
//	    return err
//	}
//
//	rt := wazero.NewRuntime(ctx)
//	err = wazero.NewHostModule(registry,
//	    wazero.WithGuestImport(wazero.LogMessageHandler(slog.Default())),
//	).Instantiate(ctx, rt)
//
// Host calls act on the vessel bound to the call context with
// hostfuncs.WithVesselServices, so each guest export must be called with the
// context of the vessel it serves.
package wazero
