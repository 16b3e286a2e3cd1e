package host

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/tetratelabs/wazero/api"

	"github.com/vesselbridge/sdk/application/vessel"
	"github.com/vesselbridge/sdk/domain/entities"
	"github.com/vesselbridge/sdk/domain/errors"
	"github.com/vesselbridge/sdk/hostfuncs"
	wzadapter "github.com/vesselbridge/sdk/infrastructure/wazero"
	"github.com/vesselbridge/sdk/wireformat"
)

// WasmVessel drives the logic of one vessel running in its own guest
// instance. A trap inside the guest faults the vessel the same way a panic
// faults a vessel.Box.
type WasmVessel struct {
	ctx     context.Context
	mod     api.Module
	logger  *slog.Logger
	fault   error
	class   string
	dropped bool
}

func newWasmVessel(ctx context.Context, mod api.Module, class string, svc *hostfuncs.Services, logger *slog.Logger) (*WasmVessel, error) {
	callCtx := hostfuncs.WithVesselServices(ctx, svc)
	callCtx = wzadapter.WithVesselName(callCtx, class)

	w := &WasmVessel{ctx: callCtx, mod: mod, logger: logger, class: class}

	payload, err := json.Marshal(wireformat.InitRequestWire{
		Class:       class,
		Vessel:      uint64(svc.Vessel()),
		FlightModel: int32(svc.FlightModel()),
	})
	if err == nil {
		err = w.callWithPayload(ExportInit, payload)
	}
	if err != nil {
		_ = mod.Close(ctx)
		return nil, &errors.ConstructionError{Class: class, Err: err}
	}
	return w, nil
}

// Configure sends the class config to the guest.
func (w *WasmVessel) Configure(cfg entities.ClassConfig) error {
	if err := w.usable(); err != nil {
		return err
	}
	payload, err := json.Marshal(wireformat.ConfigureRequestWire{Config: cfg})
	if err != nil {
		return &errors.WireFormatError{Operation: "encode", Type: "configure request", Err: err}
	}
	return w.callWithPayload(ExportConfigure, payload)
}

// Step runs one frame in the guest.
func (w *WasmVessel) Step(frame entities.FrameState) error {
	if err := w.usable(); err != nil {
		return err
	}
	results, err := w.call(ExportStep, api.EncodeF64(frame.SimTime), api.EncodeF64(frame.SimDT), api.EncodeF64(frame.MJD))
	if err != nil {
		return err
	}
	return w.result(results)
}

// HandleInput passes a key event and a copy of the key state to the guest.
func (w *WasmVessel) HandleInput(key entities.KeyCode, down bool, state *entities.KeyState) entities.KeyOutcome {
	if w.usable() != nil {
		return entities.KeyNotHandled
	}

	var buf entities.KeyState
	if state != nil {
		buf = *state
	}
	packed, err := wzadapter.WriteGuest(w.ctx, w.mod, buf[:])
	if err != nil {
		w.logger.Warn("host: failed to pass key state to guest", "class", w.class, "error", err)
		return entities.KeyNotHandled
	}
	defer wzadapter.FreeGuest(w.ctx, w.mod, packed)

	var downFlag uint64
	if down {
		downFlag = 1
	}
	results, err := w.call(ExportHandleInput, uint64(key), downFlag, packed>>32, uint64(uint32(packed)))
	if err != nil || len(results) == 0 {
		return entities.KeyNotHandled
	}

	switch outcome := entities.KeyOutcome(api.DecodeI32(results[0])); outcome {
	case entities.KeyHandledStop, entities.KeyHandledContinue:
		return outcome
	default:
		return entities.KeyNotHandled
	}
}

// Drop calls the guest's exit export and closes the instance. Later calls
// do nothing.
func (w *WasmVessel) Drop() {
	if w == nil || w.dropped {
		return
	}
	w.dropped = true
	if w.fault == nil {
		_, _ = w.call(ExportExit)
	}
	if err := w.mod.Close(w.ctx); err != nil {
		w.logger.Warn("host: failed to close guest instance", "class", w.class, "error", err)
	}
}

// Fault returns the trap that faulted the vessel, or nil.
func (w *WasmVessel) Fault() error { return w.fault }

func (w *WasmVessel) usable() error {
	if w.dropped {
		return vessel.ErrDropped
	}
	return w.fault
}

func (w *WasmVessel) callWithPayload(export string, payload []byte) error {
	packed, err := wzadapter.WriteGuest(w.ctx, w.mod, payload)
	if err != nil {
		return &errors.WireFormatError{Operation: "write", Type: export, Err: err}
	}
	defer wzadapter.FreeGuest(w.ctx, w.mod, packed)

	results, err := w.call(export, packed>>32, uint64(uint32(packed)))
	if err != nil {
		return err
	}
	return w.result(results)
}

func (w *WasmVessel) call(export string, params ...uint64) ([]uint64, error) {
	fn := w.mod.ExportedFunction(export)
	if fn == nil {
		return nil, &errors.HostError{Op: export, Err: errMissingExport}
	}
	results, err := fn.Call(w.ctx, params...)
	if err != nil {
		perr := &errors.LogicPanicError{Value: err, Callback: export}
		w.logger.Error("host: guest trapped", "class", w.class, "export", export, "error", err)
		if w.fault == nil {
			w.fault = perr
		}
		return nil, perr
	}
	return results, nil
}

// result decodes the packed error detail an export returns; zero is success.
func (w *WasmVessel) result(results []uint64) error {
	if len(results) == 0 || results[0] == 0 {
		return nil
	}
	data, err := wzadapter.ReadGuest(w.mod, results[0])
	wzadapter.FreeGuest(w.ctx, w.mod, results[0])
	if err != nil {
		return &errors.WireFormatError{Operation: "read", Type: "error detail", Err: err}
	}

	var detail wireformat.ErrorDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return &errors.WireFormatError{Operation: "decode", Type: "error detail", Err: err}
	}
	return vessel.FromWireError(&detail)
}
