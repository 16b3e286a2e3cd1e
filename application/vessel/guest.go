package vessel

import (
	"encoding/json"
	"log/slog"

	"github.com/vesselbridge/sdk/domain/entities"
	sdkerrors "github.com/vesselbridge/sdk/domain/errors"
	"github.com/vesselbridge/sdk/wireformat"
)

// Guest drives one Box from the byte-level exports of a WASM logic module.
// Each module instance hosts exactly one vessel.
type Guest struct {
	call   HostCaller
	box    *Box
	logger *slog.Logger
	def    Definition
	exited bool
}

// NewGuest returns a Guest that builds its logic from def and reaches the
// host through call.
func NewGuest(def Definition, call HostCaller) *Guest {
	return &Guest{def: def, call: call, logger: slog.Default()}
}

// Init decodes an InitRequestWire and constructs the logic.
func (g *Guest) Init(payload []byte) error {
	if g.box != nil || g.exited {
		return &sdkerrors.LifecycleError{Op: "init", State: g.state()}
	}

	var req wireformat.InitRequestWire
	if err := json.Unmarshal(payload, &req); err != nil {
		return &sdkerrors.WireFormatError{Operation: "decode", Type: "init request", Err: err}
	}

	svc := NewRemoteServices(g.call, entities.VesselHandle(req.Vessel), entities.FlightModel(req.FlightModel))
	box, err := NewBox(g.def, svc, WithBoxLogger(g.logger))
	if err != nil {
		return err
	}
	g.box = box
	g.logger.Debug("vessel: guest initialized", "class", req.Class, "vessel", req.Vessel)
	return nil
}

// Configure decodes a ConfigureRequestWire and forwards the class config.
func (g *Guest) Configure(payload []byte) error {
	if g.box == nil {
		return &sdkerrors.LifecycleError{Op: "configure", State: g.state()}
	}

	var req wireformat.ConfigureRequestWire
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			return &sdkerrors.WireFormatError{Operation: "decode", Type: "configure request", Err: err}
		}
	}
	if req.Config == nil {
		req.Config = map[string]any{}
	}
	return g.box.Configure(entities.ClassConfig(req.Config))
}

// Step forwards one frame.
func (g *Guest) Step(simt, simdt, mjd float64) error {
	if g.box == nil {
		return &sdkerrors.LifecycleError{Op: "step", State: g.state()}
	}
	return g.box.Step(entities.FrameState{SimTime: simt, SimDT: simdt, MJD: mjd})
}

// HandleInput forwards a key event. keys is the host key state buffer;
// short buffers are zero padded.
func (g *Guest) HandleInput(key uint32, down bool, keys []byte) entities.KeyOutcome {
	if g.box == nil {
		return entities.KeyNotHandled
	}
	var state entities.KeyState
	copy(state[:], keys)
	return g.box.HandleInput(entities.KeyCode(key), down, &state)
}

// Exit drops the logic. Later calls do nothing.
func (g *Guest) Exit() {
	if g.exited {
		return
	}
	g.exited = true
	g.box.Drop()
	g.box = nil
}

func (g *Guest) state() string {
	switch {
	case g.exited:
		return "exited"
	case g.box != nil:
		return "initialized"
	default:
		return "uninitialized"
	}
}
