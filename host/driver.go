package host

import (
	"github.com/vesselbridge/sdk/application/vessel"
	"github.com/vesselbridge/sdk/domain/entities"
	"github.com/vesselbridge/sdk/hostfuncs"
)

// Driver runs the logic of one vessel. *vessel.Box is the in-process
// driver; WASM modules are driven by a *WasmVessel.
type Driver interface {
	Configure(cfg entities.ClassConfig) error
	Step(frame entities.FrameState) error
	HandleInput(key entities.KeyCode, down bool, state *entities.KeyState) entities.KeyOutcome
	Drop()
}

var (
	_ Driver = (*vessel.Box)(nil)
	_ Driver = (*WasmVessel)(nil)
)

// DriverFactory builds the driver of a new vessel around its bound services.
type DriverFactory func(svc *hostfuncs.Services) (Driver, error)

// NativeFactory returns a DriverFactory that boxes logic built by def.
func NativeFactory(def vessel.Definition, opts ...vessel.BoxOption) DriverFactory {
	return func(svc *hostfuncs.Services) (Driver, error) {
		box, err := vessel.NewBox(def, svc, opts...)
		if err != nil {
			return nil, err
		}
		return box, nil
	}
}
