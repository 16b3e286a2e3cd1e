// Package vessel holds the logic side of the bridge: the Logic capability
// set a vessel module implements, the module's registered Definition, and
// the Box that owns one Logic on behalf of the host.
package vessel

import (
	"github.com/vesselbridge/sdk/domain/entities"
	"github.com/vesselbridge/sdk/domain/ports"
)

// Logic is the behavior of one simulated vessel. The host drives it through
// the bridge: Configure once after construction, then Step once per frame and
// HandleInput for buffered key events. Calls never overlap.
type Logic interface {
	// Configure receives the parsed class configuration. It is where meshes,
	// thrusters and groups are normally created.
	Configure(cfg entities.ClassConfig) error

	// Step advances the vessel by one frame.
	Step(frame entities.FrameState) error

	// HandleInput reacts to a buffered key event. state is a snapshot of the
	// whole keyboard at the time of the event.
	HandleInput(key entities.KeyCode, down bool, state *entities.KeyState) entities.KeyOutcome
}

// Dropper is implemented by logic that must release resources when its
// vessel is destroyed.
type Dropper interface {
	Drop()
}

// Factory constructs the logic of a new vessel. svc is bound to that vessel
// and stays valid until the vessel is destroyed.
type Factory func(svc ports.VesselServices) (Logic, error)

// Base provides no-op implementations of every Logic method. Embed it to
// implement only the callbacks a vessel needs.
type Base struct{}

// Configure does nothing.
func (Base) Configure(entities.ClassConfig) error { return nil }

// Step does nothing.
func (Base) Step(entities.FrameState) error { return nil }

// HandleInput leaves every key to the host.
func (Base) HandleInput(entities.KeyCode, bool, *entities.KeyState) entities.KeyOutcome {
	return entities.KeyNotHandled
}
