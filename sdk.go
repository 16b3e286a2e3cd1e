// Package sdk is the entry point for writing vessel logic modules.
//
// A module registers one Definition from an init function. The host side
// constructs the logic for every vessel of the class and drives it through
// Configure, Step and HandleInput:
//
//	func init() {
//	    sdk.Register(sdk.Definition{
//	        Name: "ShuttlePB",
//	        Init: func(svc sdk.Services) (sdk.Logic, error) {
//	            return &shuttle{svc: svc}, nil
//	        },
//	    })
//	}
//
// The same module builds natively, for in-process hosts, or for wasip1,
// where the host loads it through host.Executor.
package sdk

import (
	"github.com/vesselbridge/sdk/application/vessel"
	"github.com/vesselbridge/sdk/domain/entities"
	"github.com/vesselbridge/sdk/domain/errors"
	"github.com/vesselbridge/sdk/domain/ports"
)

// Version of the SDK
const Version = "0.1.0"

type (
	// Definition describes a vessel class implementation.
	Definition = vessel.Definition
	// Logic is the behavior of one vessel.
	Logic = vessel.Logic
	// Base provides no-op Logic methods for embedding.
	Base = vessel.Base
	// Services are the host operations available to a vessel's logic.
	Services = ports.VesselServices

	// ClassConfig is a parsed class configuration document.
	ClassConfig = entities.ClassConfig
	// Vector3 is a vector in the host's left-handed frame.
	Vector3 = entities.Vector3
	// FrameState is the timing of one simulation frame.
	FrameState = entities.FrameState
	// KeyCode identifies a keyboard key.
	KeyCode = entities.KeyCode
	// KeyState is a snapshot of the keyboard.
	KeyState = entities.KeyState
	// KeyOutcome tells the host what became of a key event.
	KeyOutcome = entities.KeyOutcome
	// VesselStatus is the initial state of a vessel created at runtime.
	VesselStatus = entities.VesselStatus

	// ErrorDetail is the structured error form shared by host and guest.
	ErrorDetail = entities.ErrorDetail
)

// Register installs def as the module's vessel definition. Only the first
// call takes effect.
func Register(def Definition) {
	vessel.Register(def)
}

// V builds a vector from its components.
func V(x, y, z float64) Vector3 {
	return entities.V3(x, y, z)
}

// ToErrorDetail converts a Go error to our structured ErrorDetail.
// Errors that carry no structure of their own are typed "internal".
func ToErrorDetail(err error) *ErrorDetail {
	return errors.ToErrorDetail(err)
}
