package entities

// FrameState carries the per-frame timing values passed to Step.
type FrameState struct {
	// SimTime is simulation time since session start, in seconds.
	SimTime float64 `json:"simt"`
	// SimDT is the length of the current step, in seconds.
	SimDT float64 `json:"simdt"`
	// MJD is the absolute simulation date as a Modified Julian Date.
	MJD float64 `json:"mjd"`
}

// FlightModel selects the realism level the host runs the entity with.
type FlightModel int32

const (
	FlightModelEasy      FlightModel = 0
	FlightModelRealistic FlightModel = 1
)

func (f FlightModel) String() string {
	if f == FlightModelRealistic {
		return "realistic"
	}
	return "easy"
}

// VesselStatus is the initial state used when creating a new vessel.
type VesselStatus struct {
	// Position relative to Ref, in meters.
	Position Vector3 `json:"rpos"`
	// Velocity relative to Ref, in m/s.
	Velocity Vector3 `json:"rvel"`
	// AngularVelocity in rad/s.
	AngularVelocity Vector3 `json:"vrot"`
	// Arot holds the Euler orientation angles.
	Arot Vector3 `json:"arot"`
	// Fuel is the main tank fill level, 0..1.
	Fuel float64 `json:"fuel"`
	// EngMain is the main thrust level, 0..1.
	EngMain float64 `json:"eng_main"`
	// EngHovr is the hover thrust level, 0..1.
	EngHovr float64 `json:"eng_hovr"`
	// Ref is the handle of the reference body.
	Ref VesselHandle `json:"rbody"`
	// Status is 0 for free flight, 1 for landed.
	Status int32 `json:"status"`
}
