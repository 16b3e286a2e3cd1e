package wireformat

// VesselStatusWire is the JSON form of VesselStatus.
type VesselStatusWire struct {
	RPos    [3]float64 `json:"rpos"`
	RVel    [3]float64 `json:"rvel"`
	VRot    [3]float64 `json:"vrot"`
	Arot    [3]float64 `json:"arot"`
	Fuel    float64    `json:"fuel"`
	EngMain float64    `json:"eng_main"`
	EngHovr float64    `json:"eng_hovr"`
	RBody   uint64     `json:"rbody,omitempty"`
	Status  int32      `json:"status"`
}

// CreateVesselRequestWire asks the host to spawn a new vessel.
type CreateVesselRequestWire struct {
	Status *VesselStatusWire `json:"status,omitempty"`
	Name   string            `json:"name"`
	Class  string            `json:"class"`
}

// AddMeshRequestWire attaches a mesh to the calling vessel.
type AddMeshRequestWire struct {
	Offset *[3]float64 `json:"offset,omitempty"`
	Mesh   string      `json:"mesh"`
}

// AddExhaustRequestWire attaches an exhaust render definition to a thruster.
type AddExhaustRequestWire struct {
	Thruster uint64  `json:"thruster"`
	LScale   float64 `json:"lscale"`
	WScale   float64 `json:"wscale"`
}

// CreateThrusterRequestWire defines a thruster on the calling vessel.
type CreateThrusterRequestWire struct {
	Pos        [3]float64 `json:"pos"`
	Dir        [3]float64 `json:"dir"`
	MaxThrust  float64    `json:"max_thrust"`
	Isp        float64    `json:"isp"`
	Propellant uint64     `json:"propellant,omitempty"`
}

// CreatePropellantRequestWire defines a propellant tank on the calling vessel.
type CreatePropellantRequestWire struct {
	Mass float64 `json:"mass"`
}

// CreateThrusterGroupRequestWire groups thrusters under a logical type.
// Type is the config-file name of the group type (for example "main").
type CreateThrusterGroupRequestWire struct {
	Type      string   `json:"type"`
	Thrusters []uint64 `json:"thrusters"`
}

// ThrusterGroupLevelRequestWire queries the level of a group.
type ThrusterGroupLevelRequestWire struct {
	Type string `json:"type"`
}

// DebugStringRequestWire writes a line to the host debug display.
type DebugStringRequestWire struct {
	Text string `json:"text"`
}

// HandleResponseWire carries a created host handle.
type HandleResponseWire struct {
	Error  *ErrorDetail `json:"error,omitempty"`
	Handle uint64       `json:"handle"`
}

// IndexResponseWire carries a host index result.
type IndexResponseWire struct {
	Error *ErrorDetail `json:"error,omitempty"`
	Index uint32       `json:"index"`
}

// NameResponseWire carries the calling vessel's name.
type NameResponseWire struct {
	Error *ErrorDetail `json:"error,omitempty"`
	Name  string       `json:"name"`
}

// LevelResponseWire carries a thruster group level in [0, 1].
type LevelResponseWire struct {
	Error *ErrorDetail `json:"error,omitempty"`
	Level float64      `json:"level"`
}

// StatusResponseWire is returned by calls with no result payload.
type StatusResponseWire struct {
	Error *ErrorDetail `json:"error,omitempty"`
	OK    bool         `json:"ok"`
}

// InitRequestWire is passed to a guest's vessel_init export.
type InitRequestWire struct {
	Class       string `json:"class"`
	Vessel      uint64 `json:"vessel"`
	FlightModel int32  `json:"flight_model"`
}

// ConfigureRequestWire is passed to a guest's vessel_configure export.
type ConfigureRequestWire struct {
	Config map[string]any `json:"config"`
}

