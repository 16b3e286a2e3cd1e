package wireformat

// Host function names of the vessel_host module. The same names key the
// host-side handler registry and the host-call metrics.
const (
	OpCreateVessel             = "create_vessel"
	OpAddMesh                  = "add_mesh"
	OpAddMeshWithOffset        = "add_mesh_with_offset"
	OpAddExhaust               = "add_exhaust"
	OpCreateThruster           = "create_thruster"
	OpCreatePropellantResource = "create_propellant_resource"
	OpCreateThrusterGroup      = "create_thruster_group"
	OpGetName                  = "get_name"
	OpGetThrusterGroupLevel    = "get_thruster_group_level"
	OpDebugString              = "debug_string"
	OpLogMessage               = "log_message"
)

// HostModule is the name of the WASM import module providing host functions.
const HostModule = "vessel_host"
