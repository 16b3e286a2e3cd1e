//go:build wasip1

package vessel

import (
	"fmt"

	"github.com/vesselbridge/sdk/internal/abi"
	"github.com/vesselbridge/sdk/wireformat"
)

//go:wasmimport vessel_host create_vessel
func hostCreateVessel(packed uint64) uint64

//go:wasmimport vessel_host add_mesh
func hostAddMesh(packed uint64) uint64

//go:wasmimport vessel_host add_mesh_with_offset
func hostAddMeshWithOffset(packed uint64) uint64

//go:wasmimport vessel_host add_exhaust
func hostAddExhaust(packed uint64) uint64

//go:wasmimport vessel_host create_thruster
func hostCreateThruster(packed uint64) uint64

//go:wasmimport vessel_host create_propellant_resource
func hostCreatePropellantResource(packed uint64) uint64

//go:wasmimport vessel_host create_thruster_group
func hostCreateThrusterGroup(packed uint64) uint64

//go:wasmimport vessel_host get_name
func hostGetName(packed uint64) uint64

//go:wasmimport vessel_host get_thruster_group_level
func hostGetThrusterGroupLevel(packed uint64) uint64

//go:wasmimport vessel_host debug_string
func hostDebugString(packed uint64) uint64

var hostImports = map[string]func(uint64) uint64{
	wireformat.OpCreateVessel:             hostCreateVessel,
	wireformat.OpAddMesh:                  hostAddMesh,
	wireformat.OpAddMeshWithOffset:        hostAddMeshWithOffset,
	wireformat.OpAddExhaust:               hostAddExhaust,
	wireformat.OpCreateThruster:           hostCreateThruster,
	wireformat.OpCreatePropellantResource: hostCreatePropellantResource,
	wireformat.OpCreateThrusterGroup:      hostCreateThrusterGroup,
	wireformat.OpGetName:                  hostGetName,
	wireformat.OpGetThrusterGroupLevel:    hostGetThrusterGroupLevel,
	wireformat.OpDebugString:              hostDebugString,
}

// callWasmHost is the HostCaller of wasip1 guests. The request is copied
// into tracked memory for the host to read; the host writes its response
// into memory obtained from allocate. Both are freed before returning.
func callWasmHost(op string, payload []byte) ([]byte, error) {
	fn, ok := hostImports[op]
	if !ok {
		return nil, fmt.Errorf("unknown host function %q", op)
	}

	req := abi.PtrFromBytes(payload)
	defer abi.DeallocatePacked(req)

	resp := fn(req)
	if resp == 0 {
		return nil, fmt.Errorf("host function %s returned no data", op)
	}
	defer abi.DeallocatePacked(resp)

	return abi.BytesFromPtr(resp), nil
}
