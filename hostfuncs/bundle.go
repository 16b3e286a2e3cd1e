package hostfuncs

import (
	"context"
	"errors"

	"github.com/vesselbridge/sdk/domain/entities"
	sdkerrors "github.com/vesselbridge/sdk/domain/errors"
	"github.com/vesselbridge/sdk/internal/abi"
	"github.com/vesselbridge/sdk/wireformat"
)

// HostFuncBundle is a pre-configured set of related host functions.
// Bundles allow registering multiple handlers at once.
type HostFuncBundle interface {
	// Handlers returns a map of handler names to ByteHandler functions.
	Handlers() map[string]ByteHandler
}

type staticBundle struct {
	handlers map[string]ByteHandler
}

func (b *staticBundle) Handlers() map[string]ByteHandler {
	return b.handlers
}

// errUnbound is reported when a call arrives without vessel services in its context.
var errUnbound = errors.New("no vessel bound to host call")

// VesselBundle returns the host services exposed to WASM logic modules:
// create_vessel, add_mesh, add_mesh_with_offset, add_exhaust,
// create_thruster, create_propellant_resource, create_thruster_group,
// get_name, get_thruster_group_level and debug_string.
//
// Each handler acts on the ports.VesselServices bound to the call context
// with WithVesselServices.
func VesselBundle() HostFuncBundle {
	return &staticBundle{
		handlers: map[string]ByteHandler{
			OpCreateVessel:             NewJSONHandler(createVesselHandler),
			OpAddMesh:                  NewJSONHandler(addMeshHandler),
			OpAddMeshWithOffset:        NewJSONHandler(addMeshWithOffsetHandler),
			OpAddExhaust:               NewJSONHandler(addExhaustHandler),
			OpCreateThruster:           NewJSONHandler(createThrusterHandler),
			OpCreatePropellantResource: NewJSONHandler(createPropellantHandler),
			OpCreateThrusterGroup:      NewJSONHandler(createThrusterGroupHandler),
			OpGetName:                  NewJSONHandler(getNameHandler),
			OpGetThrusterGroupLevel:    NewJSONHandler(groupLevelHandler),
			OpDebugString:              NewJSONHandler(debugStringHandler),
		},
	}
}

// VesselOps returns the names of the host functions in VesselBundle.
// A registry serving vessel logic modules must provide all of them.
func VesselOps() []string {
	return []string{
		OpCreateVessel,
		OpAddMesh,
		OpAddMeshWithOffset,
		OpAddExhaust,
		OpCreateThruster,
		OpCreatePropellantResource,
		OpCreateThrusterGroup,
		OpGetName,
		OpGetThrusterGroupLevel,
		OpDebugString,
	}
}

func unbound(op string) *wireformat.ErrorDetail {
	return ToWireError(&sdkerrors.HostError{Op: op, Err: errUnbound})
}

func handleResponse(h uint64, err error) wireformat.HandleResponseWire {
	if err != nil {
		return wireformat.HandleResponseWire{Error: ToWireError(err)}
	}
	return wireformat.HandleResponseWire{Handle: h}
}

func statusResponse(err error) wireformat.StatusResponseWire {
	if err != nil {
		return wireformat.StatusResponseWire{Error: ToWireError(err)}
	}
	return wireformat.StatusResponseWire{OK: true}
}

func createVesselHandler(ctx context.Context, req wireformat.CreateVesselRequestWire) wireformat.HandleResponseWire {
	svc, ok := VesselServicesFrom(ctx)
	if !ok {
		return wireformat.HandleResponseWire{Error: unbound(OpCreateVessel)}
	}
	h, err := svc.CreateVessel(req.Name, req.Class, abi.StatusFromWire(req.Status))
	return handleResponse(uint64(h), err)
}

func addMeshHandler(ctx context.Context, req wireformat.AddMeshRequestWire) wireformat.StatusResponseWire {
	svc, ok := VesselServicesFrom(ctx)
	if !ok {
		return wireformat.StatusResponseWire{Error: unbound(OpAddMesh)}
	}
	return statusResponse(svc.AddMesh(req.Mesh))
}

func addMeshWithOffsetHandler(ctx context.Context, req wireformat.AddMeshRequestWire) wireformat.StatusResponseWire {
	svc, ok := VesselServicesFrom(ctx)
	if !ok {
		return wireformat.StatusResponseWire{Error: unbound(OpAddMeshWithOffset)}
	}
	var ofs entities.Vector3
	if req.Offset != nil {
		ofs = *req.Offset
	}
	return statusResponse(svc.AddMeshWithOffset(req.Mesh, ofs))
}

func addExhaustHandler(ctx context.Context, req wireformat.AddExhaustRequestWire) wireformat.IndexResponseWire {
	svc, ok := VesselServicesFrom(ctx)
	if !ok {
		return wireformat.IndexResponseWire{Error: unbound(OpAddExhaust)}
	}
	idx, err := svc.AddExhaust(entities.ThrusterHandle(req.Thruster), req.LScale, req.WScale)
	if err != nil {
		return wireformat.IndexResponseWire{Error: ToWireError(err)}
	}
	return wireformat.IndexResponseWire{Index: idx}
}

func createThrusterHandler(ctx context.Context, req wireformat.CreateThrusterRequestWire) wireformat.HandleResponseWire {
	svc, ok := VesselServicesFrom(ctx)
	if !ok {
		return wireformat.HandleResponseWire{Error: unbound(OpCreateThruster)}
	}
	h, err := svc.CreateThruster(req.Pos, req.Dir, req.MaxThrust, entities.PropellantHandle(req.Propellant), req.Isp)
	return handleResponse(uint64(h), err)
}

func createPropellantHandler(ctx context.Context, req wireformat.CreatePropellantRequestWire) wireformat.HandleResponseWire {
	svc, ok := VesselServicesFrom(ctx)
	if !ok {
		return wireformat.HandleResponseWire{Error: unbound(OpCreatePropellantResource)}
	}
	h, err := svc.CreatePropellantResource(req.Mass)
	return handleResponse(uint64(h), err)
}

func createThrusterGroupHandler(ctx context.Context, req wireformat.CreateThrusterGroupRequestWire) wireformat.HandleResponseWire {
	svc, ok := VesselServicesFrom(ctx)
	if !ok {
		return wireformat.HandleResponseWire{Error: unbound(OpCreateThrusterGroup)}
	}
	t, err := entities.ParseThrusterGroupType(req.Type)
	if err != nil {
		return handleResponse(0, &sdkerrors.ValidationError{Op: OpCreateThrusterGroup, Field: "type", Err: err})
	}
	ths := make([]entities.ThrusterHandle, len(req.Thrusters))
	for i, th := range req.Thrusters {
		ths[i] = entities.ThrusterHandle(th)
	}
	h, err := svc.CreateThrusterGroup(ths, t)
	return handleResponse(uint64(h), err)
}

// getNameHandler takes an empty request object.
func getNameHandler(ctx context.Context, _ struct{}) wireformat.NameResponseWire {
	svc, ok := VesselServicesFrom(ctx)
	if !ok {
		return wireformat.NameResponseWire{Error: unbound(OpGetName)}
	}
	return wireformat.NameResponseWire{Name: svc.Name()}
}

func groupLevelHandler(ctx context.Context, req wireformat.ThrusterGroupLevelRequestWire) wireformat.LevelResponseWire {
	svc, ok := VesselServicesFrom(ctx)
	if !ok {
		return wireformat.LevelResponseWire{Error: unbound(OpGetThrusterGroupLevel)}
	}
	t, err := entities.ParseThrusterGroupType(req.Type)
	if err != nil {
		// Unknown groups have level 0, same as groups the vessel lacks.
		return wireformat.LevelResponseWire{}
	}
	return wireformat.LevelResponseWire{Level: svc.ThrusterGroupLevel(t)}
}

func debugStringHandler(ctx context.Context, req wireformat.DebugStringRequestWire) wireformat.StatusResponseWire {
	svc, ok := VesselServicesFrom(ctx)
	if !ok {
		return wireformat.StatusResponseWire{Error: unbound(OpDebugString)}
	}
	svc.DebugString(req.Text)
	return wireformat.StatusResponseWire{OK: true}
}

// compositeBundle combines multiple bundles into one.
type compositeBundle struct {
	bundles []HostFuncBundle
}

func (b *compositeBundle) Handlers() map[string]ByteHandler {
	result := make(map[string]ByteHandler)
	for _, bundle := range b.bundles {
		for name, handler := range bundle.Handlers() {
			result[name] = handler
		}
	}
	return result
}

// CombineBundles merges bundles. Later bundles override earlier ones on name clashes.
func CombineBundles(bundles ...HostFuncBundle) HostFuncBundle {
	return &compositeBundle{bundles: bundles}
}

// WithBundle registers all handlers from a bundle.
func WithBundle(bundle HostFuncBundle) RegistryOption {
	return func(b *registryBuilder) {
		for name, handler := range bundle.Handlers() {
			if err := b.addHandler(name, handler); err != nil {
				b.errors = append(b.errors, err)
			}
		}
	}
}

// WithHandler registers a typed host function with automatic JSON handling.
//
// Example usage:
//
//	WithHandler("get_mjd", func(ctx context.Context, req struct{}) MJDResponse {
//	    return MJDResponse{MJD: clock.MJD()}
//	})
func WithHandler[Req any, Resp any](name string, fn HostFunc[Req, Resp]) RegistryOption {
	return func(b *registryBuilder) {
		handler := NewJSONHandler(fn)
		if err := b.addHandler(name, handler); err != nil {
			b.errors = append(b.errors, err)
		}
	}
}
