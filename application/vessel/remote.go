package vessel

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/vesselbridge/sdk/domain/entities"
	sdkerrors "github.com/vesselbridge/sdk/domain/errors"
	"github.com/vesselbridge/sdk/domain/ports"
	"github.com/vesselbridge/sdk/internal/abi"
	"github.com/vesselbridge/sdk/wireformat"
)

var errNotFinite = errors.New("must be finite")

// HostCaller sends one JSON request to the named host function and returns
// the JSON response. On wasip1 guests it is backed by the vessel_host imports.
type HostCaller func(op string, payload []byte) ([]byte, error)

// RemoteServices implements ports.VesselServices by calling host functions
// through a HostCaller. Argument validation happens on the host side; host
// errors come back as the same typed errors a native Services returns.
type RemoteServices struct {
	call        HostCaller
	logger      *slog.Logger
	vessel      entities.VesselHandle
	flightModel entities.FlightModel
}

var _ ports.VesselServices = (*RemoteServices)(nil)

// NewRemoteServices binds a HostCaller to vessel v.
func NewRemoteServices(call HostCaller, v entities.VesselHandle, fm entities.FlightModel) *RemoteServices {
	return &RemoteServices{call: call, vessel: v, flightModel: fm, logger: slog.Default()}
}

func invokeHost[Resp any](r *RemoteServices, op string, req any) (Resp, error) {
	var resp Resp
	payload, err := json.Marshal(req)
	if err != nil {
		return resp, &sdkerrors.WireFormatError{Operation: "encode", Type: op, Err: err}
	}
	out, err := r.call(op, payload)
	if err != nil {
		return resp, &sdkerrors.HostError{Op: op, Err: err}
	}
	if err := json.Unmarshal(out, &resp); err != nil {
		return resp, &sdkerrors.WireFormatError{Operation: "decode", Type: op, Err: err}
	}
	return resp, nil
}

// Vessel returns the bound vessel.
func (r *RemoteServices) Vessel() entities.VesselHandle { return r.vessel }

// FlightModel returns the flight model passed at construction.
func (r *RemoteServices) FlightModel() entities.FlightModel { return r.flightModel }

func (r *RemoteServices) CreateVessel(name, className string, status *entities.VesselStatus) (entities.VesselHandle, error) {
	resp, err := invokeHost[wireformat.HandleResponseWire](r, wireformat.OpCreateVessel, wireformat.CreateVesselRequestWire{
		Name:   name,
		Class:  className,
		Status: abi.StatusToWire(status),
	})
	if err != nil {
		return 0, err
	}
	if resp.Error != nil {
		return 0, FromWireError(resp.Error)
	}
	return entities.VesselHandle(resp.Handle), nil
}

func (r *RemoteServices) AddMesh(name string) error {
	return r.status(wireformat.OpAddMesh, wireformat.AddMeshRequestWire{Mesh: name})
}

func (r *RemoteServices) AddMeshWithOffset(name string, ofs entities.Vector3) error {
	if err := checkFinite(wireformat.OpAddMeshWithOffset, "offset", ofs[:]...); err != nil {
		return err
	}
	o := [3]float64(ofs)
	return r.status(wireformat.OpAddMeshWithOffset, wireformat.AddMeshRequestWire{Mesh: name, Offset: &o})
}

func (r *RemoteServices) AddExhaust(th entities.ThrusterHandle, lscale, wscale float64) (uint32, error) {
	if err := checkFinite(wireformat.OpAddExhaust, "lscale", lscale); err != nil {
		return 0, err
	}
	if err := checkFinite(wireformat.OpAddExhaust, "wscale", wscale); err != nil {
		return 0, err
	}
	resp, err := invokeHost[wireformat.IndexResponseWire](r, wireformat.OpAddExhaust, wireformat.AddExhaustRequestWire{
		Thruster: uint64(th),
		LScale:   lscale,
		WScale:   wscale,
	})
	if err != nil {
		return 0, err
	}
	if resp.Error != nil {
		return 0, FromWireError(resp.Error)
	}
	return resp.Index, nil
}

func (r *RemoteServices) CreateThruster(pos, dir entities.Vector3, maxThrust float64, ph entities.PropellantHandle, isp float64) (entities.ThrusterHandle, error) {
	for _, arg := range []struct {
		field string
		vals  []float64
	}{
		{"pos", pos[:]},
		{"dir", dir[:]},
		{"max_thrust", []float64{maxThrust}},
		{"isp", []float64{isp}},
	} {
		if err := checkFinite(wireformat.OpCreateThruster, arg.field, arg.vals...); err != nil {
			return 0, err
		}
	}
	h, err := r.handle(wireformat.OpCreateThruster, wireformat.CreateThrusterRequestWire{
		Pos:        [3]float64(pos),
		Dir:        [3]float64(dir),
		MaxThrust:  maxThrust,
		Isp:        isp,
		Propellant: uint64(ph),
	})
	return entities.ThrusterHandle(h), err
}

func (r *RemoteServices) CreatePropellantResource(mass float64) (entities.PropellantHandle, error) {
	if err := checkFinite(wireformat.OpCreatePropellantResource, "mass", mass); err != nil {
		return 0, err
	}
	h, err := r.handle(wireformat.OpCreatePropellantResource, wireformat.CreatePropellantRequestWire{Mass: mass})
	return entities.PropellantHandle(h), err
}

func (r *RemoteServices) CreateThrusterGroup(ths []entities.ThrusterHandle, t entities.ThrusterGroupType) (entities.ThrusterGroupHandle, error) {
	if len(ths) == 0 {
		return 0, &sdkerrors.ValidationError{Op: wireformat.OpCreateThrusterGroup, Field: "thrusters", Err: sdkerrors.ErrEmptyThrusterList}
	}
	req := wireformat.CreateThrusterGroupRequestWire{
		Type:      t.String(),
		Thrusters: make([]uint64, len(ths)),
	}
	for i, th := range ths {
		req.Thrusters[i] = uint64(th)
	}
	h, err := r.handle(wireformat.OpCreateThrusterGroup, req)
	return entities.ThrusterGroupHandle(h), err
}

// Name returns "" if the host call fails.
func (r *RemoteServices) Name() string {
	resp, err := invokeHost[wireformat.NameResponseWire](r, wireformat.OpGetName, struct{}{})
	if err != nil || resp.Error != nil {
		r.logger.Warn("vessel: get_name failed", "error", errors.Join(err, FromWireError(resp.Error)))
		return ""
	}
	return resp.Name
}

// ThrusterGroupLevel returns 0 if the host call fails.
func (r *RemoteServices) ThrusterGroupLevel(t entities.ThrusterGroupType) float64 {
	resp, err := invokeHost[wireformat.LevelResponseWire](r, wireformat.OpGetThrusterGroupLevel, wireformat.ThrusterGroupLevelRequestWire{Type: t.String()})
	if err != nil || resp.Error != nil {
		return 0
	}
	return resp.Level
}

func (r *RemoteServices) DebugString(text string) {
	if err := r.status(wireformat.OpDebugString, wireformat.DebugStringRequestWire{Text: text}); err != nil {
		r.logger.Warn("vessel: debug_string failed", "error", err)
	}
}

func (r *RemoteServices) handle(op string, req any) (uint64, error) {
	resp, err := invokeHost[wireformat.HandleResponseWire](r, op, req)
	if err != nil {
		return 0, err
	}
	if resp.Error != nil {
		return 0, FromWireError(resp.Error)
	}
	return resp.Handle, nil
}

func (r *RemoteServices) status(op string, req any) error {
	resp, err := invokeHost[wireformat.StatusResponseWire](r, op, req)
	if err != nil {
		return err
	}
	if resp.Error != nil {
		return FromWireError(resp.Error)
	}
	return nil
}

// checkFinite rejects NaN and infinities, which JSON cannot carry to the host.
func checkFinite(op, field string, vals ...float64) error {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &sdkerrors.ValidationError{Op: op, Field: field, Err: errNotFinite}
		}
	}
	return nil
}

// FromWireError rebuilds a typed error from a wire error object. Validation
// and host errors become *errors.ValidationError and *errors.HostError; any
// other type is returned as an *entities.ErrorDetail. A nil d yields nil.
func FromWireError(d *wireformat.ErrorDetail) error {
	if d == nil {
		return nil
	}
	switch d.Type {
	case "validation":
		field, _ := d.Details["field"].(string)
		prefix := d.Code + ": invalid argument: "
		if field != "" {
			prefix = d.Code + ": invalid " + field + ": "
		}
		return &sdkerrors.ValidationError{Op: d.Code, Field: field, Err: errors.New(strings.TrimPrefix(d.Message, prefix))}
	case "host":
		msg := strings.TrimPrefix(d.Message, "host "+d.Code+" failed: ")
		if msg == sdkerrors.ErrHostRejected.Error() {
			return &sdkerrors.HostError{Op: d.Code, Err: sdkerrors.ErrHostRejected}
		}
		return &sdkerrors.HostError{Op: d.Code, Err: fmt.Errorf("%w: %s", sdkerrors.ErrHostRejected, msg)}
	default:
		return toEntityDetail(d)
	}
}

func toEntityDetail(d *wireformat.ErrorDetail) *entities.ErrorDetail {
	if d == nil {
		return nil
	}
	return &entities.ErrorDetail{
		Wrapped: toEntityDetail(d.Wrapped),
		Details: d.Details,
		Message: d.Message,
		Type:    d.Type,
		Code:    d.Code,
		Stack:   d.Stack,
	}
}
