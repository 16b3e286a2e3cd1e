package hostfuncs

import (
	"log/slog"
	"math"

	"github.com/vesselbridge/sdk/domain/entities"
	sdkerrors "github.com/vesselbridge/sdk/domain/errors"
	"github.com/vesselbridge/sdk/domain/ports"
	"github.com/vesselbridge/sdk/internal/abi"
	"github.com/vesselbridge/sdk/wireformat"
)

// Host service operation names, shared by Services, the registry bundle and metrics.
const (
	OpCreateVessel             = wireformat.OpCreateVessel
	OpAddMesh                  = wireformat.OpAddMesh
	OpAddMeshWithOffset        = wireformat.OpAddMeshWithOffset
	OpAddExhaust               = wireformat.OpAddExhaust
	OpCreateThruster           = wireformat.OpCreateThruster
	OpCreatePropellantResource = wireformat.OpCreatePropellantResource
	OpCreateThrusterGroup      = wireformat.OpCreateThrusterGroup
	OpGetName                  = wireformat.OpGetName
	OpGetThrusterGroupLevel    = wireformat.OpGetThrusterGroupLevel
	OpDebugString              = wireformat.OpDebugString
)

// Services implements ports.VesselServices on top of a native ports.Host for
// one vessel. Every call validates its arguments, converts them to host form,
// makes exactly one host call and maps sentinel results to typed errors.
//
// Services records the thrusters it created so that thruster groups can only
// be built from this vessel's own thrusters.
type Services struct {
	host        ports.Host
	logger      *slog.Logger
	metrics     *Metrics
	thrusters   map[entities.ThrusterHandle]struct{}
	vessel      entities.VesselHandle
	flightModel entities.FlightModel
}

var _ ports.VesselServices = (*Services)(nil)

// ServicesOption configures a Services.
type ServicesOption func(*Services)

// WithFlightModel sets the flight model reported by FlightModel.
func WithFlightModel(fm entities.FlightModel) ServicesOption {
	return func(s *Services) {
		s.flightModel = fm
	}
}

// WithMetrics records every call in m.
func WithMetrics(m *Metrics) ServicesOption {
	return func(s *Services) {
		s.metrics = m
	}
}

// WithServicesLogger sets the logger used for host rejections.
func WithServicesLogger(l *slog.Logger) ServicesOption {
	return func(s *Services) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServices binds host services to vessel v.
func NewServices(host ports.Host, v entities.VesselHandle, opts ...ServicesOption) *Services {
	s := &Services{
		host:      host,
		vessel:    v,
		logger:    slog.Default(),
		thrusters: make(map[entities.ThrusterHandle]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Vessel returns the handle of the bound vessel.
func (s *Services) Vessel() entities.VesselHandle { return s.vessel }

// FlightModel returns the flight model the entity was created with.
func (s *Services) FlightModel() entities.FlightModel { return s.flightModel }

func (s *Services) native() wireformat.Handle { return wireformat.Handle(s.vessel) }

func (s *Services) done(op string, err error) error {
	s.metrics.Observe(op, err)
	if err != nil {
		s.logger.Debug("hostfuncs: call failed", "op", op, "vessel", s.vessel, "error", err)
	}
	return err
}

func rejected(op string) error {
	return &sdkerrors.HostError{Op: op, Err: sdkerrors.ErrHostRejected}
}

// CreateVessel spawns a new vessel of class className. A nil status spawns it
// at rest with no reference body.
func (s *Services) CreateVessel(name, className string, status *entities.VesselStatus) (entities.VesselHandle, error) {
	if err := checkArgs(OpCreateVessel, createVesselArgs{Name: name, Class: className}); err != nil {
		return 0, s.done(OpCreateVessel, err)
	}
	// Validated above, so the conversions cannot fail.
	nameFS, _ := abi.ToHostString(name)
	classFS, _ := abi.ToHostString(className)

	h := s.host.CreateVessel(&nameFS, &classFS, abi.ToHostStatus(status))
	if h == 0 {
		return 0, s.done(OpCreateVessel, rejected(OpCreateVessel))
	}
	return entities.VesselHandle(h), s.done(OpCreateVessel, nil)
}

// AddMesh attaches mesh name to the vessel at its origin.
func (s *Services) AddMesh(name string) error {
	return s.addMesh(OpAddMesh, name, nil)
}

// AddMeshWithOffset attaches mesh name displaced by ofs.
func (s *Services) AddMeshWithOffset(name string, ofs entities.Vector3) error {
	return s.addMesh(OpAddMeshWithOffset, name, &ofs)
}

func (s *Services) addMesh(op, name string, ofs *entities.Vector3) error {
	args := meshArgs{Name: name}
	if ofs != nil {
		args.Offset = *ofs
	}
	if err := checkArgs(op, args); err != nil {
		return s.done(op, err)
	}
	meshFS, _ := abi.ToHostString(name)

	var nativeOfs *wireformat.Vec3
	if ofs != nil {
		v := abi.ToHostVec(*ofs)
		nativeOfs = &v
	}
	if idx := s.host.AddMesh(s.native(), &meshFS, nativeOfs); idx < 0 {
		return s.done(op, rejected(op))
	}
	return s.done(op, nil)
}

// AddExhaust attaches an exhaust render definition to thruster th and
// returns its index.
func (s *Services) AddExhaust(th entities.ThrusterHandle, lscale, wscale float64) (uint32, error) {
	if err := checkArgs(OpAddExhaust, exhaustArgs{Thruster: th, LScale: lscale, WScale: wscale}); err != nil {
		return 0, s.done(OpAddExhaust, err)
	}
	idx := s.host.AddExhaust(s.native(), wireformat.Handle(th), lscale, wscale)
	if idx == wireformat.InvalidIndex {
		return 0, s.done(OpAddExhaust, rejected(OpAddExhaust))
	}
	return idx, s.done(OpAddExhaust, nil)
}

// CreateThruster defines a thruster at pos firing along dir. A zero ph means
// the thruster is not connected to a tank and the host supplies propellant
// without limit.
func (s *Services) CreateThruster(pos, dir entities.Vector3, maxThrust float64, ph entities.PropellantHandle, isp float64) (entities.ThrusterHandle, error) {
	args := thrusterArgs{Pos: pos, Dir: dir, MaxThrust: maxThrust, Isp: isp}
	if err := checkArgs(OpCreateThruster, args); err != nil {
		return 0, s.done(OpCreateThruster, err)
	}
	nativePos, nativeDir := abi.ToHostVec(pos), abi.ToHostVec(dir)

	h := s.host.CreateThruster(s.native(), &nativePos, &nativeDir, maxThrust, wireformat.Handle(ph), isp)
	if h == 0 {
		return 0, s.done(OpCreateThruster, rejected(OpCreateThruster))
	}
	th := entities.ThrusterHandle(h)
	s.thrusters[th] = struct{}{}
	return th, s.done(OpCreateThruster, nil)
}

// CreatePropellantResource defines a tank holding mass kg of propellant.
func (s *Services) CreatePropellantResource(mass float64) (entities.PropellantHandle, error) {
	if err := checkArgs(OpCreatePropellantResource, propellantArgs{Mass: mass}); err != nil {
		return 0, s.done(OpCreatePropellantResource, err)
	}
	h := s.host.CreatePropellantResource(s.native(), mass)
	if h == 0 {
		return 0, s.done(OpCreatePropellantResource, rejected(OpCreatePropellantResource))
	}
	return entities.PropellantHandle(h), s.done(OpCreatePropellantResource, nil)
}

// CreateThrusterGroup groups ths under the logical type t. The list must be
// non-empty and contain only thrusters created through this Services.
func (s *Services) CreateThrusterGroup(ths []entities.ThrusterHandle, t entities.ThrusterGroupType) (entities.ThrusterGroupHandle, error) {
	const op = OpCreateThrusterGroup
	if len(ths) == 0 {
		return 0, s.done(op, &sdkerrors.ValidationError{Op: op, Field: "thrusters", Err: sdkerrors.ErrEmptyThrusterList})
	}
	if err := checkArgs(op, thrusterGroupArgs{Thrusters: ths, Type: t}); err != nil {
		return 0, s.done(op, err)
	}
	for _, th := range ths {
		if _, ok := s.thrusters[th]; !ok {
			return 0, s.done(op, &sdkerrors.ValidationError{Op: op, Field: "thrusters", Err: sdkerrors.ErrForeignThruster})
		}
	}

	h := s.host.CreateThrusterGroup(s.native(), abi.ToHostThrusters(ths), int32(t))
	if h == 0 {
		return 0, s.done(op, rejected(op))
	}
	return entities.ThrusterGroupHandle(h), s.done(op, nil)
}

// Name returns the vessel's host name, or "" if the host cannot provide it.
func (s *Services) Name() string {
	var buf wireformat.FixedString
	ok := s.host.GetName(s.native(), &buf)
	if !ok {
		s.done(OpGetName, rejected(OpGetName))
		return ""
	}
	s.done(OpGetName, nil)
	return abi.FromHostString(&buf)
}

// ThrusterGroupLevel returns the current level of group t in [0, 1].
// It returns 0 when the vessel has no such group or t is not a defined type.
func (s *Services) ThrusterGroupLevel(t entities.ThrusterGroupType) float64 {
	if !t.IsValid() {
		return 0
	}
	level := s.host.GetThrusterGroupLevelByType(s.native(), int32(t))
	s.done(OpGetThrusterGroupLevel, nil)
	switch {
	case math.IsNaN(level), level < 0:
		return 0
	case level > 1:
		return 1
	default:
		return level
	}
}

// DebugString shows text on the host debug display, truncated to 255 bytes.
func (s *Services) DebugString(text string) {
	fs := abi.TruncateHostString(text)
	s.host.DebugString(&fs)
	s.done(OpDebugString, nil)
}
