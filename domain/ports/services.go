package ports

import "github.com/vesselbridge/sdk/domain/entities"

// VesselServices is the set of host services available to a logic module,
// bound to the vessel that owns the module. Arguments are validated before
// the host is called; on a validation failure no host call is made.
// Implementations are not safe for concurrent use and must only be called
// from within a host callback.
type VesselServices interface {
	// Vessel returns the handle of the bound vessel.
	Vessel() entities.VesselHandle

	// FlightModel returns the realism level the entity was created with.
	FlightModel() entities.FlightModel

	CreateVessel(name, className string, status *entities.VesselStatus) (entities.VesselHandle, error)
	AddMesh(name string) error
	AddMeshWithOffset(name string, ofs entities.Vector3) error
	AddExhaust(th entities.ThrusterHandle, lscale, wscale float64) (uint32, error)
	CreateThruster(pos, dir entities.Vector3, maxThrust float64, ph entities.PropellantHandle, isp float64) (entities.ThrusterHandle, error)
	CreatePropellantResource(mass float64) (entities.PropellantHandle, error)
	CreateThrusterGroup(ths []entities.ThrusterHandle, t entities.ThrusterGroupType) (entities.ThrusterGroupHandle, error)

	// Name returns the host name of the bound vessel.
	Name() string

	// ThrusterGroupLevel returns the level of the group in [0, 1], or 0 if
	// the vessel has no such group.
	ThrusterGroupLevel(t entities.ThrusterGroupType) float64

	// DebugString writes text to the host debug display, truncated to 255 bytes.
	DebugString(text string)
}
