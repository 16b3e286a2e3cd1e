package ports

import "github.com/vesselbridge/sdk/wireformat"

// Host is the simulation engine's native service surface, as seen by the
// bridge. Methods take and return host-native forms and report failure
// through sentinel results only: a zero Handle, a negative or InvalidIndex
// index, or a false ok flag. Implementations must not retain pointer
// arguments past return.
type Host interface {
	// CreateVessel spawns a new vessel of the given class.
	CreateVessel(name, class *wireformat.FixedString, status *wireformat.VesselStatus) wireformat.Handle

	// AddMesh attaches a mesh to v. ofs may be nil. Returns the mesh index or -1.
	AddMesh(v wireformat.Handle, mesh *wireformat.FixedString, ofs *wireformat.Vec3) int32

	// AddExhaust attaches an exhaust render definition to thruster th of v.
	// Returns the exhaust index or InvalidIndex.
	AddExhaust(v, th wireformat.Handle, lscale, wscale float64) uint32

	CreateThruster(v wireformat.Handle, pos, dir *wireformat.Vec3, maxThrust float64, ph wireformat.Handle, isp float64) wireformat.Handle
	CreatePropellantResource(v wireformat.Handle, mass float64) wireformat.Handle
	CreateThrusterGroup(v wireformat.Handle, ths []wireformat.Handle, groupType int32) wireformat.Handle

	// GetName writes the vessel name into out.
	GetName(v wireformat.Handle, out *wireformat.FixedString) bool

	// GetThrusterGroupLevelByType returns the level of the group, or 0 if v
	// has no such group.
	GetThrusterGroupLevelByType(v wireformat.Handle, groupType int32) float64

	// ReadClassConfig returns the raw class configuration document cfg refers to.
	ReadClassConfig(cfg wireformat.Handle) ([]byte, bool)

	// DebugString shows a line on the host's debug display.
	DebugString(text *wireformat.FixedString)
}
