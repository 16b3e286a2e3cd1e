package entities

import "fmt"

// VesselHandle identifies a host-owned simulated object. The bridge never
// owns the value; it is valid for as long as the host keeps the object alive.
type VesselHandle uintptr

// ThrusterHandle references a thruster created on the host.
type ThrusterHandle uintptr

// PropellantHandle references a propellant resource created on the host.
// The zero handle means "no tank": the host supplies propellant without limit.
type PropellantHandle uintptr

// ThrusterGroupHandle references a thruster group created on the host.
type ThrusterGroupHandle uintptr

// IsValid reports whether the handle is non-zero.
func (h VesselHandle) IsValid() bool { return h != 0 }

// IsValid reports whether the handle is non-zero.
func (h ThrusterHandle) IsValid() bool { return h != 0 }

// IsValid reports whether the handle is non-zero.
func (h PropellantHandle) IsValid() bool { return h != 0 }

// IsValid reports whether the handle is non-zero.
func (h ThrusterGroupHandle) IsValid() bool { return h != 0 }

func (h VesselHandle) String() string        { return fmt.Sprintf("vessel#%x", uintptr(h)) }
func (h ThrusterHandle) String() string      { return fmt.Sprintf("thruster#%x", uintptr(h)) }
func (h PropellantHandle) String() string    { return fmt.Sprintf("propellant#%x", uintptr(h)) }
func (h ThrusterGroupHandle) String() string { return fmt.Sprintf("thgroup#%x", uintptr(h)) }
