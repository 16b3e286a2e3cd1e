package entities

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vector3 is a 3-component vector in the host's left-handed frame.
// It shares its layout with mgl64.Vec3 so the mgl64 arithmetic applies directly.
type Vector3 mgl64.Vec3

// V3 builds a Vector3 from its components.
func V3(x, y, z float64) Vector3 {
	return Vector3{x, y, z}
}

// X returns the first component.
func (v Vector3) X() float64 { return v[0] }

// Y returns the second component.
func (v Vector3) Y() float64 { return v[1] }

// Z returns the third component.
func (v Vector3) Z() float64 { return v[2] }

// Vec returns the vector as an mgl64.Vec3.
func (v Vector3) Vec() mgl64.Vec3 {
	return mgl64.Vec3(v)
}

// IsFinite reports whether every component is neither NaN nor infinite.
func (v Vector3) IsFinite() bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// IsZero reports whether all components are exactly zero.
func (v Vector3) IsZero() bool {
	return v[0] == 0 && v[1] == 0 && v[2] == 0
}

// Len returns the Euclidean length.
func (v Vector3) Len() float64 {
	return mgl64.Vec3(v).Len()
}

// Normalize returns the unit vector pointing along v.
// The zero vector is returned unchanged.
func (v Vector3) Normalize() Vector3 {
	if v.IsZero() {
		return v
	}
	return Vector3(mgl64.Vec3(v).Normalize())
}

// Add returns v + o.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3(mgl64.Vec3(v).Add(mgl64.Vec3(o)))
}

// Sub returns v - o.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3(mgl64.Vec3(v).Sub(mgl64.Vec3(o)))
}

// Mul returns v scaled by s.
func (v Vector3) Mul(s float64) Vector3 {
	return Vector3(mgl64.Vec3(v).Mul(s))
}

// Dot returns the scalar product of v and o.
func (v Vector3) Dot(o Vector3) float64 {
	return mgl64.Vec3(v).Dot(mgl64.Vec3(o))
}

// Cross returns the vector product v × o.
func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3(mgl64.Vec3(v).Cross(mgl64.Vec3(o)))
}

// String implements fmt.Stringer.
func (v Vector3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v[0], v[1], v[2])
}
