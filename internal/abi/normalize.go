package abi

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vesselbridge/sdk/domain/entities"
	"github.com/vesselbridge/sdk/wireformat"
)

// String conversion failures.
var (
	ErrStringTooLong      = fmt.Errorf("string exceeds %d bytes", wireformat.MaxStringLen)
	ErrStringContainsNUL  = errors.New("string contains NUL byte")
	ErrStringInvalidUTF8  = errors.New("string is not valid UTF-8")
	ErrStringNotPrintable = errors.New("string contains non-printable characters")
)

// CheckHostString reports whether s can be carried by a FixedString without
// loss: at most 255 bytes of valid UTF-8 with no NUL and only printable runes.
func CheckHostString(s string) error {
	if len(s) > wireformat.MaxStringLen {
		return ErrStringTooLong
	}
	if !utf8.ValidString(s) {
		return ErrStringInvalidUTF8
	}
	for _, r := range s {
		if r == 0 {
			return ErrStringContainsNUL
		}
		if !unicode.IsPrint(r) {
			return ErrStringNotPrintable
		}
	}
	return nil
}

// ToHostString converts s to the host's NUL-terminated form.
func ToHostString(s string) (wireformat.FixedString, error) {
	var out wireformat.FixedString
	if err := CheckHostString(s); err != nil {
		return out, err
	}
	copy(out[:], s)
	return out, nil
}

// TruncateHostString converts s to the host form without failing. Text after
// the first NUL is dropped, invalid UTF-8 is replaced with '?', and the result
// is cut to 255 bytes on a rune boundary.
func TruncateHostString(s string) wireformat.FixedString {
	var out wireformat.FixedString
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	s = strings.ToValidUTF8(s, "?")
	if len(s) > wireformat.MaxStringLen {
		cut := wireformat.MaxStringLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	copy(out[:], s)
	return out
}

// FromHostString returns the text held in a host string buffer.
func FromHostString(s *wireformat.FixedString) string {
	if s == nil {
		return ""
	}
	return s.String()
}

// ToHostVec converts a vector to the host form. Components map one to one.
func ToHostVec(v entities.Vector3) wireformat.Vec3 {
	return wireformat.Vec3{v[0], v[1], v[2]}
}

// FromHostVec converts a host vector to the semantic form.
func FromHostVec(v wireformat.Vec3) entities.Vector3 {
	return entities.V3(v[0], v[1], v[2])
}

// ToHostThrusters converts a thruster list to host handles, preserving order.
func ToHostThrusters(ths []entities.ThrusterHandle) []wireformat.Handle {
	out := make([]wireformat.Handle, len(ths))
	for i, th := range ths {
		out[i] = wireformat.Handle(th)
	}
	return out
}

// ToHostStatus converts a vessel status to the host form. A nil status yields
// a zero status: free flight at the origin of no reference body.
func ToHostStatus(s *entities.VesselStatus) *wireformat.VesselStatus {
	out := &wireformat.VesselStatus{}
	if s == nil {
		return out
	}
	out.RPos = ToHostVec(s.Position)
	out.RVel = ToHostVec(s.Velocity)
	out.VRot = ToHostVec(s.AngularVelocity)
	out.Arot = ToHostVec(s.Arot)
	out.Fuel = s.Fuel
	out.EngMain = s.EngMain
	out.EngHovr = s.EngHovr
	out.RBody = wireformat.Handle(s.Ref)
	out.Status = s.Status
	return out
}

// StatusToWire converts a vessel status to its JSON form. Nil stays nil.
func StatusToWire(s *entities.VesselStatus) *wireformat.VesselStatusWire {
	if s == nil {
		return nil
	}
	return &wireformat.VesselStatusWire{
		RPos:    s.Position,
		RVel:    s.Velocity,
		VRot:    s.AngularVelocity,
		Arot:    s.Arot,
		Fuel:    s.Fuel,
		EngMain: s.EngMain,
		EngHovr: s.EngHovr,
		RBody:   uint64(s.Ref),
		Status:  s.Status,
	}
}

// StatusFromWire converts the JSON form of a vessel status. Nil stays nil.
func StatusFromWire(w *wireformat.VesselStatusWire) *entities.VesselStatus {
	if w == nil {
		return nil
	}
	return &entities.VesselStatus{
		Position:        w.RPos,
		Velocity:        w.RVel,
		AngularVelocity: w.VRot,
		Arot:            w.Arot,
		Fuel:            w.Fuel,
		EngMain:         w.EngMain,
		EngHovr:         w.EngHovr,
		Ref:             entities.VesselHandle(w.RBody),
		Status:          w.Status,
	}
}

// CopyKeyState copies the host keyboard buffer. A nil buffer yields an
// all-released state.
func CopyKeyState(buf *wireformat.KeyStateBuffer) entities.KeyState {
	var ks entities.KeyState
	if buf != nil {
		ks = entities.KeyState(*buf)
	}
	return ks
}
