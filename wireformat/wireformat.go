// Package wireformat defines the host-native data forms of the vessel bridge
// and the JSON structures exchanged with WASM logic modules. These types are
// the ABI contract and must remain stable and backward compatible.
package wireformat

import (
	"bytes"
	"fmt"
)

// Handle is an opaque host reference. Zero means "no object".
type Handle uintptr

// Vec3 is the host's native 3-vector.
type Vec3 [3]float64

// FixedStringSize is the capacity of a FixedString including its terminator.
const FixedStringSize = 256

// MaxStringLen is the longest text a FixedString can carry.
const MaxStringLen = FixedStringSize - 1

// FixedString is a NUL-terminated character buffer as the host reads it.
type FixedString [FixedStringSize]byte

// String returns the text up to the first NUL.
func (s *FixedString) String() string {
	if i := bytes.IndexByte(s[:], 0); i >= 0 {
		return string(s[:i])
	}
	return string(s[:])
}

// KeyStateBufferSize is the length of the host keyboard state buffer.
const KeyStateBufferSize = 256

// KeyStateBuffer is the host keyboard state. A key is down when its byte has
// the high bit set.
type KeyStateBuffer [KeyStateBufferSize]byte

// InvalidIndex is the host's "no index" sentinel for unsigned index results.
const InvalidIndex = ^uint32(0)

// VesselStatus is the host-native initial state of a new vessel.
type VesselStatus struct {
	RPos    Vec3
	RVel    Vec3
	VRot    Vec3
	Arot    Vec3
	Fuel    float64
	EngMain float64
	EngHovr float64
	RBody   Handle
	Status  int32
}

// ErrorDetail provides structured error information, consistent across host and guest.
type ErrorDetail struct {
	Wrapped *ErrorDetail   `json:"wrapped,omitempty"`
	Details map[string]any `json:"details,omitempty"`
	Message string         `json:"message"`
	Type    string         `json:"type"`
	Code    string         `json:"code"`
	Stack   []byte         `json:"stack,omitempty"`
}

// Error implements the error interface for ErrorDetail.
func (e *ErrorDetail) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if e.Type != "" && e.Type != "internal" {
		msg = fmt.Sprintf("%s: %s", e.Type, msg)
	}
	if e.Code != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Code)
	}
	if e.Wrapped != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Wrapped.Error())
	}
	return msg
}
