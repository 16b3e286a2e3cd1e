package entities

// KeyCode is a host key code (DirectInput scan code).
type KeyCode uint32

// Frequently used key codes.
const (
	KeyEscape   KeyCode = 0x01
	KeyG        KeyCode = 0x22
	KeyL        KeyCode = 0x26
	KeyNumpad8  KeyCode = 0x48
	KeyNumpad2  KeyCode = 0x50
	KeyAdd      KeyCode = 0x4E
	KeySubtract KeyCode = 0x4A
	KeyLShift   KeyCode = 0x2A
	KeyRShift   KeyCode = 0x36
	KeyLControl KeyCode = 0x1D
	KeyRControl KeyCode = 0x9D
	KeyLAlt     KeyCode = 0x38
	KeyRAlt     KeyCode = 0xB8
)

// KeyStateSize is the length of the host's keyboard state buffer.
const KeyStateSize = 256

// KeyState is a snapshot of the host keyboard state taken when a buffered key
// event was delivered. It is a copy, so the logic may keep it.
type KeyState [KeyStateSize]byte

// Pressed reports whether key k was held down in the snapshot.
func (s *KeyState) Pressed(k KeyCode) bool {
	if s == nil || int(k) >= KeyStateSize {
		return false
	}
	return s[k]&0x80 != 0
}

// Shift reports whether either shift key was held.
func (s *KeyState) Shift() bool { return s.Pressed(KeyLShift) || s.Pressed(KeyRShift) }

// Ctrl reports whether either control key was held.
func (s *KeyState) Ctrl() bool { return s.Pressed(KeyLControl) || s.Pressed(KeyRControl) }

// Alt reports whether either alt key was held.
func (s *KeyState) Alt() bool { return s.Pressed(KeyLAlt) || s.Pressed(KeyRAlt) }

// KeyOutcome is the answer a logic module gives for a buffered key event.
type KeyOutcome int32

const (
	// KeyNotHandled lets the host apply its default processing.
	KeyNotHandled KeyOutcome = 0
	// KeyHandledStop consumes the key; the host skips default processing.
	KeyHandledStop KeyOutcome = 1
	// KeyHandledContinue marks the key handled but still lets the host process it.
	KeyHandledContinue KeyOutcome = 2
)

func (o KeyOutcome) String() string {
	switch o {
	case KeyNotHandled:
		return "not_handled"
	case KeyHandledStop:
		return "handled_stop"
	case KeyHandledContinue:
		return "handled_continue"
	default:
		return "unknown"
	}
}
