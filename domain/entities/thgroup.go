package entities

import (
	"fmt"
	"strings"
)

// ThrusterGroupType is the host's closed set of logical thruster groups.
// Values match the host's native tags and must not be renumbered.
type ThrusterGroupType int32

const (
	ThGroupMain ThrusterGroupType = iota
	ThGroupRetro
	ThGroupHover
	ThGroupAttPitchUp
	ThGroupAttPitchDown
	ThGroupAttYawLeft
	ThGroupAttYawRight
	ThGroupAttBankLeft
	ThGroupAttBankRight
	ThGroupAttRight
	ThGroupAttLeft
	ThGroupAttUp
	ThGroupAttDown
	ThGroupAttForward
	ThGroupAttBack
)

// ThGroupUser is the tag for groups the host does not drive itself.
const ThGroupUser ThrusterGroupType = 0x40

var thGroupNames = map[ThrusterGroupType]string{
	ThGroupMain:         "main",
	ThGroupRetro:        "retro",
	ThGroupHover:        "hover",
	ThGroupAttPitchUp:   "att_pitchup",
	ThGroupAttPitchDown: "att_pitchdown",
	ThGroupAttYawLeft:   "att_yawleft",
	ThGroupAttYawRight:  "att_yawright",
	ThGroupAttBankLeft:  "att_bankleft",
	ThGroupAttBankRight: "att_bankright",
	ThGroupAttRight:     "att_right",
	ThGroupAttLeft:      "att_left",
	ThGroupAttUp:        "att_up",
	ThGroupAttDown:      "att_down",
	ThGroupAttForward:   "att_forward",
	ThGroupAttBack:      "att_back",
	ThGroupUser:         "user",
}

// ThrusterGroupTypes returns every defined group type in tag order.
func ThrusterGroupTypes() []ThrusterGroupType {
	out := make([]ThrusterGroupType, 0, len(thGroupNames))
	for t := ThGroupMain; t <= ThGroupAttBack; t++ {
		out = append(out, t)
	}
	return append(out, ThGroupUser)
}

// IsValid reports whether t is one of the host's defined group types.
func (t ThrusterGroupType) IsValid() bool {
	_, ok := thGroupNames[t]
	return ok
}

// String returns the config-file name of the group type.
func (t ThrusterGroupType) String() string {
	if name, ok := thGroupNames[t]; ok {
		return name
	}
	return fmt.Sprintf("thgroup(%d)", int32(t))
}

// ParseThrusterGroupType resolves a config-file name such as "main" or
// "att_pitchup". Matching is case-insensitive.
func ParseThrusterGroupType(s string) (ThrusterGroupType, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for t, name := range thGroupNames {
		if name == want {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown thruster group type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t ThrusterGroupType) MarshalText() ([]byte, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid thruster group type %d", int32(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ThrusterGroupType) UnmarshalText(b []byte) error {
	parsed, err := ParseThrusterGroupType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
