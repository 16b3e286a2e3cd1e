package host

// State is the lifecycle state of a VesselContext.
type State int32

const (
	// StateConstructing is the state between construction and the class
	// configuration callback.
	StateConstructing State = iota
	// StateConfigured means the logic has been configured but not yet stepped.
	StateConfigured
	// StateRunning means at least one frame has been stepped.
	StateRunning
	// StateDestroyed is terminal; the logic has been dropped.
	StateDestroyed
)

var stateNames = [...]string{"constructing", "configured", "running", "destroyed"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// acceptsFrames reports whether step and input callbacks reach the logic.
func (s State) acceptsFrames() bool {
	return s == StateConfigured || s == StateRunning
}
