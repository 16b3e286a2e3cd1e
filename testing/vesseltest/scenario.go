package vesseltest

import (
	"testing"

	"github.com/vesselbridge/sdk/application/vessel"
	"github.com/vesselbridge/sdk/domain/entities"
)

// Scenario defines a test case for vessel logic.
type Scenario struct {
	Name string
	// Config is the class configuration document.
	Config string
	// Frames is how many frames to run after configuration.
	Frames int
	// Before runs ahead of every frame.
	Before func(h *Harness, frame int)
	// ConfigureErr expects configuration to fail. No frames are run.
	ConfigureErr bool
	Validate     func(t *testing.T, h *Harness)
	Options      []Option
}

// RunScenarios runs each scenario against a fresh vessel built from def.
func RunScenarios(t *testing.T, def vessel.Definition, scenarios []Scenario) {
	t.Helper()

	for _, sc := range scenarios {
		t.Run(sc.Name, func(t *testing.T) {
			h := New(t, def, sc.Config, sc.Options...)

			err := h.Configure()
			if sc.ConfigureErr {
				if err == nil {
					t.Fatalf("expected configuration to fail")
				}
				if sc.Validate != nil {
					sc.Validate(t, h)
				}
				return
			}
			if err != nil {
				t.Fatalf("configure failed: %v", err)
			}

			var before func(int)
			if sc.Before != nil {
				before = func(frame int) { sc.Before(h, frame) }
			}
			h.Run(sc.Frames, before)

			if sc.Validate != nil {
				sc.Validate(t, h)
			}
		})
	}
}

// AssertMeshes asserts the vessel carries exactly the named meshes, in order.
func AssertMeshes(t *testing.T, h *Harness, names ...string) {
	t.Helper()
	v := h.Snapshot()
	if len(v.Meshes) != len(names) {
		t.Errorf("expected %d meshes, got %d", len(names), len(v.Meshes))
		return
	}
	for i, m := range v.Meshes {
		if m.Name != names[i] {
			t.Errorf("mesh %d: expected %q, got %q", i, names[i], m.Name)
		}
	}
}

// AssertThrusters asserts the number of thrusters defined on the vessel.
func AssertThrusters(t *testing.T, h *Harness, n int) {
	t.Helper()
	if got := len(h.Snapshot().Thrusters); got != n {
		t.Errorf("expected %d thrusters, got %d", n, got)
	}
}

// AssertGroup asserts the vessel has a thruster group of the given type
// with n thrusters.
func AssertGroup(t *testing.T, h *Harness, group entities.ThrusterGroupType, n int) {
	t.Helper()
	ths, ok := h.Snapshot().Groups[int32(group)]
	if !ok {
		t.Errorf("missing %s thruster group", group)
		return
	}
	if len(ths) != n {
		t.Errorf("%s group: expected %d thrusters, got %d", group, n, len(ths))
	}
}

// AssertPropellant asserts the total propellant mass defined on the vessel.
func AssertPropellant(t *testing.T, h *Harness, mass float64) {
	t.Helper()
	var total float64
	for _, m := range h.Snapshot().Propellants {
		total += m
	}
	if total != mass {
		t.Errorf("expected %v kg of propellant, got %v", mass, total)
	}
}

// AssertDebugLine asserts the logic wrote line to the host viewport.
func AssertDebugLine(t *testing.T, h *Harness, line string) {
	t.Helper()
	for _, l := range h.Host().DebugLines() {
		if l == line {
			return
		}
	}
	t.Errorf("debug line %q not written; got %q", line, h.Host().DebugLines())
}
