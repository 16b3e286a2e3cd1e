// Package vesseltest provides a test harness for vessel logic. It drives a
// Definition through the same context adapter an engine uses, against an
// in-memory simhost.Host.
package vesseltest

import (
	"testing"

	"github.com/vesselbridge/sdk/application/vessel"
	"github.com/vesselbridge/sdk/domain/entities"
	"github.com/vesselbridge/sdk/host"
	"github.com/vesselbridge/sdk/infrastructure/simhost"
	"github.com/vesselbridge/sdk/wireformat"
)

// DefaultClass is the class name used when none is given.
const DefaultClass = "TestVessel"

// DefaultFrameRate is the frame rate Run steps at.
const DefaultFrameRate = 60.0

// startMJD is the simulation date of the first frame.
const startMJD = 51544.5

// Harness owns one simulated vessel and its logic.
type Harness struct {
	t      testing.TB
	host   *simhost.Host
	ctx    *host.VesselContext
	cfg    wireformat.Handle
	vessel wireformat.Handle
	simt   float64
	keys   wireformat.KeyStateBuffer
}

// Option configures a Harness.
type Option func(*options)

type options struct {
	class       string
	name        string
	flightModel entities.FlightModel
	hostOpts    []simhost.Option
	ctxOpts     []host.ContextOption
}

// WithClass sets the class name the vessel is created with.
func WithClass(name string) Option {
	return func(o *options) { o.class = name }
}

// WithVesselName sets the name the host reports for the vessel.
func WithVesselName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithFlightModel sets the realism flag passed at construction.
func WithFlightModel(fm entities.FlightModel) Option {
	return func(o *options) { o.flightModel = fm }
}

// WithHostOptions passes options to the simulated host.
func WithHostOptions(opts ...simhost.Option) Option {
	return func(o *options) { o.hostOpts = append(o.hostOpts, opts...) }
}

// WithContextOptions passes options to the vessel context.
func WithContextOptions(opts ...host.ContextOption) Option {
	return func(o *options) { o.ctxOpts = append(o.ctxOpts, opts...) }
}

// New constructs the logic of def for a fresh vessel whose class
// configuration document is classConfig. Construction failures fail the
// test. The vessel is destroyed when the test ends.
func New(t testing.TB, def vessel.Definition, classConfig string, opts ...Option) *Harness {
	t.Helper()

	o := options{class: DefaultClass, name: "V1"}
	for _, opt := range opts {
		opt(&o)
	}

	hostOpts := append([]simhost.Option{simhost.WithClass(o.class, []byte(classConfig))}, o.hostOpts...)
	sim := simhost.New(hostOpts...)
	hv := sim.AddVessel(o.name, o.class)
	cfg, _ := sim.ClassConfigHandle(o.class)

	ctx, err := host.NewVesselContext(sim, hv, o.flightModel, def, o.ctxOpts...)
	if err != nil {
		t.Fatalf("failed to construct vessel logic: %v", err)
	}

	h := &Harness{t: t, host: sim, ctx: ctx, cfg: cfg, vessel: hv}
	t.Cleanup(ctx.Destroy)
	return h
}

// Host returns the simulated host.
func (h *Harness) Host() *simhost.Host { return h.host }

// Context returns the vessel context under test.
func (h *Harness) Context() *host.VesselContext { return h.ctx }

// Vessel returns the host handle of the vessel.
func (h *Harness) Vessel() wireformat.Handle { return h.vessel }

// SimTime returns the simulation time reached so far.
func (h *Harness) SimTime() float64 { return h.simt }

// Configure delivers the class configuration callback.
func (h *Harness) Configure() error {
	return h.ctx.SetClassCaps(h.cfg)
}

// MustConfigure is Configure that fails the test on error.
func (h *Harness) MustConfigure() *Harness {
	h.t.Helper()
	if err := h.Configure(); err != nil {
		h.t.Fatalf("configure failed: %v", err)
	}
	return h
}

// Step runs one frame of length dt and returns the frame's error.
func (h *Harness) Step(dt float64) error {
	err := h.ctx.PreStep(h.simt, dt, startMJD+h.simt/86400)
	h.simt += dt
	return err
}

// Run steps the vessel for the given number of frames at DefaultFrameRate
// and fails the test on the first frame error. before, if not nil, runs
// ahead of every frame.
func (h *Harness) Run(frames int, before func(frame int)) {
	h.t.Helper()
	for i := 0; i < frames; i++ {
		if before != nil {
			before(i)
		}
		if err := h.Step(1 / DefaultFrameRate); err != nil {
			h.t.Fatalf("frame %d failed: %v", i, err)
		}
	}
}

// Press sends a key-down event with key held in the keyboard state and
// returns the outcome code the host would see.
func (h *Harness) Press(key entities.KeyCode) entities.KeyOutcome {
	h.keys[key] = 0x80
	return entities.KeyOutcome(h.ctx.ConsumeBufferedKey(uint32(key), true, &h.keys))
}

// Release sends a key-up event and clears the key in the keyboard state.
func (h *Harness) Release(key entities.KeyCode) entities.KeyOutcome {
	h.keys[key] = 0
	return entities.KeyOutcome(h.ctx.ConsumeBufferedKey(uint32(key), false, &h.keys))
}

// SetLevel sets a thruster group level as the pilot would.
func (h *Harness) SetLevel(group entities.ThrusterGroupType, level float64) {
	h.t.Helper()
	if !h.host.SetThrusterGroupLevel(h.vessel, int32(group), level) {
		h.t.Fatalf("vessel has no %s thruster group", group)
	}
}

// Snapshot returns the host's view of the vessel.
func (h *Harness) Snapshot() simhost.Vessel {
	h.t.Helper()
	v, ok := h.host.Vessel(h.vessel)
	if !ok {
		h.t.Fatalf("vessel %d no longer exists", h.vessel)
	}
	return v
}

// Destroy tears the logic down as the engine does when the vessel is deleted.
func (h *Harness) Destroy() { h.ctx.Destroy() }
