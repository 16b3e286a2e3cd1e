package host

import (
	"fmt"
	"log/slog"

	"github.com/vesselbridge/sdk/application/vessel"
	"github.com/vesselbridge/sdk/domain/entities"
	"github.com/vesselbridge/sdk/domain/errors"
	"github.com/vesselbridge/sdk/domain/ports"
	"github.com/vesselbridge/sdk/hostfuncs"
	"github.com/vesselbridge/sdk/infrastructure/parser"
	"github.com/vesselbridge/sdk/internal/abi"
	"github.com/vesselbridge/sdk/wireformat"
)

// Host callback names, used as the Op of lifecycle errors.
const (
	CallbackSetClassCaps       = "set_class_caps"
	CallbackPreStep            = "pre_step"
	CallbackConsumeBufferedKey = "consume_buffered_key"
)

// VesselContext adapts host callbacks for one vessel to its logic driver.
// It is created when the host constructs the vessel and destroyed with it.
//
// A VesselContext is not safe for concurrent use; the host calls it from
// one thread and never re-enters it during a callback.
type VesselContext struct {
	host   ports.Host
	driver Driver
	svc    *hostfuncs.Services
	parser ports.ClassConfigParser
	logger *slog.Logger
	handle wireformat.Handle
	state  State
}

// NewVesselContext constructs the in-process logic of vessel hv from def.
// The context starts in StateConstructing. A construction failure aborts
// the vessel; nothing is left to destroy.
func NewVesselContext(h ports.Host, hv wireformat.Handle, flightModel entities.FlightModel, def vessel.Definition, opts ...ContextOption) (*VesselContext, error) {
	cfg := applyContextOptions(opts)
	return newVesselContext(h, hv, flightModel, NativeFactory(def, vessel.WithBoxLogger(cfg.logger)), cfg)
}

// NewVesselContextWith constructs vessel hv around a driver built by factory.
func NewVesselContextWith(h ports.Host, hv wireformat.Handle, flightModel entities.FlightModel, factory DriverFactory, opts ...ContextOption) (*VesselContext, error) {
	return newVesselContext(h, hv, flightModel, factory, applyContextOptions(opts))
}

func applyContextOptions(opts []ContextOption) contextConfig {
	cfg := contextConfig{
		logger: slog.Default(),
		parser: parser.NewYamlClassConfigParser(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func newVesselContext(h ports.Host, hv wireformat.Handle, fm entities.FlightModel, factory DriverFactory, cfg contextConfig) (*VesselContext, error) {
	if h == nil {
		return nil, &errors.ConstructionError{Err: fmt.Errorf("nil host")}
	}
	if hv == 0 {
		return nil, &errors.ConstructionError{Err: fmt.Errorf("invalid vessel handle")}
	}

	svc := hostfuncs.NewServices(h, entities.VesselHandle(hv),
		hostfuncs.WithFlightModel(fm),
		hostfuncs.WithMetrics(cfg.metrics),
		hostfuncs.WithServicesLogger(cfg.logger),
	)

	driver, err := factory(svc)
	if err != nil {
		cfg.logger.Error("host: vessel construction failed", "vessel", hv, "error", err)
		return nil, err
	}

	return &VesselContext{
		host:   h,
		driver: driver,
		svc:    svc,
		parser: cfg.parser,
		logger: cfg.logger,
		handle: hv,
		state:  StateConstructing,
	}, nil
}

// State returns the current lifecycle state.
func (c *VesselContext) State() State { return c.state }

// Vessel returns the host handle of the vessel.
func (c *VesselContext) Vessel() wireformat.Handle { return c.handle }

// Services returns the host services bound to the vessel.
func (c *VesselContext) Services() *hostfuncs.Services { return c.svc }

// SetClassCaps reads the class configuration document behind cfg, parses it
// and configures the logic. It is accepted once, in StateConstructing.
//
// If the document cannot be read or parsed the logic is not invoked and the
// context stays in StateConstructing. Once the logic has been invoked the
// context is Configured even if the logic returned an error, since the
// logic may already have created host objects.
func (c *VesselContext) SetClassCaps(cfg wireformat.Handle) error {
	if c.state != StateConstructing {
		return &errors.LifecycleError{Op: CallbackSetClassCaps, State: c.state.String()}
	}

	data, ok := c.host.ReadClassConfig(cfg)
	if !ok {
		return &errors.HostError{Op: "read_class_config"}
	}
	classCfg, err := c.parser.Parse(data)
	if err != nil {
		return err
	}

	c.state = StateConfigured
	if err := c.driver.Configure(classCfg); err != nil {
		c.logger.Warn("host: logic configure failed", "vessel", c.handle, "error", err)
		return err
	}
	return nil
}

// PreStep advances the logic by one frame. It is accepted once the vessel
// is configured; the first accepted call moves the context to StateRunning.
func (c *VesselContext) PreStep(simt, simdt, mjd float64) error {
	if !c.state.acceptsFrames() {
		return &errors.LifecycleError{Op: CallbackPreStep, State: c.state.String()}
	}
	c.state = StateRunning
	return c.driver.Step(entities.FrameState{SimTime: simt, SimDT: simdt, MJD: mjd})
}

// ConsumeBufferedKey forwards a buffered key event and returns the
// outcome code for the host: 0 not handled, 1 handled and stop, 2 handled
// and continue. Events before configuration are not handled. kstate is
// copied before the logic sees it.
func (c *VesselContext) ConsumeBufferedKey(key uint32, down bool, kstate *wireformat.KeyStateBuffer) int32 {
	if !c.state.acceptsFrames() {
		return int32(entities.KeyNotHandled)
	}
	state := abi.CopyKeyState(kstate)
	return int32(c.driver.HandleInput(entities.KeyCode(key), down, &state))
}

// Destroy drops the logic. It is the only path that does; later calls do
// nothing.
func (c *VesselContext) Destroy() {
	if c.state == StateDestroyed {
		return
	}
	c.state = StateDestroyed
	c.driver.Drop()
	c.driver = nil
	c.logger.Debug("host: vessel destroyed", "vessel", c.handle)
}

// Drop implements handles.Dropper so closing a handle table destroys every
// vessel still inside it.
func (c *VesselContext) Drop() { c.Destroy() }
