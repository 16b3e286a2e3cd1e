package vessel

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/vesselbridge/sdk/domain/entities"
	sdkerrors "github.com/vesselbridge/sdk/domain/errors"
	"github.com/vesselbridge/sdk/domain/ports"
)

// ErrDropped is returned by a Box whose logic has already been dropped.
var ErrDropped = errors.New("vessel logic already dropped")

var (
	errNoFactory = errors.New("definition has no Init factory")
	errNilLogic  = errors.New("factory returned nil logic")
)

// noCopy triggers go vet's copylocks check when a Box is copied by value.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// BoxOption configures a Box.
type BoxOption func(*boxConfig)

type boxConfig struct {
	logger *slog.Logger
}

// WithBoxLogger sets the logger used to report recovered panics.
func WithBoxLogger(l *slog.Logger) BoxOption {
	return func(c *boxConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Box owns the logic of one vessel. The host only ever sees a handle to the
// adapter holding the Box; the concrete logic type never leaves it.
//
// A Box is not safe for concurrent use. Panics raised by the logic are
// recovered at the Box boundary: the Box becomes faulted, Step and Configure
// return the recorded fault and HandleInput leaves every key to the host.
type Box struct {
	_      noCopy
	logic  Logic
	fault  error
	exit   func()
	logger *slog.Logger
	class  string

	dropped bool
}

// NewBox constructs the logic for one vessel through def.Init. A factory
// error, a nil logic or a factory panic yields a *errors.ConstructionError.
func NewBox(def Definition, svc ports.VesselServices, opts ...BoxOption) (b *Box, err error) {
	cfg := boxConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	if def.Init == nil {
		return nil, &sdkerrors.ConstructionError{Class: def.Name, Err: errNoFactory}
	}

	defer func() {
		if r := recover(); r != nil {
			perr := &sdkerrors.LogicPanicError{Value: r, Callback: "init", Stack: debug.Stack()}
			cfg.logger.Error("vessel: logic factory panicked", "class", def.Name, "panic", fmt.Sprint(r))
			b, err = nil, &sdkerrors.ConstructionError{Class: def.Name, Err: perr}
		}
	}()

	logic, ferr := def.Init(svc)
	if ferr != nil {
		return nil, &sdkerrors.ConstructionError{Class: def.Name, Err: ferr}
	}
	if logic == nil {
		return nil, &sdkerrors.ConstructionError{Class: def.Name, Err: errNilLogic}
	}

	return &Box{
		logic:  logic,
		exit:   def.Exit,
		logger: cfg.logger,
		class:  def.Name,
	}, nil
}

// Configure forwards the parsed class configuration to the logic.
func (b *Box) Configure(cfg entities.ClassConfig) error {
	if err := b.usable(); err != nil {
		return err
	}
	return b.guard("configure", func() error {
		return b.logic.Configure(cfg)
	})
}

// Step advances the logic by one frame.
func (b *Box) Step(frame entities.FrameState) error {
	if err := b.usable(); err != nil {
		return err
	}
	return b.guard("step", func() error {
		return b.logic.Step(frame)
	})
}

// HandleInput forwards a key event. Outcomes outside the known set are
// reported as not handled.
func (b *Box) HandleInput(key entities.KeyCode, down bool, state *entities.KeyState) entities.KeyOutcome {
	if b.usable() != nil {
		return entities.KeyNotHandled
	}

	outcome := entities.KeyNotHandled
	_ = b.guard("handle_input", func() error {
		outcome = b.logic.HandleInput(key, down, state)
		return nil
	})
	if b.fault != nil {
		return entities.KeyNotHandled
	}

	switch outcome {
	case entities.KeyNotHandled, entities.KeyHandledStop, entities.KeyHandledContinue:
		return outcome
	default:
		b.logger.Warn("vessel: unknown key outcome, treating as not handled", "class", b.class, "outcome", int(outcome))
		return entities.KeyNotHandled
	}
}

// Drop runs the definition's Exit hook, then the logic's Drop if it has one,
// and releases the logic. Later calls do nothing.
func (b *Box) Drop() {
	if b == nil || b.dropped {
		return
	}
	b.dropped = true

	if b.exit != nil {
		_ = b.guard("exit", func() error {
			b.exit()
			return nil
		})
	}
	if d, ok := b.logic.(Dropper); ok {
		_ = b.guard("drop", func() error {
			d.Drop()
			return nil
		})
	}
	b.logic = nil
}

// Dropped reports whether Drop has run.
func (b *Box) Dropped() bool { return b.dropped }

// Fault returns the recovered panic that faulted the Box, or nil.
func (b *Box) Fault() error { return b.fault }

// Logic returns the boxed logic, or nil once dropped. The host side never
// calls this; it exists for test harnesses that need to inspect the logic.
func (b *Box) Logic() Logic { return b.logic }

func (b *Box) usable() error {
	if b.dropped {
		return ErrDropped
	}
	return b.fault
}

func (b *Box) guard(callback string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			perr := &sdkerrors.LogicPanicError{Value: r, Callback: callback, Stack: debug.Stack()}
			b.logger.Error("vessel: logic panic recovered", "class", b.class, "callback", callback, "panic", fmt.Sprint(r))
			if b.fault == nil {
				b.fault = perr
			}
			err = perr
		}
	}()
	return fn()
}
