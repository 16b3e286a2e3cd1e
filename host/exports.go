package host

import (
	"errors"
	"fmt"

	"github.com/vesselbridge/sdk/application/vessel"
	"github.com/vesselbridge/sdk/domain/entities"
	"github.com/vesselbridge/sdk/domain/ports"
	"github.com/vesselbridge/sdk/internal/handles"
	"github.com/vesselbridge/sdk/wireformat"
)

// ErrUnknownHandle is returned for a context handle that is not live.
var ErrUnknownHandle = errors.New("unknown vessel context handle")

// live holds every VesselContext created through Init. The host keeps only
// the handle.
var live = handles.New[*VesselContext]()

// Init constructs the logic of vessel hv from the registered definition and
// returns an opaque handle for the other callbacks. flightModel is the
// host's realism flag.
func Init(h ports.Host, hv wireformat.Handle, flightModel int32, opts ...ContextOption) (wireformat.Handle, error) {
	def, err := vessel.Registered()
	if err != nil {
		return 0, err
	}
	cfg := applyContextOptions(opts)
	return InitWith(h, hv, flightModel, NativeFactory(def, vessel.WithBoxLogger(cfg.logger)), opts...)
}

// InitWith is Init with an explicit driver factory.
func InitWith(h ports.Host, hv wireformat.Handle, flightModel int32, factory DriverFactory, opts ...ContextOption) (wireformat.Handle, error) {
	ctx, err := NewVesselContextWith(h, hv, entities.FlightModel(flightModel), factory, opts...)
	if err != nil {
		return 0, err
	}
	handle, err := live.Insert(ctx)
	if err != nil {
		ctx.Destroy()
		return 0, fmt.Errorf("register vessel context: %w", err)
	}
	return wireformat.Handle(handle), nil
}

// SetClassCaps forwards the class configuration callback.
func SetClassCaps(h, cfg wireformat.Handle) error {
	ctx, ok := lookup(h)
	if !ok {
		return ErrUnknownHandle
	}
	return ctx.SetClassCaps(cfg)
}

// PreStep forwards the per-frame callback.
func PreStep(h wireformat.Handle, simt, simdt, mjd float64) error {
	ctx, ok := lookup(h)
	if !ok {
		return ErrUnknownHandle
	}
	return ctx.PreStep(simt, simdt, mjd)
}

// ConsumeBufferedKey forwards a buffered key event. Unknown handles are
// answered with 0, not handled.
func ConsumeBufferedKey(h wireformat.Handle, key uint32, down bool, kstate *wireformat.KeyStateBuffer) int32 {
	ctx, ok := lookup(h)
	if !ok {
		return int32(entities.KeyNotHandled)
	}
	return ctx.ConsumeBufferedKey(key, down, kstate)
}

// Exit destroys the vessel's logic. The handle is removed before the logic
// is dropped, so a second Exit with the same handle does nothing.
func Exit(h wireformat.Handle) {
	th, ok := tableHandle(h)
	if !ok {
		return
	}
	ctx, ok := live.Remove(th)
	if !ok {
		return
	}
	ctx.Destroy()
}

// Live returns the number of vessel contexts not yet exited.
func Live() int { return live.Len() }

func lookup(h wireformat.Handle) (*VesselContext, bool) {
	th, ok := tableHandle(h)
	if !ok {
		return nil, false
	}
	return live.Get(th)
}

func tableHandle(h wireformat.Handle) (handles.Handle, bool) {
	if h == 0 {
		return 0, false
	}
	return handles.Handle(uint64(h)), true
}
