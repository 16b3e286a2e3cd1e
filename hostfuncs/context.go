package hostfuncs

import (
	"context"

	"github.com/vesselbridge/sdk/domain/ports"
)

// HostContext wraps a standard context.Context with host function-specific helpers.
// It provides access to the invoked function name and allows middleware to store
// request-scoped values without polluting the standard context.
type HostContext interface {
	context.Context

	// FunctionName returns the name of the host function being invoked.
	FunctionName() string

	// SetValue stores a request-scoped value. Unlike context.WithValue,
	// this mutates the existing HostContext.
	SetValue(key, value any)

	// GetValue retrieves a request-scoped value set by SetValue.
	GetValue(key any) (value any, ok bool)
}

type hostContext struct {
	context.Context
	values   map[any]any
	funcName string
}

// NewHostContext creates a new HostContext wrapping the given context.
func NewHostContext(ctx context.Context, funcName string) HostContext {
	return &hostContext{
		Context:  ctx,
		funcName: funcName,
		values:   make(map[any]any),
	}
}

func (c *hostContext) FunctionName() string {
	return c.funcName
}

func (c *hostContext) SetValue(key, value any) {
	c.values[key] = value
}

func (c *hostContext) GetValue(key any) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// HostContextFrom returns ctx if it is already a HostContext for funcName,
// otherwise wraps it in a new one.
func HostContextFrom(ctx context.Context, funcName string) HostContext {
	if hc, ok := ctx.(HostContext); ok && hc.FunctionName() == funcName {
		return hc
	}
	return NewHostContext(ctx, funcName)
}

type servicesKey struct{}

// WithVesselServices binds the calling vessel's services to ctx. Host
// functions in VesselBundle act on the services found here.
func WithVesselServices(ctx context.Context, svc ports.VesselServices) context.Context {
	return context.WithValue(ctx, servicesKey{}, svc)
}

// VesselServicesFrom returns the services bound by WithVesselServices.
func VesselServicesFrom(ctx context.Context) (ports.VesselServices, bool) {
	svc, ok := ctx.Value(servicesKey{}).(ports.VesselServices)
	return svc, ok && svc != nil
}
