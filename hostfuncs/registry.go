package hostfuncs

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/vesselbridge/sdk/domain/ports"
)

// DefaultMaxRequestSize bounds a single host function request.
const DefaultMaxRequestSize = 1 << 20

// HandlerRegistry is the immutable set of host functions a vessel logic
// module may call, each already wrapped in the registry's middleware.
// Lookups need no locking, so one registry can serve every guest instance.
type HandlerRegistry struct {
	handlers       map[string]ByteHandler
	names          []string
	maxRequestSize int
}

type registryBuilder struct {
	handlers       map[string]ByteHandler
	middleware     []Middleware
	required       []string
	errors         []error
	maxRequestSize int
}

// NewRegistry creates a HandlerRegistry. It fails if an op is registered
// twice or a required op is missing.
//
// Example usage:
//
//	registry, err := NewRegistry(
//	    WithMiddleware(PanicRecoveryMiddleware(), MetricsMiddleware(m)),
//	    WithBundle(VesselBundle()),
//	    WithRequiredOps(VesselOps()...),
//	)
func NewRegistry(opts ...RegistryOption) (*HandlerRegistry, error) {
	b := &registryBuilder{
		handlers:       make(map[string]ByteHandler),
		maxRequestSize: DefaultMaxRequestSize,
	}
	for _, opt := range opts {
		opt(b)
	}
	if len(b.errors) > 0 {
		return nil, b.errors[0]
	}

	reg := &HandlerRegistry{
		handlers:       make(map[string]ByteHandler, len(b.handlers)),
		names:          make([]string, 0, len(b.handlers)),
		maxRequestSize: b.maxRequestSize,
	}
	for name, handler := range b.handlers {
		// The first middleware is the outermost.
		for i := len(b.middleware) - 1; i >= 0; i-- {
			handler = b.middleware[i](handler)
		}
		reg.handlers[name] = handler
		reg.names = append(reg.names, name)
	}
	sort.Strings(reg.names)

	if missing := reg.Missing(b.required...); len(missing) > 0 {
		return nil, fmt.Errorf("registry lacks required host functions %v", missing)
	}
	return reg, nil
}

// Invoke dispatches one host call. Calls to unknown ops and oversized
// requests are answered with an ErrorResponse and never reach a handler.
func (r *HandlerRegistry) Invoke(ctx context.Context, op string, payload []byte) ([]byte, error) {
	handler, ok := r.handlers[op]
	if !ok {
		return NewNotFoundError(op).ToJSON(), nil
	}
	if len(payload) > r.maxRequestSize {
		return NewTooLargeError(len(payload), r.maxRequestSize).ToJSON(), nil
	}
	return handler(HostContextFrom(ctx, op), payload)
}

// InvokeFor dispatches one host call on behalf of the vessel whose services
// are svc.
func (r *HandlerRegistry) InvokeFor(ctx context.Context, svc ports.VesselServices, op string, payload []byte) ([]byte, error) {
	return r.Invoke(WithVesselServices(ctx, svc), op, payload)
}

// Has reports whether op is registered.
func (r *HandlerRegistry) Has(op string) bool {
	_, ok := r.handlers[op]
	return ok
}

// Missing returns the ops in want that the registry does not serve.
func (r *HandlerRegistry) Missing(want ...string) []string {
	var missing []string
	for _, op := range want {
		if !r.Has(op) && !slices.Contains(missing, op) {
			missing = append(missing, op)
		}
	}
	return missing
}

// Names returns the registered ops in sorted order.
func (r *HandlerRegistry) Names() []string {
	return slices.Clone(r.names)
}

// MaxRequestSize returns the largest request payload Invoke accepts.
func (r *HandlerRegistry) MaxRequestSize() int { return r.maxRequestSize }

func (b *registryBuilder) addHandler(name string, handler ByteHandler) error {
	if name == "" {
		return fmt.Errorf("handler name cannot be empty")
	}
	if _, exists := b.handlers[name]; exists {
		return fmt.Errorf("duplicate handler name: %q", name)
	}
	b.handlers[name] = handler
	return nil
}

// WithByteHandler registers a raw ByteHandler under op.
func WithByteHandler(op string, handler ByteHandler) RegistryOption {
	return func(b *registryBuilder) {
		if err := b.addHandler(op, handler); err != nil {
			b.errors = append(b.errors, err)
		}
	}
}

// WithMiddleware wraps every handler. The first middleware added runs first.
func WithMiddleware(mw ...Middleware) RegistryOption {
	return func(b *registryBuilder) {
		b.middleware = append(b.middleware, mw...)
	}
}

// WithRequiredOps makes NewRegistry fail unless every op is registered.
func WithRequiredOps(ops ...string) RegistryOption {
	return func(b *registryBuilder) {
		b.required = append(b.required, ops...)
	}
}

// WithMaxRequestSize bounds the request payload of a single call.
// Non-positive values keep DefaultMaxRequestSize.
func WithMaxRequestSize(n int) RegistryOption {
	return func(b *registryBuilder) {
		if n > 0 {
			b.maxRequestSize = n
		}
	}
}
