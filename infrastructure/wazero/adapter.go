package wazero

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/vesselbridge/sdk/hostfuncs"
	"github.com/vesselbridge/sdk/wireformat"
)

// GuestImport is a host function with its own wazero signature, such as
// log_message, which takes a packed message and returns nothing.
type GuestImport struct {
	Handler     api.GoModuleFunc
	Name        string
	ParamTypes  []api.ValueType
	ResultTypes []api.ValueType
}

// HostModule exports a HandlerRegistry to vessel logic guests. Every
// registry op becomes a function taking a packed i64 ptr+len JSON request
// and returning a packed JSON response written into guest memory.
type HostModule struct {
	registry *hostfuncs.HandlerRegistry
	logger   *slog.Logger
	name     string
	imports  []GuestImport
}

// ModuleOption configures a HostModule.
type ModuleOption func(*HostModule)

// WithModuleName sets the import module name guests link against
// (default: "vessel_host").
func WithModuleName(name string) ModuleOption {
	return func(m *HostModule) {
		if name != "" {
			m.name = name
		}
	}
}

// WithGuestImport exports an extra function next to the registry ops.
func WithGuestImport(gi GuestImport) ModuleOption {
	return func(m *HostModule) {
		m.imports = append(m.imports, gi)
	}
}

// WithModuleLogger sets the logger for failed guest calls.
func WithModuleLogger(l *slog.Logger) ModuleOption {
	return func(m *HostModule) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewHostModule prepares registry for export to guests.
//
// Example:
//
//	registry, _ := hostfuncs.NewRegistry(
//	    hostfuncs.WithBundle(hostfuncs.VesselBundle()),
//	)
//	mod := wazero.NewHostModule(registry,
//	    wazero.WithGuestImport(wazero.LogMessageHandler(slog.Default())),
//	)
//	err := mod.Instantiate(ctx, runtime)
func NewHostModule(registry *hostfuncs.HandlerRegistry, opts ...ModuleOption) *HostModule {
	m := &HostModule{
		registry: registry,
		logger:   slog.Default(),
		name:     wireformat.HostModule,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name returns the import module name.
func (m *HostModule) Name() string { return m.name }

// Exports returns the sorted names of every function the module exports.
func (m *HostModule) Exports() []string {
	names := m.registry.Names()
	for _, gi := range m.imports {
		names = append(names, gi.Name)
	}
	sort.Strings(names)
	return names
}

// Instantiate defines the module in rt. It must run before any guest that
// imports it is instantiated.
func (m *HostModule) Instantiate(ctx context.Context, rt wazero.Runtime) error {
	builder := rt.NewHostModuleBuilder(m.name)

	i64 := []api.ValueType{api.ValueTypeI64}
	for _, op := range m.registry.Names() {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(m.serve(op), i64, i64).
			Export(op)
	}
	for _, gi := range m.imports {
		if m.registry.Has(gi.Name) {
			return fmt.Errorf("guest import %q collides with a registry op", gi.Name)
		}
		builder.NewFunctionBuilder().
			WithGoModuleFunction(gi.Handler, gi.ParamTypes, gi.ResultTypes).
			Export(gi.Name)
	}

	if _, err := builder.Instantiate(ctx); err != nil {
		return fmt.Errorf("failed to instantiate host module %s: %w", m.name, err)
	}
	return nil
}

// serve returns the guest-callable form of op. Failures are answered with
// an ErrorResponse so a bad request never traps the guest.
func (m *HostModule) serve(op string) api.GoModuleFunc {
	return func(ctx context.Context, mod api.Module, stack []uint64) {
		ptr, length := unpackPtrLen(stack[0])

		var request []byte
		if length > 0 {
			if int64(length) > int64(m.registry.MaxRequestSize()) {
				stack[0] = m.reply(ctx, mod, op, hostfuncs.NewTooLargeError(int(length), m.registry.MaxRequestSize()).ToJSON())
				return
			}
			data, ok := mod.Memory().Read(ptr, length)
			if !ok {
				m.logger.ErrorContext(ctx, "wazero: request outside guest memory",
					"function", op, "vessel", GetVesselName(ctx, mod), "ptr", ptr, "len", length)
				stack[0] = m.reply(ctx, mod, op, hostfuncs.NewInternalError("request outside guest memory").ToJSON())
				return
			}
			request = data
		}

		stack[0] = m.reply(ctx, mod, op, m.dispatch(ctx, op, request))
	}
}

// dispatch runs op and always yields a response body.
func (m *HostModule) dispatch(ctx context.Context, op string, request []byte) []byte {
	response, err := m.registry.Invoke(ctx, op, request)
	if err != nil {
		m.logger.ErrorContext(ctx, "wazero: host function failed", "function", op, "error", err)
		return hostfuncs.NewInternalError(err.Error()).ToJSON()
	}
	return response
}

// reply writes data into guest memory. A guest that cannot take the
// response gets 0, which it reads as an empty reply.
func (m *HostModule) reply(ctx context.Context, mod api.Module, op string, data []byte) uint64 {
	packed, err := WriteGuest(ctx, mod, data)
	if err != nil {
		m.logger.ErrorContext(ctx, "wazero: failed to write response",
			"function", op, "vessel", GetVesselName(ctx, mod), "error", err)
		return 0
	}
	return packed
}
