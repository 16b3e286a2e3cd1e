package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/vesselbridge/sdk/hostfuncs"
	wzadapter "github.com/vesselbridge/sdk/infrastructure/wazero"
)

// Guest exports a vessel logic module must provide.
const (
	ExportInit        = "vessel_init"
	ExportConfigure   = "vessel_configure"
	ExportStep        = "vessel_step"
	ExportHandleInput = "vessel_handle_input"
	ExportExit        = "vessel_exit"
)

var errMissingExport = errors.New("guest export not found")

var requiredExports = []string{
	"allocate",
	"deallocate",
	ExportInit,
	ExportConfigure,
	ExportStep,
	ExportHandleInput,
	ExportExit,
}

// Executor hosts WASM vessel logic modules on a wazero runtime. Guests link
// against the vessel_host module, whose functions act on the vessel bound to
// the calling instance.
type Executor struct {
	runtime        wazero.Runtime
	runtimeConfig  wazero.RuntimeConfig
	registry       *hostfuncs.HandlerRegistry
	logger         *slog.Logger
	metrics        *hostfuncs.Metrics
	instances      atomic.Uint64
	maxRequestSize int
}

// NewExecutor creates a new executor with the given options.
func NewExecutor(ctx context.Context, opts ...Option) (*Executor, error) {
	e := &Executor{
		logger:         slog.Default(),
		maxRequestSize: hostfuncs.DefaultMaxRequestSize,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.registry == nil {
		reg, err := e.defaultRegistry()
		if err != nil {
			return nil, fmt.Errorf("failed to create default registry: %w", err)
		}
		e.registry = reg
	} else if missing := e.registry.Missing(hostfuncs.VesselOps()...); len(missing) > 0 {
		return nil, fmt.Errorf("host function registry lacks vessel ops %v", missing)
	}

	var rt wazero.Runtime
	if e.runtimeConfig != nil {
		rt = wazero.NewRuntimeWithConfig(ctx, e.runtimeConfig)
	} else {
		rt = wazero.NewRuntime(ctx)
	}
	wasi_snapshot_preview1.MustInstantiate(ctx, rt)
	e.runtime = rt

	err := wzadapter.NewHostModule(e.registry,
		wzadapter.WithModuleLogger(e.logger),
		wzadapter.WithGuestImport(wzadapter.LogMessageHandler(e.logger)),
	).Instantiate(ctx, rt)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("failed to register host functions: %w", err)
	}

	return e, nil
}

func (e *Executor) defaultRegistry() (*hostfuncs.HandlerRegistry, error) {
	mws := []hostfuncs.Middleware{
		hostfuncs.PanicRecoveryMiddleware(),
		hostfuncs.LoggingMiddleware(e.logger),
	}
	if e.metrics != nil {
		mws = append(mws, hostfuncs.MetricsMiddleware(e.metrics))
	}
	return hostfuncs.NewRegistry(
		hostfuncs.WithMiddleware(mws...),
		hostfuncs.WithBundle(hostfuncs.VesselBundle()),
		hostfuncs.WithMaxRequestSize(e.maxRequestSize),
	)
}

// Close releases resources held by the executor, including every guest
// instance still open.
func (e *Executor) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// Module is a compiled vessel logic module. Each vessel gets its own
// instance, so guests never share memory.
type Module struct {
	exec     *Executor
	compiled wazero.CompiledModule
	name     string
}

// LoadModule compiles a vessel logic module and checks its exports.
func (e *Executor) LoadModule(ctx context.Context, name string, wasmBytes []byte) (*Module, error) {
	compiled, err := e.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to compile module %s: %w", name, err)
	}

	exports := compiled.ExportedFunctions()
	var missing []string
	for _, want := range requiredExports {
		if _, ok := exports[want]; !ok {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		_ = compiled.Close(ctx)
		sort.Strings(missing)
		return nil, fmt.Errorf("module %s is missing exports %v", name, missing)
	}

	return &Module{exec: e, compiled: compiled, name: name}, nil
}

// Name returns the name the module was loaded under.
func (m *Module) Name() string { return m.name }

// Factory returns a DriverFactory that runs each new vessel's logic in a
// fresh instance of the module. Guest calls use ctx.
func (m *Module) Factory(ctx context.Context, class string) DriverFactory {
	return func(svc *hostfuncs.Services) (Driver, error) {
		n := m.exec.instances.Add(1)
		cfg := wazero.NewModuleConfig().
			WithName(fmt.Sprintf("%s-%d", m.name, n)).
			WithStartFunctions("_initialize")

		mod, err := m.exec.runtime.InstantiateModule(ctx, m.compiled, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to instantiate module %s: %w", m.name, err)
		}
		return newWasmVessel(ctx, mod, class, svc, m.exec.logger)
	}
}
