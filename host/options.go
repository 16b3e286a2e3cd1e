package host

import (
	"log/slog"

	"github.com/tetratelabs/wazero"

	"github.com/vesselbridge/sdk/domain/ports"
	"github.com/vesselbridge/sdk/hostfuncs"
)

// Option defines a functional option for configuring the Executor.
type Option func(*Executor)

// WithHostFunctions configures the executor with a host function registry.
// NewExecutor fails unless the registry serves every op in
// hostfuncs.VesselOps. The registry's own request limit applies.
func WithHostFunctions(registry *hostfuncs.HandlerRegistry) Option {
	return func(e *Executor) {
		e.registry = registry
	}
}

// WithRuntimeConfig sets the wazero runtime configuration.
func WithRuntimeConfig(cfg wazero.RuntimeConfig) Option {
	return func(e *Executor) {
		e.runtimeConfig = cfg
	}
}

// WithMaxRequestSize bounds a single guest request read by a host function.
// It only applies to the default registry.
func WithMaxRequestSize(n int) Option {
	return func(e *Executor) {
		e.maxRequestSize = n
	}
}

// WithExecutorLogger sets the logger for host function calls and guest logs.
func WithExecutorLogger(l *slog.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithExecutorMetrics counts host function calls made by guests. It only
// applies to the default registry.
func WithExecutorMetrics(m *hostfuncs.Metrics) Option {
	return func(e *Executor) {
		e.metrics = m
	}
}

// ContextOption configures a VesselContext.
type ContextOption func(*contextConfig)

type contextConfig struct {
	logger  *slog.Logger
	metrics *hostfuncs.Metrics
	parser  ports.ClassConfigParser
}

// WithLogger sets the logger of the context and its host services.
func WithLogger(l *slog.Logger) ContextOption {
	return func(c *contextConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics records the vessel's host service calls in m.
func WithMetrics(m *hostfuncs.Metrics) ContextOption {
	return func(c *contextConfig) {
		c.metrics = m
	}
}

// WithParser replaces the YAML class config parser.
func WithParser(p ports.ClassConfigParser) ContextOption {
	return func(c *contextConfig) {
		if p != nil {
			c.parser = p
		}
	}
}
