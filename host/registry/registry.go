// Package registry maps vessel class names to the logic definitions that
// implement them, along with the JSON Schema of each class's configuration.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/vesselbridge/sdk/application/vessel"
)

// registryConfig holds configuration for the Registry.
type registryConfig struct {
	strictMode bool // Fail on duplicate registrations
}

func defaultRegistryConfig() registryConfig {
	return registryConfig{
		strictMode: true,
	}
}

// RegistryOption configures a Registry instance.
type RegistryOption func(*registryConfig)

// WithStrictMode enables/disables strict mode for duplicate registrations.
// Default is true (fail on duplicates). Disable only for testing or hot-reloading.
func WithStrictMode(enabled bool) RegistryOption {
	return func(c *registryConfig) {
		c.strictMode = enabled
	}
}

// Registry is a concurrency-safe catalog of vessel classes.
type Registry struct {
	config  registryConfig
	schemas sync.Map // map[string]string (json schema)
	defs    sync.Map // map[string]vessel.Definition
}

// NewRegistry creates a new Registry with the given options.
func NewRegistry(opts ...RegistryOption) *Registry {
	cfg := defaultRegistryConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Registry{config: cfg}
}

// Register adds def under def.Name. If def.Config is set, its JSON Schema
// is generated and stored with it.
func (r *Registry) Register(def vessel.Definition) error {
	if def.Name == "" {
		return errors.New("vessel class name cannot be empty")
	}
	if def.Init == nil {
		return fmt.Errorf("vessel class %q has no Init factory", def.Name)
	}
	if r.config.strictMode {
		if _, exists := r.defs.Load(def.Name); exists {
			return fmt.Errorf("vessel class %q already registered", def.Name)
		}
	}

	schema := "{}"
	if def.Config != nil {
		data, err := json.Marshal(jsonschema.Reflect(def.Config))
		if err != nil {
			return fmt.Errorf("failed to marshal schema for %s: %w", def.Name, err)
		}
		schema = string(data)
	}

	r.defs.Store(def.Name, def)
	r.schemas.Store(def.Name, schema)
	return nil
}

// Lookup returns the definition registered for class.
func (r *Registry) Lookup(class string) (vessel.Definition, bool) {
	v, ok := r.defs.Load(class)
	if !ok {
		return vessel.Definition{}, false
	}
	return v.(vessel.Definition), true
}

// GetSchema retrieves the JSON Schema of a class's configuration.
func (r *Registry) GetSchema(class string) (string, bool) {
	v, ok := r.schemas.Load(class)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// List returns all registered class names, sorted.
func (r *Registry) List() []string {
	var keys []string
	r.defs.Range(func(k, _ any) bool {
		keys = append(keys, k.(string))
		return true
	})
	sort.Strings(keys)
	return keys
}
