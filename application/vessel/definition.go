package vessel

import (
	"log/slog"
	"sync"

	"github.com/vesselbridge/sdk/application/schema"
	sdkerrors "github.com/vesselbridge/sdk/domain/errors"
)

// Definition describes a vessel logic module.
type Definition struct {
	// Init builds the logic of each new vessel.
	Init Factory

	// Exit, if set, runs when a vessel is destroyed, before its logic is dropped.
	Exit func()

	// Config is an optional zero value of the class config struct, used to
	// publish a JSON Schema of the accepted configuration.
	Config any

	Name    string
	Version string
}

// ConfigSchema returns the JSON Schema of d.Config, or "{}" if none is set.
func (d Definition) ConfigSchema() ([]byte, error) {
	if d.Config == nil {
		return []byte("{}"), nil
	}
	return schema.GenerateSchema(d.Config)
}

var registry struct {
	def *Definition
	mu  sync.RWMutex
}

// Register records the module's definition. Call it once from an init
// function; later calls are ignored with a warning.
func Register(def Definition) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	if registry.def != nil {
		slog.Warn("vessel: definition already registered, ignoring second call",
			"registered", registry.def.Name, "ignored", def.Name)
		return
	}
	registry.def = &def
	slog.Debug("vessel: definition registered", "name", def.Name, "version", def.Version)
}

// Registered returns the definition recorded by Register.
func Registered() (Definition, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	if registry.def == nil {
		return Definition{}, sdkerrors.ErrNotRegistered
	}
	return *registry.def, nil
}

// resetRegistration clears the registered definition. Tests only.
func resetRegistration() {
	registry.mu.Lock()
	registry.def = nil
	registry.mu.Unlock()
}
