package wazero

import (
	"context"

	"github.com/tetratelabs/wazero/api"
)

// contextKey is a private type for context keys.
type contextKey struct {
	name string
}

var vesselNameKey = &contextKey{name: "vessel_name"}

// WithVesselName adds the name of the vessel a guest instance serves to the
// context. Middleware use it to attribute host calls.
func WithVesselName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, vesselNameKey, name)
}

// VesselNameFromContext retrieves the vessel name from the context.
func VesselNameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(vesselNameKey).(string)
	return name, ok
}

// GetVesselName extracts the vessel name from context, falling back to the module name.
func GetVesselName(ctx context.Context, mod api.Module) string {
	if name, ok := VesselNameFromContext(ctx); ok {
		return name
	}
	return mod.Name()
}
