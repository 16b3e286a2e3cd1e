package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vesselbridge/sdk/application/vessel"
	"github.com/vesselbridge/sdk/domain/ports"
)

type landerConfig struct {
	Mesh string `json:"mesh"`
}

func lander(name string) vessel.Definition {
	return vessel.Definition{
		Name:   name,
		Config: landerConfig{},
		Init: func(ports.VesselServices) (vessel.Logic, error) {
			return vessel.Base{}, nil
		},
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(lander("Lander")))
	require.NoError(t, r.Register(vessel.Definition{Name: "Bare", Init: lander("").Init}))

	def, ok := r.Lookup("Lander")
	require.True(t, ok)
	assert.Equal(t, "Lander", def.Name)

	schema, ok := r.GetSchema("Lander")
	require.True(t, ok)
	assert.Contains(t, schema, `"mesh"`)

	bare, ok := r.GetSchema("Bare")
	require.True(t, ok)
	assert.Equal(t, "{}", bare)

	assert.Equal(t, []string{"Bare", "Lander"}, r.List())

	_, ok = r.Lookup("Missing")
	assert.False(t, ok)
}

func TestRegistry_Rejects(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(lander("Lander")))

	err := r.Register(lander("Lander"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	assert.Error(t, r.Register(lander("")))
	assert.Error(t, r.Register(vessel.Definition{Name: "NoInit"}))
}

func TestRegistry_NonStrict(t *testing.T) {
	r := NewRegistry(WithStrictMode(false))
	require.NoError(t, r.Register(lander("Lander")))
	assert.NoError(t, r.Register(lander("Lander")))
	assert.Len(t, r.List(), 1)
}
