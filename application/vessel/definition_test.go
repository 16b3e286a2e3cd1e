package vessel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdkerrors "github.com/vesselbridge/sdk/domain/errors"
)

func TestRegister(t *testing.T) {
	resetRegistration()
	t.Cleanup(resetRegistration)

	_, err := Registered()
	require.ErrorIs(t, err, sdkerrors.ErrNotRegistered)

	Register(Definition{Name: "first", Version: "1.0.0"})
	Register(Definition{Name: "second"})

	def, err := Registered()
	require.NoError(t, err)
	assert.Equal(t, "first", def.Name)
	assert.Equal(t, "1.0.0", def.Version)
}

func TestDefinition_ConfigSchema(t *testing.T) {
	type shuttleConfig struct {
		Mesh   string  `json:"mesh" jsonschema:"required"`
		Thrust float64 `json:"thrust" jsonschema:"minimum=0"`
	}

	empty, err := Definition{}.ConfigSchema()
	require.NoError(t, err)
	assert.JSONEq(t, "{}", string(empty))

	schema, err := Definition{Config: shuttleConfig{}}.ConfigSchema()
	require.NoError(t, err)
	assert.Contains(t, string(schema), `"mesh"`)
	assert.Contains(t, string(schema), `"thrust"`)
}
