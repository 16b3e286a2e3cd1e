package hostfuncs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostContext_ValuesAreScopedToOneCall(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	defer cancel()

	hc := NewHostContext(parent, OpCreateThrusterGroup)
	assert.Equal(t, OpCreateThrusterGroup, hc.FunctionName())

	_, ok := hc.GetValue("thrusters")
	assert.False(t, ok)

	hc.SetValue("thrusters", 4)
	hc.SetValue("group", "main")
	n, ok := hc.GetValue("thrusters")
	require.True(t, ok)
	assert.Equal(t, 4, n)
	group, _ := hc.GetValue("group")
	assert.Equal(t, "main", group)

	// Call values stay out of the standard context chain.
	assert.Nil(t, hc.Value("thrusters"))

	next := NewHostContext(parent, OpCreateThrusterGroup)
	_, ok = next.GetValue("thrusters")
	assert.False(t, ok)

	cancel()
	assert.ErrorIs(t, hc.Err(), context.Canceled)
}

func TestHostContextFrom(t *testing.T) {
	t.Run("wraps plain context", func(t *testing.T) {
		ctx := context.Background()
		hc := HostContextFrom(ctx, "create_thruster")
		assert.Equal(t, "create_thruster", hc.FunctionName())
	})

	t.Run("returns existing HostContext for the same function", func(t *testing.T) {
		original := NewHostContext(context.Background(), "add_mesh")
		original.SetValue("marker", true)

		returned := HostContextFrom(original, "add_mesh")

		val, ok := returned.GetValue("marker")
		assert.True(t, ok)
		assert.Equal(t, true, val)
	})

	t.Run("rewraps HostContext of another function", func(t *testing.T) {
		original := NewHostContext(context.Background(), "add_mesh")
		returned := HostContextFrom(original, "get_name")
		assert.Equal(t, "get_name", returned.FunctionName())
	})
}

func TestVesselServicesContext(t *testing.T) {
	_, ok := VesselServicesFrom(context.Background())
	assert.False(t, ok)

	svc := NewServices(nil, 7)
	ctx := WithVesselServices(context.Background(), svc)
	got, ok := VesselServicesFrom(ctx)
	require.True(t, ok)
	assert.Same(t, svc, got)

	// The binding survives host-context wrapping.
	got, ok = VesselServicesFrom(NewHostContext(ctx, "get_name"))
	require.True(t, ok)
	assert.Same(t, svc, got)
}
