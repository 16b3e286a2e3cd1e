package host

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vesselbridge/sdk/hostfuncs"
)

// emptyModule is the smallest valid WASM binary: magic and version only.
var emptyModule = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

func TestNewExecutor(t *testing.T) {
	ctx := context.Background()
	e, err := NewExecutor(ctx)
	assert.NoError(t, err)
	assert.NotNil(t, e)
	if e != nil {
		err := e.Close(ctx)
		assert.NoError(t, err)
	}
}

func TestNewExecutor_WithOptions(t *testing.T) {
	ctx := context.Background()
	m, err := hostfuncs.NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	e, err := NewExecutor(ctx, WithExecutorMetrics(m), WithMaxRequestSize(4096))
	require.NoError(t, err)
	defer e.Close(ctx)

	assert.Equal(t, 4096, e.maxRequestSize)
	assert.Equal(t, 4096, e.registry.MaxRequestSize())
	assert.True(t, e.registry.Has(hostfuncs.OpCreateThrusterGroup))
}

func TestNewExecutor_CustomRegistry(t *testing.T) {
	ctx := context.Background()
	reg, err := hostfuncs.NewRegistry(hostfuncs.WithBundle(hostfuncs.VesselBundle()))
	require.NoError(t, err)

	e, err := NewExecutor(ctx, WithHostFunctions(reg))
	require.NoError(t, err)
	defer e.Close(ctx)
	assert.Same(t, reg, e.registry)
}

func TestNewExecutor_RegistryWithoutVesselOps(t *testing.T) {
	ctx := context.Background()
	reg, err := hostfuncs.NewRegistry(
		hostfuncs.WithByteHandler(hostfuncs.OpGetName, func(ctx context.Context, payload []byte) ([]byte, error) {
			return []byte(`{"name":"H1"}`), nil
		}),
	)
	require.NoError(t, err)

	_, err = NewExecutor(ctx, WithHostFunctions(reg))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lacks vessel ops")
	assert.Contains(t, err.Error(), hostfuncs.OpAddMesh)
}

func TestLoadModule_Invalid(t *testing.T) {
	ctx := context.Background()
	e, err := NewExecutor(ctx)
	require.NoError(t, err)
	defer e.Close(ctx)

	_, err = e.LoadModule(ctx, "garbage", []byte("not wasm"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to compile module garbage")
}

func TestLoadModule_MissingExports(t *testing.T) {
	ctx := context.Background()
	e, err := NewExecutor(ctx)
	require.NoError(t, err)
	defer e.Close(ctx)

	_, err = e.LoadModule(ctx, "empty", emptyModule)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing exports")
	assert.Contains(t, err.Error(), ExportInit)
	assert.Contains(t, err.Error(), "allocate")
}
