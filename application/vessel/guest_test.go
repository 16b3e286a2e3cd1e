package vessel

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vesselbridge/sdk/domain/entities"
	sdkerrors "github.com/vesselbridge/sdk/domain/errors"
	"github.com/vesselbridge/sdk/domain/ports"
	"github.com/vesselbridge/sdk/hostfuncs"
	"github.com/vesselbridge/sdk/infrastructure/simhost"
	"github.com/vesselbridge/sdk/wireformat"
)

type meshLogic struct {
	Base
	svc    ports.VesselServices
	frames int
}

func (l *meshLogic) Configure(cfg entities.ClassConfig) error {
	mesh, _ := cfg["mesh"].(string)
	return l.svc.AddMesh(mesh)
}

func (l *meshLogic) Step(entities.FrameState) error {
	l.frames++
	return nil
}

func (l *meshLogic) HandleInput(key entities.KeyCode, down bool, state *entities.KeyState) entities.KeyOutcome {
	if key == entities.KeyG && down && state.Ctrl() {
		return entities.KeyHandledStop
	}
	return entities.KeyNotHandled
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func newGuest(t *testing.T) (*Guest, *meshLogic, *simhost.Host, wireformat.Handle) {
	t.Helper()
	host := simhost.New(simhost.WithClass("ShuttlePB", nil))
	hv := host.AddVessel("H1", "ShuttlePB")

	reg, err := hostfuncs.NewRegistry(hostfuncs.WithBundle(hostfuncs.VesselBundle()))
	require.NoError(t, err)
	ctx := hostfuncs.WithVesselServices(context.Background(), hostfuncs.NewServices(host, entities.VesselHandle(hv)))

	logic := &meshLogic{}
	def := Definition{Name: "ShuttlePB", Init: func(svc ports.VesselServices) (Logic, error) {
		logic.svc = svc
		return logic, nil
	}}
	g := NewGuest(def, func(op string, payload []byte) ([]byte, error) {
		return reg.Invoke(ctx, op, payload)
	})
	return g, logic, host, hv
}

func TestGuest_Lifecycle(t *testing.T) {
	g, logic, host, hv := newGuest(t)

	require.NoError(t, g.Init(mustJSON(t, wireformat.InitRequestWire{Class: "ShuttlePB", Vessel: uint64(hv), FlightModel: 1})))
	assert.Equal(t, entities.FlightModelRealistic, logic.svc.FlightModel())

	require.NoError(t, g.Configure(mustJSON(t, wireformat.ConfigureRequestWire{Config: map[string]any{"mesh": "hull.msh"}})))
	v, ok := host.Vessel(hv)
	require.True(t, ok)
	require.Len(t, v.Meshes, 1)

	require.NoError(t, g.Step(0, 1.0/60, 51544.5))
	assert.Equal(t, 1, logic.frames)

	keys := make([]byte, 256)
	keys[entities.KeyLControl] = 0x80
	assert.Equal(t, entities.KeyHandledStop, g.HandleInput(uint32(entities.KeyG), true, keys))
	assert.Equal(t, entities.KeyNotHandled, g.HandleInput(uint32(entities.KeyG), true, nil))

	g.Exit()
	g.Exit()

	var lerr *sdkerrors.LifecycleError
	require.ErrorAs(t, g.Step(1, 1.0/60, 51544.5), &lerr)
	assert.Equal(t, "exited", lerr.State)
	require.ErrorAs(t, g.Init(mustJSON(t, wireformat.InitRequestWire{})), &lerr)
}

func TestGuest_BeforeInit(t *testing.T) {
	g, logic, _, _ := newGuest(t)

	var lerr *sdkerrors.LifecycleError
	require.ErrorAs(t, g.Configure(nil), &lerr)
	assert.Equal(t, "uninitialized", lerr.State)
	require.ErrorAs(t, g.Step(0, 0, 0), &lerr)
	assert.Equal(t, entities.KeyNotHandled, g.HandleInput(uint32(entities.KeyG), true, nil))
	assert.Zero(t, logic.frames)
	assert.NotPanics(t, g.Exit)
}

func TestGuest_DoubleInit(t *testing.T) {
	g, _, _, hv := newGuest(t)
	payload := mustJSON(t, wireformat.InitRequestWire{Vessel: uint64(hv)})

	require.NoError(t, g.Init(payload))
	var lerr *sdkerrors.LifecycleError
	require.ErrorAs(t, g.Init(payload), &lerr)
	assert.Equal(t, "initialized", lerr.State)
}

func TestGuest_BadPayloads(t *testing.T) {
	g, _, _, hv := newGuest(t)

	var werr *sdkerrors.WireFormatError
	require.ErrorAs(t, g.Init([]byte("{")), &werr)

	require.NoError(t, g.Init(mustJSON(t, wireformat.InitRequestWire{Vessel: uint64(hv)})))
	require.ErrorAs(t, g.Configure([]byte("[1,2")), &werr)
}

func TestGuest_ConfigureErrorCrosses(t *testing.T) {
	g, _, host, hv := newGuest(t)
	require.NoError(t, g.Init(mustJSON(t, wireformat.InitRequestWire{Vessel: uint64(hv)})))

	// No mesh in the config: the host side rejects the empty name.
	err := g.Configure(nil)
	var verr *sdkerrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "mesh", verr.Field)
	assert.Zero(t, host.Calls(simhost.CallAddMesh))
}
