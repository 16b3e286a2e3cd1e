package hostfuncs

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vesselbridge/sdk/domain/entities"
	"github.com/vesselbridge/sdk/infrastructure/simhost"
	"github.com/vesselbridge/sdk/wireformat"
)

func newBoundRegistry(t *testing.T) (*HandlerRegistry, context.Context, *simhost.Host, wireformat.Handle) {
	t.Helper()
	host := simhost.New(simhost.WithClass("ShuttlePB", nil))
	hv := host.AddVessel("H1", "ShuttlePB")

	reg, err := NewRegistry(
		WithMiddleware(PanicRecoveryMiddleware()),
		WithBundle(VesselBundle()),
	)
	require.NoError(t, err)

	ctx := WithVesselServices(context.Background(), NewServices(host, entities.VesselHandle(hv)))
	return reg, ctx, host, hv
}

func invoke[Resp any](t *testing.T, reg *HandlerRegistry, ctx context.Context, name string, req any) Resp {
	t.Helper()
	payload, err := json.Marshal(req)
	require.NoError(t, err)
	respBytes, err := reg.Invoke(ctx, name, payload)
	require.NoError(t, err)

	var resp Resp
	require.NoError(t, json.Unmarshal(respBytes, &resp), string(respBytes))
	return resp
}

func TestVesselBundle_Names(t *testing.T) {
	reg, err := NewRegistry(WithBundle(VesselBundle()))
	require.NoError(t, err)

	assert.Equal(t, []string{
		OpAddExhaust,
		OpAddMesh,
		OpAddMeshWithOffset,
		OpCreatePropellantResource,
		OpCreateThruster,
		OpCreateThrusterGroup,
		OpCreateVessel,
		OpDebugString,
		OpGetName,
		OpGetThrusterGroupLevel,
	}, reg.Names())
}

func TestVesselBundle_ConfigureSequence(t *testing.T) {
	reg, ctx, host, hv := newBoundRegistry(t)

	status := invoke[wireformat.StatusResponseWire](t, reg, ctx, OpAddMesh, wireformat.AddMeshRequestWire{Mesh: "hull.msh"})
	require.Nil(t, status.Error)
	assert.True(t, status.OK)

	tank := invoke[wireformat.HandleResponseWire](t, reg, ctx, OpCreatePropellantResource, wireformat.CreatePropellantRequestWire{Mass: 750})
	require.Nil(t, tank.Error)

	th := invoke[wireformat.HandleResponseWire](t, reg, ctx, OpCreateThruster, wireformat.CreateThrusterRequestWire{
		Pos: [3]float64{0, 0, -4}, Dir: [3]float64{0, 0, 1}, MaxThrust: 2e4, Isp: 3e4, Propellant: tank.Handle,
	})
	require.Nil(t, th.Error)
	require.NotZero(t, th.Handle)

	ex := invoke[wireformat.IndexResponseWire](t, reg, ctx, OpAddExhaust, wireformat.AddExhaustRequestWire{Thruster: th.Handle, LScale: 4, WScale: 0.5})
	require.Nil(t, ex.Error)

	group := invoke[wireformat.HandleResponseWire](t, reg, ctx, OpCreateThrusterGroup, wireformat.CreateThrusterGroupRequestWire{
		Type: "main", Thrusters: []uint64{th.Handle},
	})
	require.Nil(t, group.Error)
	require.NotZero(t, group.Handle)

	require.True(t, host.SetThrusterGroupLevel(hv, int32(entities.ThGroupMain), 0.75))
	level := invoke[wireformat.LevelResponseWire](t, reg, ctx, OpGetThrusterGroupLevel, wireformat.ThrusterGroupLevelRequestWire{Type: "main"})
	assert.Equal(t, 0.75, level.Level)

	name := invoke[wireformat.NameResponseWire](t, reg, ctx, OpGetName, struct{}{})
	assert.Equal(t, "H1", name.Name)

	dbg := invoke[wireformat.StatusResponseWire](t, reg, ctx, OpDebugString, wireformat.DebugStringRequestWire{Text: "hello"})
	assert.True(t, dbg.OK)
	assert.Equal(t, []string{"hello"}, host.DebugLines())
}

func TestVesselBundle_ErrorsCrossAsDetails(t *testing.T) {
	reg, ctx, host, _ := newBoundRegistry(t)

	resp := invoke[wireformat.StatusResponseWire](t, reg, ctx, OpAddMeshWithOffset, wireformat.AddMeshRequestWire{
		Mesh: "", Offset: &[3]float64{1, 0, 0},
	})
	require.NotNil(t, resp.Error)
	assert.Equal(t, "validation", resp.Error.Type)
	assert.Equal(t, OpAddMeshWithOffset, resp.Error.Code)
	assert.False(t, resp.OK)

	group := invoke[wireformat.HandleResponseWire](t, reg, ctx, OpCreateThrusterGroup, wireformat.CreateThrusterGroupRequestWire{Type: "main"})
	require.NotNil(t, group.Error)
	assert.Equal(t, "validation", group.Error.Type)

	group = invoke[wireformat.HandleResponseWire](t, reg, ctx, OpCreateThrusterGroup, wireformat.CreateThrusterGroupRequestWire{Type: "warp", Thrusters: []uint64{1}})
	require.NotNil(t, group.Error)
	assert.Equal(t, "type", group.Error.Details["field"])

	vessel := invoke[wireformat.HandleResponseWire](t, reg, ctx, OpCreateVessel, wireformat.CreateVesselRequestWire{Name: "H2", Class: "Unknown"})
	require.NotNil(t, vessel.Error)
	assert.Equal(t, "host", vessel.Error.Type)

	assert.Equal(t, 0, host.Calls(simhost.CallAddMesh))
	assert.Equal(t, 0, host.Calls(simhost.CallCreateThrusterGroup))
}

func TestVesselBundle_CreateVesselWithStatus(t *testing.T) {
	reg, ctx, host, hv := newBoundRegistry(t)

	resp := invoke[wireformat.HandleResponseWire](t, reg, ctx, OpCreateVessel, wireformat.CreateVesselRequestWire{
		Name:   "Voyager-1",
		Class:  "ShuttlePB",
		Status: &wireformat.VesselStatusWire{RPos: [3]float64{10, 0, 0}, RBody: uint64(hv), Fuel: 0.5},
	})
	require.Nil(t, resp.Error)

	v, ok := host.Vessel(wireformat.Handle(resp.Handle))
	require.True(t, ok)
	assert.Equal(t, "Voyager-1", v.Name)
	assert.Equal(t, wireformat.Vec3{10, 0, 0}, v.Status.RPos)
	assert.Equal(t, 0.5, v.Status.Fuel)
}

func TestVesselBundle_UnboundContext(t *testing.T) {
	reg, err := NewRegistry(WithBundle(VesselBundle()))
	require.NoError(t, err)

	resp := invoke[wireformat.StatusResponseWire](t, reg, context.Background(), OpAddMesh, wireformat.AddMeshRequestWire{Mesh: "hull.msh"})
	require.NotNil(t, resp.Error)
	assert.Equal(t, "host", resp.Error.Type)
	assert.Contains(t, resp.Error.Message, "no vessel bound")

	name := invoke[wireformat.NameResponseWire](t, reg, context.Background(), OpGetName, struct{}{})
	assert.NotNil(t, name.Error)
}

func TestVesselBundle_UnknownGroupLevelIsZero(t *testing.T) {
	reg, ctx, _, _ := newBoundRegistry(t)
	level := invoke[wireformat.LevelResponseWire](t, reg, ctx, OpGetThrusterGroupLevel, wireformat.ThrusterGroupLevelRequestWire{Type: "warp"})
	assert.Nil(t, level.Error)
	assert.Equal(t, 0.0, level.Level)
}

func TestWithHandler_AndBundle_Combined(t *testing.T) {
	type MJDResp struct {
		MJD float64 `json:"mjd"`
	}

	reg, err := NewRegistry(
		WithBundle(CombineBundles(VesselBundle())),
		WithHandler("get_mjd", func(ctx context.Context, _ struct{}) MJDResp {
			return MJDResp{MJD: 51544.5}
		}),
	)
	require.NoError(t, err)

	assert.Len(t, reg.Names(), 11)
	resp := invoke[MJDResp](t, reg, context.Background(), "get_mjd", struct{}{})
	assert.Equal(t, 51544.5, resp.MJD)
}

func TestWithBundle_Duplicate(t *testing.T) {
	_, err := NewRegistry(
		WithBundle(VesselBundle()),
		WithBundle(VesselBundle()),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate handler name")
}
