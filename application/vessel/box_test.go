package vessel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vesselbridge/sdk/domain/entities"
	sdkerrors "github.com/vesselbridge/sdk/domain/errors"
	"github.com/vesselbridge/sdk/domain/ports"
)

type recordingLogic struct {
	Base
	cfg       entities.ClassConfig
	frames    []entities.FrameState
	keys      []entities.KeyCode
	outcome   entities.KeyOutcome
	panicOn   string
	stepErr   error
	dropped   int
	dropOrder *[]string
}

func (l *recordingLogic) Configure(cfg entities.ClassConfig) error {
	if l.panicOn == "configure" {
		panic("configure exploded")
	}
	l.cfg = cfg
	return nil
}

func (l *recordingLogic) Step(frame entities.FrameState) error {
	if l.panicOn == "step" {
		panic(errors.New("step exploded"))
	}
	l.frames = append(l.frames, frame)
	return l.stepErr
}

func (l *recordingLogic) HandleInput(key entities.KeyCode, down bool, state *entities.KeyState) entities.KeyOutcome {
	if l.panicOn == "input" {
		panic("input exploded")
	}
	l.keys = append(l.keys, key)
	return l.outcome
}

func (l *recordingLogic) Drop() {
	l.dropped++
	if l.dropOrder != nil {
		*l.dropOrder = append(*l.dropOrder, "drop")
	}
}

func definitionFor(l *recordingLogic) Definition {
	return Definition{
		Name: "Test",
		Init: func(ports.VesselServices) (Logic, error) { return l, nil },
	}
}

func TestNewBox_FactoryFailures(t *testing.T) {
	tests := []struct {
		name string
		def  Definition
		want string
	}{
		{
			name: "no factory",
			def:  Definition{Name: "Empty"},
			want: "no Init factory",
		},
		{
			name: "factory error",
			def: Definition{Name: "Broken", Init: func(ports.VesselServices) (Logic, error) {
				return nil, errors.New("no fuel table")
			}},
			want: "no fuel table",
		},
		{
			name: "nil logic",
			def: Definition{Name: "Nil", Init: func(ports.VesselServices) (Logic, error) {
				return nil, nil
			}},
			want: "nil logic",
		},
		{
			name: "factory panic",
			def: Definition{Name: "Panicky", Init: func(ports.VesselServices) (Logic, error) {
				panic("bad init")
			}},
			want: "bad init",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box, err := NewBox(tt.def, nil)
			require.Error(t, err)
			assert.Nil(t, box)

			var cerr *sdkerrors.ConstructionError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.def.Name, cerr.Class)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewBox_FactoryPanicIsLogicPanic(t *testing.T) {
	_, err := NewBox(Definition{Init: func(ports.VesselServices) (Logic, error) { panic("x") }}, nil)
	assert.ErrorIs(t, err, sdkerrors.ErrFaulted)
}

func TestBox_ForwardsCallbacks(t *testing.T) {
	logic := &recordingLogic{outcome: entities.KeyHandledStop}
	box, err := NewBox(definitionFor(logic), nil)
	require.NoError(t, err)

	cfg := entities.ClassConfig{"mass": 500.0}
	require.NoError(t, box.Configure(cfg))
	assert.Equal(t, cfg, logic.cfg)

	frame := entities.FrameState{SimTime: 1, SimDT: 1.0 / 60, MJD: 51544.5}
	require.NoError(t, box.Step(frame))
	assert.Equal(t, []entities.FrameState{frame}, logic.frames)

	var ks entities.KeyState
	ks[entities.KeyG] = 0x80
	assert.Equal(t, entities.KeyHandledStop, box.HandleInput(entities.KeyG, true, &ks))
	assert.Equal(t, []entities.KeyCode{entities.KeyG}, logic.keys)
	assert.Same(t, logic, box.Logic())
}

func TestBox_StepErrorDoesNotFault(t *testing.T) {
	logic := &recordingLogic{stepErr: errors.New("sensor offline")}
	box, err := NewBox(definitionFor(logic), nil)
	require.NoError(t, err)

	require.EqualError(t, box.Step(entities.FrameState{}), "sensor offline")
	assert.NoError(t, box.Fault())
	require.Error(t, box.Step(entities.FrameState{}))
	assert.Len(t, logic.frames, 2)
}

func TestBox_UnknownOutcomeIsNotHandled(t *testing.T) {
	logic := &recordingLogic{outcome: entities.KeyOutcome(7)}
	box, err := NewBox(definitionFor(logic), nil)
	require.NoError(t, err)

	assert.Equal(t, entities.KeyNotHandled, box.HandleInput(entities.KeyL, true, nil))
	assert.NoError(t, box.Fault())
}

func TestBox_PanicFaultsBox(t *testing.T) {
	logic := &recordingLogic{panicOn: "step"}
	box, err := NewBox(definitionFor(logic), nil)
	require.NoError(t, err)

	err = box.Step(entities.FrameState{SimTime: 1})
	require.Error(t, err)

	var perr *sdkerrors.LogicPanicError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "step", perr.Callback)
	assert.NotEmpty(t, perr.Stack)
	assert.ErrorIs(t, err, sdkerrors.ErrFaulted)
	assert.EqualError(t, perr.Unwrap()[1], "step exploded")

	// The logic is no longer invoked once faulted.
	logic.panicOn = ""
	assert.Same(t, perr, box.Step(entities.FrameState{SimTime: 2}))
	assert.Equal(t, entities.KeyNotHandled, box.HandleInput(entities.KeyG, true, nil))
	assert.Empty(t, logic.frames)
	assert.Empty(t, logic.keys)
	assert.ErrorIs(t, box.Configure(nil), sdkerrors.ErrFaulted)
}

func TestBox_InputPanicFaultsBox(t *testing.T) {
	logic := &recordingLogic{panicOn: "input", outcome: entities.KeyHandledStop}
	box, err := NewBox(definitionFor(logic), nil)
	require.NoError(t, err)

	assert.Equal(t, entities.KeyNotHandled, box.HandleInput(entities.KeyG, true, nil))
	assert.ErrorIs(t, box.Fault(), sdkerrors.ErrFaulted)
}

func TestBox_DropOnce(t *testing.T) {
	var order []string
	logic := &recordingLogic{dropOrder: &order}
	def := definitionFor(logic)
	def.Exit = func() { order = append(order, "exit") }

	box, err := NewBox(def, nil)
	require.NoError(t, err)

	box.Drop()
	box.Drop()

	assert.True(t, box.Dropped())
	assert.Equal(t, 1, logic.dropped)
	assert.Equal(t, []string{"exit", "drop"}, order)
	assert.Nil(t, box.Logic())
	assert.ErrorIs(t, box.Step(entities.FrameState{}), ErrDropped)
	assert.ErrorIs(t, box.Configure(nil), ErrDropped)
	assert.Equal(t, entities.KeyNotHandled, box.HandleInput(entities.KeyG, true, nil))
}

func TestBox_DropSurvivesExitPanic(t *testing.T) {
	logic := &recordingLogic{}
	def := definitionFor(logic)
	def.Exit = func() { panic("exit failed") }

	box, err := NewBox(def, nil)
	require.NoError(t, err)

	assert.NotPanics(t, box.Drop)
	assert.Equal(t, 1, logic.dropped)
}

func TestBox_NilDrop(t *testing.T) {
	var box *Box
	assert.NotPanics(t, box.Drop)
}

func TestBase_Defaults(t *testing.T) {
	var b Base
	assert.NoError(t, b.Configure(nil))
	assert.NoError(t, b.Step(entities.FrameState{}))
	assert.Equal(t, entities.KeyNotHandled, b.HandleInput(entities.KeyG, true, nil))
}
