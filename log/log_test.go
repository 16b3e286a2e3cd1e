package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToLogAttrWire(t *testing.T) {
	tests := []struct {
		name     string
		attr     slog.Attr
		wantType string
		wantVal  string
	}{
		{
			name:     "string",
			attr:     slog.String("key", "value"),
			wantType: "string",
			wantVal:  "value",
		},
		{
			name:     "int64",
			attr:     slog.Int64("key", 123),
			wantType: "int64",
			wantVal:  "123",
		},
		{
			name:     "bool",
			attr:     slog.Bool("key", true),
			wantType: "bool",
			wantVal:  "true",
		},
		{
			name:     "float64",
			attr:     slog.Float64("key", 1.23),
			wantType: "float64",
			wantVal:  "1.230000",
		},
		{
			name:     "time",
			attr:     slog.Time("key", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
			wantType: "time",
			wantVal:  "2024-01-01T00:00:00Z",
		},
		{
			name:     "duration",
			attr:     slog.Duration("key", 1*time.Hour),
			wantType: "duration",
			wantVal:  "1h0m0s",
		},
		{
			name:     "error",
			attr:     slog.Any("key", errors.New("test error")),
			wantType: "error",
			wantVal:  "test error",
		},
		{
			name:     "nil",
			attr:     slog.Any("key", nil),
			wantType: "any",
			wantVal:  "<nil>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wire := toLogAttrWire(tt.attr)
			assert.Equal(t, tt.attr.Key, wire.Key)
			assert.Equal(t, tt.wantType, wire.Type)
			assert.Equal(t, tt.wantVal, wire.Value)
		})
	}
}

func TestToLogAttrWire_JSON(t *testing.T) {
	// Test structured object that should be serialized as JSON
	type MyStruct struct {
		Field string `json:"field"`
	}
	obj := MyStruct{Field: "data"}
	attr := slog.Any("key", obj)

	wire := toLogAttrWire(attr)
	assert.Equal(t, "key", wire.Key)
	assert.Equal(t, "json", wire.Type)

	var decoded MyStruct
	err := json.Unmarshal([]byte(wire.Value), &decoded)
	require.NoError(t, err)
	assert.Equal(t, obj, decoded)
}

func TestToLogAttrWire_LogValuer(t *testing.T) {
	// Test types that implement LogValuer
	attr := slog.Any("key", logValuer{val: "resolved"})
	wire := toLogAttrWire(attr)

	assert.Equal(t, "key", wire.Key)
	assert.Equal(t, "string", wire.Type)
	assert.Equal(t, "resolved", wire.Value)
}

type logValuer struct {
	val string
}

func (l logValuer) LogValue() slog.Value {
	return slog.StringValue(l.val)
}

func TestNewHandler_Defaults(t *testing.T) {
	h := NewHandler()
	assert.NotNil(t, h)
	assert.True(t, h.Enabled(context.TODO(), slog.LevelInfo))
	assert.False(t, h.Enabled(context.TODO(), slog.LevelDebug))
}

func TestNewHandler_Options(t *testing.T) {
	h := NewHandler(
		WithLevel(slog.LevelDebug),
		WithSource(true),
	)
	assert.NotNil(t, h)
	assert.True(t, h.Enabled(context.TODO(), slog.LevelDebug))
}

func captureHandler(opts ...HandlerOption) (*WasmLogHandler, *[]LogMessageWire) {
	var got []LogMessageWire
	sink := func(data []byte) {
		var msg LogMessageWire
		if err := json.Unmarshal(data, &msg); err == nil {
			got = append(got, msg)
		}
	}
	return NewHandler(append(opts, WithSink(sink))...), &got
}

func TestWasmLogHandler_Handle(t *testing.T) {
	h, got := captureHandler(WithLevel(slog.LevelDebug))
	logger := slog.New(h).With("vessel", "H1").WithGroup("step")

	logger.Warn("fuel low", "fuel", 0.05)

	require.Len(t, *got, 1)
	msg := (*got)[0]
	assert.Equal(t, "WARN", msg.Level)
	assert.Equal(t, "fuel low", msg.Message)
	assert.False(t, msg.Timestamp.IsZero())
	require.Len(t, msg.Attrs, 2)
	assert.Equal(t, LogAttrWire{Key: "vessel", Type: "string", Value: "H1"}, msg.Attrs[0])
	assert.Equal(t, "step.fuel", msg.Attrs[1].Key)
	assert.Equal(t, "float64", msg.Attrs[1].Type)
}

func TestWasmLogHandler_Source(t *testing.T) {
	h, got := captureHandler(WithSource(true))
	slog.New(h).Info("hello")

	require.Len(t, *got, 1)
	require.Len(t, (*got)[0].Attrs, 1)
	assert.Equal(t, slog.SourceKey, (*got)[0].Attrs[0].Key)
	assert.Contains(t, (*got)[0].Attrs[0].Value, "log_test.go")
}

func TestReplay(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	Replay(context.Background(), logger, LogMessageWire{
		Level:   "WARN",
		Message: "fuel low",
		Attrs:   []LogAttrWire{{Key: "fuel", Type: "float64", Value: "0.050000"}},
	}, slog.String("module", "surveyor"))
	Replay(context.Background(), logger, LogMessageWire{Level: "bogus", Message: "odd level"})

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, `msg="fuel low"`)
	assert.Contains(t, out, "module=surveyor")
	assert.Contains(t, out, "fuel=0.050000")
	assert.Contains(t, out, `level=INFO msg="odd level"`)
}
