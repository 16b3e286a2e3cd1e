package hostfuncs

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdkerrors "github.com/vesselbridge/sdk/domain/errors"
)

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name string
		resp ErrorResponse
		want string
	}{
		{
			name: "malformed add_mesh request",
			resp: NewValidationError("failed to unmarshal request: unexpected end of JSON input"),
			want: `{"error":"VALIDATION_ERROR","message":"failed to unmarshal request: unexpected end of JSON input","code":400}`,
		},
		{
			name: "op the host does not serve",
			resp: NewNotFoundError("set_attitude_mode"),
			want: `{"error":"NOT_FOUND","message":"unknown host function: set_attitude_mode","code":404}`,
		},
		{
			name: "oversized create_thruster_group",
			resp: NewTooLargeError(2048, 1024),
			want: `{"error":"REQUEST_TOO_LARGE","message":"request size 2048 exceeds maximum 1024 bytes","code":413}`,
		},
		{
			name: "request outside guest memory",
			resp: NewInternalError("request outside guest memory"),
			want: `{"error":"INTERNAL_ERROR","message":"request outside guest memory","code":500}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.resp.ToJSON()
			require.NotNil(t, got)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestNewPanicError(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "string", value: "thruster table corrupted", want: "panic: thruster table corrupted"},
		{name: "error", value: fmt.Errorf("group %d has no thrusters", 3), want: "panic: group 3 has no thrusters"},
		{name: "other", value: 42, want: "panic: panic recovered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := NewPanicError(tt.value)
			assert.Equal(t, "INTERNAL_ERROR", resp.Error)
			assert.Equal(t, tt.want, resp.Message)
			assert.Equal(t, 500, resp.Code)
		})
	}
}

func TestErrorResponse_DecodesAsWireError(t *testing.T) {
	// Guests decode every reply into a typed response; an ErrorResponse
	// must not be mistaken for a successful one.
	var status struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, json.Unmarshal(NewNotFoundError(OpAddMesh).ToJSON(), &status))
	assert.False(t, status.OK)
}

func TestToWireError(t *testing.T) {
	assert.Nil(t, ToWireError(nil))

	err := &sdkerrors.ValidationError{Op: OpAddMesh, Field: "mesh", Err: errors.New("value is required")}
	wire := ToWireError(err)
	require.NotNil(t, wire)
	assert.Equal(t, "validation", wire.Type)
	assert.Equal(t, OpAddMesh, wire.Code)
	assert.Equal(t, "mesh", wire.Details["field"])
	assert.Equal(t, err.Error(), wire.Message)

	hostErr := &sdkerrors.HostError{Op: OpCreateThrusterGroup, Err: sdkerrors.ErrHostRejected}
	wire = ToWireError(fmt.Errorf("configure: %w", hostErr))
	require.NotNil(t, wire)
	assert.Equal(t, "host", wire.Type)
	assert.Equal(t, OpCreateThrusterGroup, wire.Code)

	wire = ToWireError(errors.New("plain"))
	assert.Equal(t, "internal", wire.Type)
}
