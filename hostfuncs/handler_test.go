package hostfuncs

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vesselbridge/sdk/wireformat"
)

func TestNewJSONHandler(t *testing.T) {
	levels := map[string]float64{"main": 0.75, "hover": 0.25}
	handler := NewJSONHandler(func(ctx context.Context, req wireformat.ThrusterGroupLevelRequestWire) wireformat.LevelResponseWire {
		return wireformat.LevelResponseWire{Level: levels[req.Type]}
	})

	t.Run("typed round trip", func(t *testing.T) {
		reqBytes, err := json.Marshal(wireformat.ThrusterGroupLevelRequestWire{Type: "main"})
		require.NoError(t, err)

		respBytes, err := handler(context.Background(), reqBytes)
		require.NoError(t, err)

		var resp wireformat.LevelResponseWire
		require.NoError(t, json.Unmarshal(respBytes, &resp))
		assert.Equal(t, 0.75, resp.Level)
		assert.Nil(t, resp.Error)
	})

	t.Run("malformed request becomes ErrorResponse", func(t *testing.T) {
		respBytes, err := handler(context.Background(), []byte(`{"type":`))
		require.NoError(t, err)
		require.NotNil(t, respBytes)

		var errResp ErrorResponse
		require.NoError(t, json.Unmarshal(respBytes, &errResp))
		assert.Equal(t, "VALIDATION_ERROR", errResp.Error)
		assert.Equal(t, 400, errResp.Code)
		assert.Contains(t, errResp.Message, "unmarshal")
	})

	t.Run("wrong field type becomes ErrorResponse", func(t *testing.T) {
		respBytes, err := handler(context.Background(), []byte(`{"type":3}`))
		require.NoError(t, err)

		var errResp ErrorResponse
		require.NoError(t, json.Unmarshal(respBytes, &errResp))
		assert.Equal(t, "VALIDATION_ERROR", errResp.Error)
	})
}

func TestNewJSONHandler_EmptyPayload(t *testing.T) {
	handler := NewJSONHandler(func(ctx context.Context, req wireformat.AddMeshRequestWire) wireformat.StatusResponseWire {
		return wireformat.StatusResponseWire{OK: req.Mesh == "" && req.Offset == nil}
	})

	respBytes, err := handler(context.Background(), nil)
	require.NoError(t, err)

	var resp wireformat.StatusResponseWire
	require.NoError(t, json.Unmarshal(respBytes, &resp))
	assert.True(t, resp.OK, "empty payload decodes as the zero request")
}
