package wireformat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedString_String(t *testing.T) {
	var s FixedString
	copy(s[:], "hull.msh")
	assert.Equal(t, "hull.msh", s.String())

	var full FixedString
	for i := range full {
		full[i] = 'a'
	}
	assert.Len(t, full.String(), FixedStringSize)
}

func TestInvalidIndex(t *testing.T) {
	assert.Equal(t, uint32(0xFFFFFFFF), InvalidIndex)
}

func TestErrorDetail_Error(t *testing.T) {
	d := &ErrorDetail{Type: "validation", Message: "bad offset", Code: "add_mesh_with_offset"}
	assert.Equal(t, "validation: bad offset [add_mesh_with_offset]", d.Error())

	var nilDetail *ErrorDetail
	assert.Equal(t, "", nilDetail.Error())
}

func TestCreateThrusterRequestWire_JSON(t *testing.T) {
	req := CreateThrusterRequestWire{
		Pos:       [3]float64{0, 0, -4},
		Dir:       [3]float64{0, 0, 1},
		MaxThrust: 2e4,
		Isp:       3e4,
	}
	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "propellant")

	var back CreateThrusterRequestWire
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, req, back)
}
