package abi

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vesselbridge/sdk/domain/entities"
	"github.com/vesselbridge/sdk/wireformat"
)

func TestToHostString(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr error
	}{
		{name: "ascii", in: "hull.msh"},
		{name: "empty", in: ""},
		{name: "max length", in: strings.Repeat("a", 255)},
		{name: "utf8", in: "Raumfähre"},
		{name: "too long", in: strings.Repeat("a", 256), wantErr: ErrStringTooLong},
		{name: "nul", in: "a\x00b", wantErr: ErrStringContainsNUL},
		{name: "invalid utf8", in: "a\xffb", wantErr: ErrStringInvalidUTF8},
		{name: "control char", in: "a\nb", wantErr: ErrStringNotPrintable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, err := ToHostString(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.in, FromHostString(&fs))
		})
	}
}

func TestToHostString_PrintableASCIIRoundTrip(t *testing.T) {
	var sb strings.Builder
	for c := byte(0x20); c < 0x7f; c++ {
		sb.WriteByte(c)
	}
	in := sb.String()

	fs, err := ToHostString(in)
	require.NoError(t, err)
	assert.Equal(t, in, FromHostString(&fs))
}

func TestTruncateHostString(t *testing.T) {
	long := strings.Repeat("x", 300)
	fs := TruncateHostString(long)
	assert.Equal(t, strings.Repeat("x", 255), fs.String())
	assert.Equal(t, byte(0), fs[255])

	fs = TruncateHostString("before\x00after")
	assert.Equal(t, "before", fs.String())

	fs = TruncateHostString("bad\xffbyte")
	assert.Equal(t, "bad?byte", fs.String())

	// 254 ASCII bytes followed by a two-byte rune: the rune must not be split.
	fs = TruncateHostString(strings.Repeat("a", 254) + "ä")
	assert.Equal(t, strings.Repeat("a", 254), fs.String())
}

func TestFromHostString_Nil(t *testing.T) {
	assert.Equal(t, "", FromHostString(nil))
}

func TestVecConversion(t *testing.T) {
	v := entities.V3(1.5, -2, math.MaxFloat64)
	hv := ToHostVec(v)
	assert.Equal(t, wireformat.Vec3{1.5, -2, math.MaxFloat64}, hv)
	assert.Equal(t, v, FromHostVec(hv))
}

func TestToHostThrusters(t *testing.T) {
	out := ToHostThrusters([]entities.ThrusterHandle{3, 1, 2})
	assert.Equal(t, []wireformat.Handle{3, 1, 2}, out)
	assert.Empty(t, ToHostThrusters(nil))
}

func TestStatusConversion(t *testing.T) {
	status := &entities.VesselStatus{
		Position: entities.V3(1, 2, 3),
		Velocity: entities.V3(0, 7800, 0),
		Fuel:     0.5,
		Ref:      9,
		Status:   1,
	}

	native := ToHostStatus(status)
	assert.Equal(t, wireformat.Vec3{1, 2, 3}, native.RPos)
	assert.Equal(t, wireformat.Handle(9), native.RBody)
	assert.Equal(t, int32(1), native.Status)

	assert.Equal(t, status, StatusFromWire(StatusToWire(status)))
	assert.Nil(t, StatusToWire(nil))
	assert.Nil(t, StatusFromWire(nil))
	assert.Equal(t, &wireformat.VesselStatus{}, ToHostStatus(nil))
}

func TestCopyKeyState(t *testing.T) {
	var buf wireformat.KeyStateBuffer
	buf[entities.KeyG] = 0x80

	ks := CopyKeyState(&buf)
	buf[entities.KeyG] = 0
	assert.True(t, ks.Pressed(entities.KeyG), "copy must not alias the host buffer")

	empty := CopyKeyState(nil)
	assert.False(t, empty.Pressed(entities.KeyG))
}
