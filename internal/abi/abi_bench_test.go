package abi

import (
	"encoding/json"
	"testing"

	"github.com/vesselbridge/sdk/domain/entities"
	"github.com/vesselbridge/sdk/wireformat"
)

func BenchmarkPackUnpackRoundtrip(b *testing.B) {
	ptr := uint32(0x12345678)
	length := uint32(256)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		packed := PackPtrLen(ptr, length)
		p, l := UnpackPtrLen(packed)
		_, _ = p, l
	}
}

// BenchmarkToHostString covers the name check done on every mesh and vessel call.
func BenchmarkToHostString(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = ToHostString("ShuttleA/cockpit_vc.msh")
	}
}

func BenchmarkJSONMarshalCreateThrusterRequest(b *testing.B) {
	req := wireformat.CreateThrusterRequestWire{
		Pos:       ToHostVec(entities.V3(0, 0, -4)),
		Dir:       ToHostVec(entities.V3(0, 0, 1)),
		MaxThrust: 2e4,
		Isp:       3e4,
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = json.Marshal(req)
	}
}
