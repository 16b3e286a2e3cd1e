package wazero

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"
)

// WriteGuest copies data into memory obtained from the guest's allocate
// export and returns the packed ptr+len. Empty data packs to 0.
func WriteGuest(ctx context.Context, mod api.Module, data []byte) (uint64, error) {
	if len(data) == 0 {
		return 0, nil
	}
	allocateFn := mod.ExportedFunction("allocate")
	if allocateFn == nil {
		return 0, fmt.Errorf("guest module %s has no allocate export", mod.Name())
	}

	results, err := allocateFn.Call(ctx, uint64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("guest allocate failed: %w", err)
	}
	if len(results) == 0 || results[0] == 0 {
		return 0, fmt.Errorf("guest allocate returned no memory for %d bytes", len(data))
	}
	ptr := uint32(results[0]) //nolint:gosec // G115: WASM32 pointers are always 32-bit

	if !mod.Memory().Write(ptr, data) {
		return 0, fmt.Errorf("write of %d bytes at %#x out of guest memory range", len(data), ptr)
	}
	return packPtrLen(ptr, uint32(len(data))), nil //nolint:gosec // G115: bounded by allocate
}

// ReadGuest returns a copy of the guest memory a packed value refers to.
func ReadGuest(mod api.Module, packed uint64) ([]byte, error) {
	ptr, length := unpackPtrLen(packed)
	if ptr == 0 || length == 0 {
		return nil, nil
	}
	data, ok := mod.Memory().Read(ptr, length)
	if !ok {
		return nil, fmt.Errorf("read of %d bytes at %#x out of guest memory range", length, ptr)
	}
	out := make([]byte, length)
	copy(out, data)
	return out, nil
}

// FreeGuest releases memory the guest allocated for a packed value through
// its deallocate export. Missing exports and zero values are ignored.
func FreeGuest(ctx context.Context, mod api.Module, packed uint64) {
	ptr, length := unpackPtrLen(packed)
	if ptr == 0 {
		return
	}
	if fn := mod.ExportedFunction("deallocate"); fn != nil {
		_, _ = fn.Call(ctx, uint64(ptr), uint64(length))
	}
}

// packPtrLen packs a guest pointer and length into the i64 ABI form.
func packPtrLen(ptr, length uint32) uint64 {
	return (uint64(ptr) << 32) | uint64(length)
}

// unpackPtrLen splits a packed i64. Unlike the guest-side abi helpers it
// never panics, since the value comes from an untrusted guest.
func unpackPtrLen(packed uint64) (ptr, length uint32) {
	return uint32(packed >> 32), uint32(packed) //nolint:gosec // G115: packed halves are 32-bit
}
