//go:build wasip1

package vessel

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"

	sdkerrors "github.com/vesselbridge/sdk/domain/errors"
	"github.com/vesselbridge/sdk/internal/abi"
	_ "github.com/vesselbridge/sdk/log" // Route slog to the host
	"github.com/vesselbridge/sdk/wireformat"
)

var guest *Guest

func currentGuest() (*Guest, error) {
	if guest != nil {
		return guest, nil
	}
	def, err := Registered()
	if err != nil {
		return nil, err
	}
	guest = NewGuest(def, callWasmHost)
	return guest, nil
}

//go:wasmexport vessel_init
func _vesselInit(ptr, length uint32) uint64 {
	return handleExportedCall(func() error {
		g, err := currentGuest()
		if err != nil {
			return err
		}
		return g.Init(abi.BytesFromPtr(abi.PackPtrLen(ptr, length)))
	})
}

//go:wasmexport vessel_configure
func _vesselConfigure(ptr, length uint32) uint64 {
	return handleExportedCall(func() error {
		g, err := currentGuest()
		if err != nil {
			return err
		}
		return g.Configure(abi.BytesFromPtr(abi.PackPtrLen(ptr, length)))
	})
}

//go:wasmexport vessel_step
func _vesselStep(simt, simdt, mjd float64) uint64 {
	return handleExportedCall(func() error {
		g, err := currentGuest()
		if err != nil {
			return err
		}
		return g.Step(simt, simdt, mjd)
	})
}

//go:wasmexport vessel_handle_input
func _vesselHandleInput(key, down, ptr, length uint32) (outcome int32) {
	defer func() {
		if r := recover(); r != nil {
			abi.FreeAllTracked()
			slog.Error("vessel: panic in handle_input export", "panic", fmt.Sprint(r))
			outcome = 0
		}
	}()
	g, err := currentGuest()
	if err != nil {
		return 0
	}
	return int32(g.HandleInput(key, down != 0, abi.BytesFromPtr(abi.PackPtrLen(ptr, length))))
}

//go:wasmexport vessel_exit
func _vesselExit() {
	if guest != nil {
		guest.Exit()
	}
}

// handleExportedCall runs f, recovering panics, and returns 0 on success or
// a packed JSON ErrorDetail the host must read and deallocate.
func handleExportedCall(f func() error) (packed uint64) {
	defer func() {
		if r := recover(); r != nil {
			abi.FreeAllTracked()
			slog.Error("vessel: export panic recovered", "panic", fmt.Sprint(r))
			packed = packError(&sdkerrors.LogicPanicError{Value: r, Callback: "export", Stack: debug.Stack()})
		}
	}()

	if err := f(); err != nil {
		slog.Error("vessel: export returned error", "error", err.Error())
		return packError(err)
	}
	return 0
}

func packError(err error) uint64 {
	d := sdkerrors.ToErrorDetail(err)
	data, merr := json.Marshal(wireformat.ErrorDetail{
		Message: d.Message,
		Type:    d.Type,
		Code:    d.Code,
		Details: d.Details,
		Stack:   d.Stack,
	})
	if merr != nil {
		data = []byte(`{"message":"vessel: failed to marshal error","type":"internal"}`)
	}
	return abi.PtrFromBytes(data)
}
