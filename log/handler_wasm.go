//go:build wasip1

package log

import (
	"log/slog"

	"github.com/vesselbridge/sdk/internal/abi"
)

//go:wasmimport vessel_host log_message
func hostLogMessage(messagePacked uint64)

// defaultSink passes encoded records to the host. The host reads the message
// before returning, so it is freed right after the call.
func defaultSink(data []byte) {
	packed := abi.PtrFromBytes(data)
	hostLogMessage(packed)
	abi.DeallocatePacked(packed)
}

func init() {
	slog.SetDefault(slog.New(NewHandler()))
	slog.Debug("vessel: slog handler initialized")
}
