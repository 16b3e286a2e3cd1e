package wazero

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/tetratelabs/wazero/api"

	sdklog "github.com/vesselbridge/sdk/log"
	"github.com/vesselbridge/sdk/wireformat"
)

// LogMessageHandler returns the log_message host function. Guest records
// are re-emitted through logger with the guest module's name attached.
// The guest frees the message after the call returns.
func LogMessageHandler(logger *slog.Logger) GuestImport {
	if logger == nil {
		logger = slog.Default()
	}
	return GuestImport{
		Name: wireformat.OpLogMessage,
		Handler: api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
			payload, err := ReadGuest(mod, stack[0])
			if err != nil || payload == nil {
				logger.WarnContext(ctx, "wazero: unreadable guest log message", "module", mod.Name(), "error", err)
				return
			}

			var msg sdklog.LogMessageWire
			if err := json.Unmarshal(payload, &msg); err != nil {
				logger.InfoContext(ctx, "wazero: guest log (raw)", "module", mod.Name(), "payload", string(payload))
				return
			}
			sdklog.Replay(ctx, logger, msg, slog.String("module", mod.Name()))
		}),
		ParamTypes:  []api.ValueType{api.ValueTypeI64},
		ResultTypes: []api.ValueType{},
	}
}
