// Package log provides slog handlers for both sides of the vessel bridge:
// WasmLogHandler ships guest records to the host's log_message function,
// and HostHandler writes records to the host debug display.
package log

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// WasmLogHandler implements slog.Handler by encoding each record as a
// LogMessageWire and passing it to a sink. On wasip1 guests the sink is the
// log_message host function.
type WasmLogHandler struct {
	sink  func([]byte)
	attrs []slog.Attr
	group string
	opts  handlerConfig
}

// HandlerOption configures the WasmLogHandler.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	sink      func([]byte)
	level     slog.Level
	addSource bool
}

func defaultHandlerConfig() handlerConfig {
	return handlerConfig{
		level: slog.LevelInfo,
		sink:  defaultSink,
	}
}

// WithLevel sets the minimum log level to report.
// Records below this level are filtered on the guest side.
func WithLevel(level slog.Level) HandlerOption {
	return func(c *handlerConfig) {
		c.level = level
	}
}

// WithSource enables reporting of source location (file/line).
func WithSource(enabled bool) HandlerOption {
	return func(c *handlerConfig) {
		c.addSource = enabled
	}
}

// WithSink replaces the destination of encoded records.
func WithSink(sink func([]byte)) HandlerOption {
	return func(c *handlerConfig) {
		if sink != nil {
			c.sink = sink
		}
	}
}

// NewHandler creates a new WasmLogHandler with the given options.
func NewHandler(opts ...HandlerOption) *WasmLogHandler {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &WasmLogHandler{opts: cfg, sink: cfg.sink}
}

// Enabled reports whether the handler handles records at the given level.
func (h *WasmLogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.level
}

// Handle encodes the record and hands it to the sink.
func (h *WasmLogHandler) Handle(_ context.Context, record slog.Record) error {
	msg := LogMessageWire{
		Level:     record.Level.String(),
		Message:   record.Message,
		Timestamp: record.Time,
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	for _, attr := range h.attrs {
		msg.Attrs = append(msg.Attrs, toLogAttrWire(attr))
	}
	record.Attrs(func(attr slog.Attr) bool {
		msg.Attrs = append(msg.Attrs, toLogAttrWire(h.qualify(attr)))
		return true
	})
	if h.opts.addSource && record.PC != 0 {
		msg.Attrs = append(msg.Attrs, toLogAttrWire(slog.Any(slog.SourceKey, source(record.PC))))
	}

	data, err := json.Marshal(msg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log: failed to marshal log message: %v, original: %s\n", err, record.Message)
		return nil
	}
	h.sink(data)
	return nil
}

// WithAttrs returns a handler that adds attrs to every record.
func (h *WasmLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, a := range attrs {
		next.attrs = append(next.attrs, h.qualify(a))
	}
	return &next
}

// WithGroup returns a handler that prefixes later attribute keys with name.
func (h *WasmLogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.group = h.qualifyKey(name)
	return &next
}

func (h *WasmLogHandler) qualify(a slog.Attr) slog.Attr {
	a.Key = h.qualifyKey(a.Key)
	return a
}

func (h *WasmLogHandler) qualifyKey(key string) string {
	if h.group == "" {
		return key
	}
	return h.group + "." + key
}
