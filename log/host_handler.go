package log

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vesselbridge/sdk/domain/ports"
	"github.com/vesselbridge/sdk/internal/abi"
)

// HostHandler is a slog.Handler that writes each record as one line to the
// host debug display. Lines longer than the host buffer are truncated.
type HostHandler struct {
	host   ports.Host
	prefix string
	group  string
	level  slog.Leveler
}

// NewHostHandler returns a handler writing records at or above level to host.
func NewHostHandler(host ports.Host, level slog.Leveler) *HostHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &HostHandler{host: host, level: level}
}

// Enabled implements slog.Handler.
func (h *HostHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler.
func (h *HostHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Level.String())
	b.WriteByte(' ')
	b.WriteString(r.Message)
	b.WriteString(h.prefix)
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&b, a)
		return true
	})

	line := abi.TruncateHostString(b.String())
	h.host.DebugString(&line)
	return nil
}

// WithAttrs implements slog.Handler.
func (h *HostHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	var b strings.Builder
	b.WriteString(h.prefix)
	for _, a := range attrs {
		h.appendAttr(&b, a)
	}
	next.prefix = b.String()
	return &next
}

// WithGroup implements slog.Handler.
func (h *HostHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	if h.group != "" {
		next.group = h.group + "." + name
	} else {
		next.group = name
	}
	return &next
}

func (h *HostHandler) appendAttr(b *strings.Builder, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if h.group != "" {
		key = h.group + "." + key
	}
	if a.Value.Kind() == slog.KindGroup {
		sub := *h
		sub.group = key
		for _, ga := range a.Value.Group() {
			sub.appendAttr(b, ga)
		}
		return
	}
	fmt.Fprintf(b, " %s=%v", key, a.Value.Any())
}

// DebugString formats a line and writes it to the vessel's debug display.
func DebugString(svc ports.VesselServices, format string, args ...any) {
	svc.DebugString(fmt.Sprintf(format, args...))
}

// DebugLine writes text straight to the host debug display, truncated to
// the host buffer.
func DebugLine(host ports.Host, text string) {
	line := abi.TruncateHostString(text)
	host.DebugString(&line)
}
