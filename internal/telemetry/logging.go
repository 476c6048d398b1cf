package telemetry

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds a JSON slog logger that stamps records with the trace and
// span ids of the calling context.
func NewLogger(level slog.Level) *slog.Logger {
	return NewLoggerWithWriter(os.Stdout, level)
}

// NewLoggerWithWriter is NewLogger with an explicit sink, used by tests.
func NewLoggerWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	baseHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(&traceHandler{baseHandler: baseHandler})
}

// ParseLevel maps a config string onto a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type traceHandler struct {
	baseHandler slog.Handler
	groups      []string
	attrs       []slog.Attr
}

func (h *traceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.baseHandler.Enabled(ctx, level)
}

func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	traceAttrs := []slog.Attr{}
	if traceID := TraceID(ctx); traceID != "" {
		traceAttrs = append(traceAttrs, slog.String("trace_id", traceID))
	}
	if spanID := SpanID(ctx); spanID != "" {
		traceAttrs = append(traceAttrs, slog.String("span_id", spanID))
	}

	handler := h.baseHandler

	if len(traceAttrs) > 0 {
		handler = handler.WithAttrs(traceAttrs)
	}

	if len(h.attrs) > 0 {
		handler = handler.WithAttrs(h.attrs)
	}

	for _, group := range h.groups {
		handler = handler.WithGroup(group)
	}

	return handler.Handle(ctx, r)
}

func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)

	return &traceHandler{
		baseHandler: h.baseHandler,
		groups:      h.groups,
		attrs:       newAttrs,
	}
}

func (h *traceHandler) WithGroup(name string) slog.Handler {
	newGroups := make([]string, len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups[len(h.groups)] = name

	return &traceHandler{
		baseHandler: h.baseHandler,
		groups:      newGroups,
		attrs:       h.attrs,
	}
}
