package tui

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"strings"
)

// LogPanelHandler is an slog.Handler that feeds a LogPanelModel.
type LogPanelHandler struct {
	panel *LogPanelModel
	level slog.Leveler
	attrs []slog.Attr
	group string
}

// NewLogPanelHandler returns a handler writing records at or above level to
// panel. A nil level means slog.LevelInfo.
func NewLogPanelHandler(panel *LogPanelModel, level slog.Leveler) *LogPanelHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &LogPanelHandler{panel: panel, level: level}
}

func (h *LogPanelHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *LogPanelHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	write := func(a slog.Attr) {
		if a.Equal(slog.Attr{}) {
			return
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(a.Key)
		sb.WriteByte('=')
		sb.WriteString(a.Value.String())
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		write(h.qualify(a))
		return true
	})

	h.panel.add(LogEntry{
		Time:    r.Time,
		Level:   levelFromSlog(r.Level),
		Message: strings.TrimRight(r.Message, "\n\r"),
		Attrs:   sb.String(),
	})
	return nil
}

// qualify resolves a and prefixes its key with the handler's group.
func (h *LogPanelHandler) qualify(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()
	if h.group != "" && a.Key != "" {
		a.Key = h.group + "." + a.Key
	}
	return a
}

func (h *LogPanelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	h2.attrs = h.attrs[:len(h.attrs):len(h.attrs)]
	for _, a := range attrs {
		h2.attrs = append(h2.attrs, h.qualify(a))
	}
	return &h2
}

func (h *LogPanelHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	if h2.group != "" {
		name = h2.group + "." + name
	}
	h2.group = name
	return &h2
}

// TeeHandler fans records out to several handlers.
type TeeHandler []slog.Handler

// NewTeeHandler returns a handler writing to every non-nil handler in hs.
func NewTeeHandler(hs ...slog.Handler) TeeHandler {
	out := make(TeeHandler, 0, len(hs))
	for _, h := range hs {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

func (t TeeHandler) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (t TeeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (t TeeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(TeeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t TeeHandler) WithGroup(name string) slog.Handler {
	out := make(TeeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}

// InitLogging silences the standard library logger, which would otherwise
// write over the alternate screen. Call this early in main.
func InitLogging() {
	log.SetOutput(io.Discard)
	log.SetFlags(0)
}
