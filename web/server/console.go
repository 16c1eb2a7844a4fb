package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "debug", "info", "warning", "error"
}

// ConsoleHandler is a slog.Handler that mirrors records at Info and above into
// a render's console channel and passes every record on to next
type ConsoleHandler struct {
	next        slog.Handler
	consoleChan chan<- ConsoleMessage
	attrs       []slog.Attr
	group       string
}

// NewConsoleHandler creates a handler for one render. next may be nil.
func NewConsoleHandler(next slog.Handler, consoleChan chan<- ConsoleMessage) *ConsoleHandler {
	return &ConsoleHandler{next: next, consoleChan: consoleChan}
}

func (h *ConsoleHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if level >= slog.LevelInfo && h.consoleChan != nil {
		return true
	}
	return h.next != nil && h.next.Enabled(ctx, level)
}

func (h *ConsoleHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error
	if h.next != nil && h.next.Enabled(ctx, r.Level) {
		err = h.next.Handle(ctx, r)
	}

	if h.consoleChan == nil || r.Level < slog.LevelInfo {
		return err
	}

	// Send without blocking; a full console drops the message
	select {
	case h.consoleChan <- ConsoleMessage{
		Message:   h.format(r),
		Timestamp: r.Time,
		Level:     levelName(r.Level),
	}:
	default:
	}
	return err
}

func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	h2.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	h2.attrs = append(h2.attrs, h.attrs...)
	for _, a := range attrs {
		h2.attrs = append(h2.attrs, slog.Attr{Key: h.qualify(a.Key), Value: a.Value})
	}
	if h.next != nil {
		h2.next = h.next.WithAttrs(attrs)
	}
	return &h2
}

func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.group = h.qualify(name)
	if h.next != nil {
		h2.next = h.next.WithGroup(name)
	}
	return &h2
}

func (h *ConsoleHandler) qualify(key string) string {
	if h.group == "" {
		return key
	}
	return h.group + "." + key
}

// format renders the message followed by key=value pairs. render_id is left
// out since every message on a console belongs to the same render.
func (h *ConsoleHandler) format(r slog.Record) string {
	var b strings.Builder
	b.WriteString(r.Message)

	write := func(a slog.Attr) {
		if a.Key == "render_id" || a.Equal(slog.Attr{}) {
			return
		}
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value.Resolve())
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		write(slog.Attr{Key: h.qualify(a.Key), Value: a.Value})
		return true
	})
	return b.String()
}

func levelName(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "error"
	case l >= slog.LevelWarn:
		return "warning"
	case l >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}
