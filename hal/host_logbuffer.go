//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// LogEntry is one captured log line.
type LogEntry struct {
	Time    time.Time
	Level   slog.Level
	Message string
}

// LogBuffer is a fixed-size ring of recent log lines. It is a Logger, and
// Handler exposes it to slog, so panel output and host diagnostics land in
// one pane.
type LogBuffer struct {
	mu      sync.RWMutex
	entries []LogEntry
	index   int
	count   int
	now     func() time.Time
}

func NewLogBuffer(size int) *LogBuffer {
	if size <= 0 {
		size = 1
	}
	return &LogBuffer{entries: make([]LogEntry, size), now: time.Now}
}

func (lb *LogBuffer) Add(e LogEntry) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	lb.entries[lb.index] = e
	lb.index = (lb.index + 1) % len(lb.entries)
	if lb.count < len(lb.entries) {
		lb.count++
	}
}

func (lb *LogBuffer) WriteLineString(s string) {
	lb.Add(LogEntry{Time: lb.now(), Level: slog.LevelInfo, Message: s})
}

func (lb *LogBuffer) WriteLineBytes(b []byte) {
	lb.WriteLineString(string(b))
}

// Recent returns up to max entries, newest first.
func (lb *LogBuffer) Recent(max int) []LogEntry {
	lb.mu.RLock()
	defer lb.mu.RUnlock()

	n := lb.count
	if max > 0 && max < n {
		n = max
	}
	out := make([]LogEntry, n)
	size := len(lb.entries)
	for i := 0; i < n; i++ {
		out[i] = lb.entries[(lb.index-1-i+size)%size]
	}
	return out
}

// Handler returns a slog.Handler that records into lb.
func (lb *LogBuffer) Handler(level slog.Level) slog.Handler {
	return &logBufferHandler{buf: lb, level: level}
}

type logBufferHandler struct {
	buf   *LogBuffer
	level slog.Level
	attrs []slog.Attr
}

func (h *logBufferHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *logBufferHandler) Handle(_ context.Context, r slog.Record) error {
	msg := r.Message
	for _, a := range h.attrs {
		msg += fmt.Sprintf(" %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		msg += fmt.Sprintf(" %s=%v", a.Key, a.Value)
		return true
	})
	h.buf.Add(LogEntry{Time: r.Time, Level: r.Level, Message: msg})
	return nil
}

func (h *logBufferHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &next
}

func (h *logBufferHandler) WithGroup(string) slog.Handler { return h }

// FormatLogEntry renders e as "15:04:05 [INF] message".
func FormatLogEntry(e LogEntry) string {
	var lvl string
	switch {
	case e.Level >= slog.LevelError:
		lvl = "ERR"
	case e.Level >= slog.LevelWarn:
		lvl = "WRN"
	case e.Level >= slog.LevelInfo:
		lvl = "INF"
	default:
		lvl = "DBG"
	}
	return fmt.Sprintf("%s [%s] %s", e.Time.Format("15:04:05"), lvl, e.Message)
}
