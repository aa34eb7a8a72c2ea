// Package diag is the process-wide diagnostic sink used by the core.
//
// Delivery is best-effort: Record never returns an error and never panics,
// so a broken sink cannot change the result of a computation.
package diag

import (
	"fmt"
	"sync/atomic"

	"k8s.io/klog/v2"
)

// Level is the severity of a diagnostic event.
type Level int

// Event levels.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Mode filters events before they reach the sink.
type Mode int

// Modes.
const (
	// ModeDebug forwards every event.
	ModeDebug Mode = iota
	// ModeInfo drops debug events.
	ModeInfo
	// ModeOptimized keeps only errors.
	ModeOptimized
	// ModeNone drops everything.
	ModeNone
)

// ParseMode maps "debug", "info", "optimized" or "none" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "debug":
		return ModeDebug, nil
	case "info":
		return ModeInfo, nil
	case "optimized":
		return ModeOptimized, nil
	case "none":
		return ModeNone, nil
	}
	return ModeDebug, fmt.Errorf("unknown diagnostic mode %q", s)
}

// Sink receives diagnostic events.
type Sink interface {
	Record(level Level, msg string, keysAndValues ...any)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(level Level, msg string, keysAndValues ...any)

// Record calls f.
func (f SinkFunc) Record(level Level, msg string, keysAndValues ...any) {
	f(level, msg, keysAndValues...)
}

type state struct {
	sink Sink
	mode Mode
}

var current atomic.Pointer[state]

func init() {
	current.Store(&state{sink: KlogSink{}, mode: ModeDebug})
}

// SetSink replaces the process-wide sink. A nil sink discards events.
func SetSink(s Sink) {
	if s == nil {
		s = Discard
	}
	update(func(st *state) { st.sink = s })
}

// SetMode changes the filtering mode.
func SetMode(m Mode) {
	update(func(st *state) { st.mode = m })
}

// update applies f to a copy of the current state and installs it,
// retrying if another writer got there first.
func update(f func(*state)) {
	for {
		old := current.Load()
		next := *old
		f(&next)
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Enabled reports whether an event at level would be forwarded.
func Enabled(level Level) bool {
	return allowed(current.Load().mode, level)
}

func allowed(m Mode, level Level) bool {
	switch m {
	case ModeNone:
		return false
	case ModeOptimized:
		return level >= LevelError
	case ModeInfo:
		return level >= LevelInfo
	default:
		return true
	}
}

// Record forwards an event to the sink. Panics raised by the sink are
// swallowed.
func Record(level Level, msg string, keysAndValues ...any) {
	st := current.Load()
	if !allowed(st.mode, level) {
		return
	}
	defer func() {
		_ = recover()
	}()
	st.sink.Record(level, msg, keysAndValues...)
}

// Discard drops every event.
var Discard Sink = SinkFunc(func(Level, string, ...any) {})

// KlogSink writes events through klog's structured logger.
// Debug events are emitted at V(4), info at V(2).
type KlogSink struct{}

// Record implements Sink.
func (KlogSink) Record(level Level, msg string, keysAndValues ...any) {
	switch level {
	case LevelError:
		klog.ErrorS(nil, msg, keysAndValues...)
	case LevelInfo:
		klog.V(2).InfoS(msg, keysAndValues...)
	default:
		klog.V(4).InfoS(msg, keysAndValues...)
	}
}
