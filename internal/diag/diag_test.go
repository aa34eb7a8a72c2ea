package diag

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type event struct {
	level Level
	msg   string
	kv    []any
}

func capture(t *testing.T, mode Mode) *[]event {
	t.Helper()
	var got []event
	SetSink(SinkFunc(func(level Level, msg string, kv ...any) {
		got = append(got, event{level: level, msg: msg, kv: kv})
	}))
	SetMode(mode)
	t.Cleanup(func() {
		SetSink(KlogSink{})
		SetMode(ModeDebug)
	})
	return &got
}

func TestRecord_ForwardsToSink(t *testing.T) {
	got := capture(t, ModeDebug)

	Record(LevelInfo, "hello", "k", 1)
	assert.Len(t, *got, 1)
	assert.Equal(t, LevelInfo, (*got)[0].level)
	assert.Equal(t, "hello", (*got)[0].msg)
	assert.Equal(t, []any{"k", 1}, (*got)[0].kv)
}

func TestRecord_ModeFiltering(t *testing.T) {
	tests := []struct {
		mode Mode
		want []Level
	}{
		{ModeDebug, []Level{LevelDebug, LevelInfo, LevelError}},
		{ModeInfo, []Level{LevelInfo, LevelError}},
		{ModeOptimized, []Level{LevelError}},
		{ModeNone, nil},
	}

	for _, tt := range tests {
		got := capture(t, tt.mode)
		Record(LevelDebug, "d")
		Record(LevelInfo, "i")
		Record(LevelError, "e")

		var levels []Level
		for _, e := range *got {
			levels = append(levels, e.level)
		}
		assert.Equal(t, tt.want, levels, "mode %d", tt.mode)
	}
}

func TestRecord_SinkPanicIsSwallowed(t *testing.T) {
	SetSink(SinkFunc(func(Level, string, ...any) { panic("broken sink") }))
	t.Cleanup(func() { SetSink(KlogSink{}) })

	assert.NotPanics(t, func() { Record(LevelError, "boom") })
}

func TestSetSink_NilDiscards(t *testing.T) {
	SetSink(nil)
	t.Cleanup(func() { SetSink(KlogSink{}) })

	assert.NotPanics(t, func() { Record(LevelError, "dropped") })
}

func TestSetSinkAndMode_ConcurrentUpdatesKeepBoth(t *testing.T) {
	for round := 0; round < 50; round++ {
		SetSink(Discard)
		SetMode(ModeDebug)

		var hits atomic.Int64
		sink := SinkFunc(func(Level, string, ...any) { hits.Add(1) })

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				SetSink(sink)
			}()
			go func() {
				defer wg.Done()
				SetMode(ModeOptimized)
			}()
		}
		wg.Wait()

		require.False(t, Enabled(LevelInfo), "mode update lost in round %d", round)
		Record(LevelError, "kept")
		require.Equal(t, int64(1), hits.Load(), "sink update lost in round %d", round)
	}
	t.Cleanup(func() {
		SetSink(KlogSink{})
		SetMode(ModeDebug)
	})
}

func TestEnabled(t *testing.T) {
	capture(t, ModeOptimized)
	assert.False(t, Enabled(LevelDebug))
	assert.False(t, Enabled(LevelInfo))
	assert.True(t, Enabled(LevelError))
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "debug", LevelDebug.String())
	assert.Equal(t, "info", LevelInfo.String())
	assert.Equal(t, "error", LevelError.String())
	assert.Equal(t, "unknown", Level(9).String())
}

func TestParseMode(t *testing.T) {
	for s, want := range map[string]Mode{
		"debug":     ModeDebug,
		"info":      ModeInfo,
		"optimized": ModeOptimized,
		"none":      ModeNone,
	} {
		got, err := ParseMode(s)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseMode("verbose")
	assert.Error(t, err)
}
