package terminal

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogBuffer(t *testing.T) {
	lb := NewLogBuffer(3)
	assert.Nil(t, lb.GetRecent(0))

	for _, msg := range []string{"a", "b", "c", "d"} {
		lb.Add(LogEntry{Message: msg})
	}

	recent := lb.GetRecent(0)
	require.Len(t, recent, 3)
	assert.Equal(t, "d", recent[0].Message)
	assert.Equal(t, "c", recent[1].Message)
	assert.Equal(t, "b", recent[2].Message)

	recent = lb.GetRecent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "d", recent[0].Message)
}

func TestLogBufferHandler(t *testing.T) {
	lb := NewLogBuffer(10)
	logger := slog.New(NewLogBufferHandler(lb, slog.LevelInfo))

	logger.Debug("hidden")
	logger.With("rom", "tetris").Info("loaded", "banks", 2)
	logger.Warn("odd")

	recent := lb.GetRecent(0)
	require.Len(t, recent, 2)
	assert.Equal(t, "odd", recent[0].Message)
	assert.Equal(t, slog.LevelWarn, recent[0].Level)
	assert.Equal(t, "loaded rom=tetris banks=2", recent[1].Message)
}

func TestFormatLogEntry(t *testing.T) {
	ts := time.Date(2024, 1, 1, 13, 4, 5, 0, time.UTC)
	testCases := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelDebug, "13:04:05 [DBG] msg"},
		{slog.LevelInfo, "13:04:05 [INF] msg"},
		{slog.LevelWarn, "13:04:05 [WRN] msg"},
		{slog.LevelError, "13:04:05 [ERR] msg"},
	}
	for _, tC := range testCases {
		t.Run(tC.want, func(t *testing.T) {
			assert.Equal(t, tC.want, FormatLogEntry(LogEntry{Time: ts, Level: tC.level, Message: "msg"}))
		})
	}
}
