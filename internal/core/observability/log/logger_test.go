package log

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"":        LevelInfo,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestLoggerFieldsReachCore(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithCore(core, LevelDebug)

	l.Named("registry").With(String("scene", "menu")).Warn("duplicate entity",
		String("id", "abc"),
		Int("count", 2),
		Bool("static", true),
		Float64("x", 1.5),
		Error(errors.New("boom")),
	)

	entries := logs.All()
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, "duplicate entity", entry.Message)
	assert.Equal(t, "registry", entry.LoggerName)

	ctx := entry.ContextMap()
	assert.Equal(t, "menu", ctx["scene"])
	assert.Equal(t, "abc", ctx["id"])
	assert.Equal(t, int64(2), ctx["count"])
	assert.Equal(t, true, ctx["static"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestLogRespectsLevel(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithCore(core, LevelWarn)

	l.Log(LevelInfo, "dropped")
	l.Log(LevelError, "kept")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "kept", logs.All()[0].Message)

	l.SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, l.GetLevel())
}

func TestNopDiscards(t *testing.T) {
	l := NewNop()
	l.Info("nothing")
	l.Error("still nothing", Any("k", struct{}{}))
	assert.NoError(t, l.Sync())
}

func TestNewWritesToOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.log")
	logger, err := New(LevelInfo, "json", path)
	require.NoError(t, err)

	logger.Named("app").Info("game started", String("scene", "menu"))
	logger.Debug("dropped")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"game started"`)
	assert.Contains(t, string(data), `"scene":"menu"`)
	assert.NotContains(t, string(data), "dropped")
}
