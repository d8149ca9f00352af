package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"":        LevelInfo,
		"warning": LevelWarn,
		" error ": LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNew_TextAndLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelWarn, Format: "text", Output: &buf, Component: "flow"})

	l.Info("flow.model.call", "agent", "coordinator")
	assert.Empty(t, buf.String())

	l.Warn("flow.stalled", "iterations", 10)
	out := buf.String()
	assert.Contains(t, out, "flow.stalled")
	assert.Contains(t, out, "component=flow")
	assert.Contains(t, out, "iterations=10")
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelDebug, Format: "json", Output: &buf})
	With(l, "session_id", "s-1").Debug("runner.turn")
	assert.Contains(t, buf.String(), `"session_id":"s-1"`)
	assert.Contains(t, buf.String(), `"msg":"runner.turn"`)
}

func TestWith_NoOp(t *testing.T) {
	assert.Equal(t, NoOpLogger{}, With(nil))
	assert.Equal(t, NoOpLogger{}, With(NoOpLogger{}, "k", "v"))
}
