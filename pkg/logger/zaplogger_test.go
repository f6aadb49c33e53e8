package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewZapLogger_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewZapLogger("test-app", &buf)

	l.Info("cache loaded", map[string]any{"entries": 3})
	require.NoError(t, l.Stop())

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "cache loaded", line["msg"])
	assert.Equal(t, "test-app", line["app_name"])
	assert.EqualValues(t, 3, line["entries"])
	assert.Contains(t, line, "timestamp")
	assert.Contains(t, line["caller_func"], "TestNewZapLogger_WritesJSON")
}

func TestNewZapLoggerWithOptions_Level(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewZapLoggerWithOptions("test-app", Options{Level: "warn", Format: "console"}, &buf)
	require.NoError(t, err)

	l.Info("hidden")
	l.Warning("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "WARN")
}

func TestNewZapLoggerWithOptions_Invalid(t *testing.T) {
	_, err := NewZapLoggerWithOptions("test-app", Options{Level: "loud"})
	assert.Error(t, err)

	_, err = NewZapLoggerWithOptions("test-app", Options{Level: "info", Format: "xml"})
	assert.Error(t, err)
}

func TestLogger_Error(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := New("test-app", "test", core)

	l.Error(errors.New("boom"), map[string]any{"stage": "geocode"})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "boom", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, "geocode", fields["stage"])
	assert.Equal(t, "test", fields["app_zone"])
	assert.True(t, strings.Contains(fields["stack"].(string), "TestLogger_Error"))
}

func TestNewZapLoggerWithOptions_HooksGetJSON(t *testing.T) {
	var out, hook bytes.Buffer
	l, err := NewZapLoggerWithOptions("test-app", Options{Level: "info", Format: "console", Hooks: []io.Writer{&hook}}, &out)
	require.NoError(t, err)

	l.Error(errors.New("weather service error"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(hook.Bytes(), &line))
	assert.Equal(t, "error", line["level"])
	assert.Contains(t, out.String(), "ERROR")
}
