package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCentralLogger(t *testing.T, cfg *LoggingConfig) (*CentralLogger, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	cl, err := newCentralLogger(cfg, &buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cl.Close() })
	return cl, &buf
}

func TestConsoleOutputOmitsTimestamp(t *testing.T) {
	t.Parallel()

	cl, buf := newTestCentralLogger(t, &LoggingConfig{DefaultLevel: "info"})
	cl.Module("gallery").Info("resolved", String("query", "Amanita muscaria"), Int("observations", 3))

	out := buf.String()
	assert.Contains(t, out, "msg=resolved")
	assert.Contains(t, out, "module=gallery")
	assert.Contains(t, out, `query="Amanita muscaria"`)
	assert.Contains(t, out, "observations=3")
	assert.NotContains(t, out, "time=")
}

func TestModuleLevelOverride(t *testing.T) {
	t.Parallel()

	cl, buf := newTestCentralLogger(t, &LoggingConfig{
		DefaultLevel: "info",
		ModuleLevels: map[string]string{"inaturalist": "debug"},
	})

	cl.Module("gallery").Debug("hidden")
	cl.Module("inaturalist").Debug("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
}

func TestTraceLevelName(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewSlogLogger(&buf, LogLevelTrace, nil)
	log.Trace("deep detail")

	assert.Contains(t, buf.String(), "level=TRACE")
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		level   LogLevel
		logFn   func(Logger)
		visible bool
	}{
		{"debug hidden at info", LogLevelInfo, func(l Logger) { l.Debug("msg") }, false},
		{"info shown at info", LogLevelInfo, func(l Logger) { l.Info("msg") }, true},
		{"warn hidden at error", LogLevelError, func(l Logger) { l.Warn("msg") }, false},
		{"error always shown", LogLevelError, func(l Logger) { l.Error("msg") }, true},
		{"explicit log level", LogLevelWarn, func(l Logger) { l.Log(LogLevelWarn, "msg") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			tt.logFn(NewSlogLogger(&buf, tt.level, time.UTC))
			assert.Equal(t, tt.visible, strings.Contains(buf.String(), "msg=msg"))
		})
	}
}

func TestWithAccumulatesFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := NewSlogLogger(&buf, LogLevelInfo, nil).Module("render")
	child := base.With(String("gallery_id", "abc12345"))

	base.Info("first")
	child.Module("map").Info("second", Error(errors.New("boom")))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.NotContains(t, lines[0], "gallery_id")
	assert.Contains(t, lines[1], "module=render.map")
	assert.Contains(t, lines[1], "gallery_id=abc12345")
	assert.Contains(t, lines[1], "error=boom")
}

func TestWithContextAddsTraceID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewSlogLogger(&buf, LogLevelInfo, nil)

	log.WithContext(WithTraceID(context.Background(), "req-1")).Info("traced")
	log.WithContext(context.Background()).Info("untraced")

	out := buf.String()
	assert.Contains(t, out, "trace_id=req-1")
	assert.Equal(t, 1, strings.Count(out, "trace_id"))
}

func TestFileOutputWritesJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "inat-gallery.log")
	cl, _ := newTestCentralLogger(t, &LoggingConfig{
		DefaultLevel: "info",
		Timezone:     "UTC",
		Console:      &ConsoleOutput{Enabled: false},
		FileOutput:   &FileOutput{Enabled: true, Path: path, Level: "info"},
	})

	cl.Module("httpserver").Info("listening", String("address", ":8080"), Duration("startup", 1500*time.Microsecond))
	require.NoError(t, cl.Flush())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var record map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &record))
	assert.Equal(t, "listening", record["msg"])
	assert.Equal(t, "httpserver", record["module"])
	assert.Equal(t, ":8080", record["address"])
	assert.Equal(t, "2ms", record["startup"])
	assert.Contains(t, record, "time")
}

func TestInvalidTimezone(t *testing.T) {
	t.Parallel()

	_, err := newCentralLogger(&LoggingConfig{Timezone: "Mars/Olympus_Mons"}, nil)
	require.Error(t, err)
}

func TestNilConfig(t *testing.T) {
	t.Parallel()

	_, err := NewCentralLogger(nil)
	require.Error(t, err)
}

func TestFloatsAreRounded(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewSlogLogger(&buf, LogLevelInfo, nil).Info("point", Float64("lat", 60.123456))
	assert.Contains(t, buf.String(), "lat=60.123")
}
