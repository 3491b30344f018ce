package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestNewWithWriter_JSONAddsTraceContext(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("LOG_LEVEL", "")

	var buf bytes.Buffer
	log := NewWithWriter(&buf)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	log.InfoContext(ctx, "project created", "project_id", 7)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "project created", record["msg"])
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", record["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", record["span_id"])
}

func TestNewWithWriter_LevelOverride(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("LOG_LEVEL", "error")

	var buf bytes.Buffer
	log := NewWithWriter(&buf)

	log.Info("dropped")
	assert.Empty(t, buf.String())

	log.Error("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestColorTextHandler_ColorsErrors(t *testing.T) {
	t.Setenv("ENV", "local")
	t.Setenv("LOG_LEVEL", "")

	var buf bytes.Buffer
	log := NewWithWriter(&buf).With("component", "db")

	log.Error("db down")
	line := buf.String()
	assert.True(t, strings.HasPrefix(line, "\x1b[31m"), line)
	assert.True(t, strings.HasSuffix(line, "\x1b[0m\n"), line)
	assert.Contains(t, line, `msg="db down"`)
	assert.Contains(t, line, "component=db")
	assert.NotContains(t, line, `\x1b`)
}

func TestColorTextHandler_LeavesInfoPlain(t *testing.T) {
	t.Setenv("ENV", "local")
	t.Setenv("LOG_LEVEL", "")

	var buf bytes.Buffer
	NewWithWriter(&buf).Info("ready")

	assert.NotContains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "msg=ready")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, parseLevel("WARNING", slog.LevelInfo))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus", slog.LevelInfo))
}
