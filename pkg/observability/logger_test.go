package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/initall/pkg/observability"
)

func spanContext(t *testing.T) context.Context {
	t.Helper()

	traceID, err := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	require.NoError(t, err)

	spanID, err := trace.SpanIDFromHex("0102030405060708")
	require.NoError(t, err)

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})

	return trace.ContextWithSpanContext(context.Background(), sc)
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var record map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	return record
}

func TestTracingHandler_InjectsTraceContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(observability.NewTracingHandler(inner, "initall", "ci", observability.ModeFix))

	ctx := observability.WithPath(spanContext(t), "pkg/__init__.py")
	logger.InfoContext(ctx, "rewrote export list")

	record := decode(t, &buf)
	assert.Equal(t, "pkg/__init__.py", record["path"])
	assert.Equal(t, "0102030405060708090a0b0c0d0e0f10", record["trace_id"])
	assert.Equal(t, "0102030405060708", record["span_id"])
	assert.Equal(t, "initall", record["service"])
	assert.Equal(t, "ci", record["env"])
	assert.Equal(t, "fix", record["mode"])
	assert.Equal(t, "pkg/__init__.py", record["path"])
}

func TestTracingHandler_NoTraceContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	inner := slog.NewJSONHandler(&buf, nil)
	logger := slog.New(observability.NewTracingHandler(inner, "initall", "", observability.ModeCheck))

	logger.InfoContext(context.Background(), "no span")

	record := decode(t, &buf)
	assert.NotContains(t, record, "trace_id")
	assert.NotContains(t, record, "env")
	assert.Equal(t, "check", record["mode"])
}

func TestPathFrom(t *testing.T) {
	t.Parallel()

	_, ok := observability.PathFrom(context.Background())
	assert.False(t, ok)

	_, ok = observability.PathFrom(observability.WithPath(context.Background(), ""))
	assert.False(t, ok)

	path, ok := observability.PathFrom(observability.WithPath(context.Background(), "a/__init__.py"))
	assert.True(t, ok)
	assert.Equal(t, "a/__init__.py", path)
}

func TestTracingHandler_GroupsKeepServiceAtTop(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	inner := slog.NewJSONHandler(&buf, nil)
	logger := slog.New(observability.NewTracingHandler(inner, "initall", "", observability.ModeCheck))

	logger.WithGroup("file").With("op", "extract").InfoContext(context.Background(), "done", "names", 3)

	record := decode(t, &buf)
	assert.Equal(t, "initall", record["service"])

	group, ok := record["file"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "extract", group["op"])
	assert.InDelta(t, 3, group["names"], 0)
}

func TestNewLogger_JSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.Writer = &buf
	cfg.Format = observability.FormatJSON
	cfg.LogLevel = slog.LevelDebug

	observability.NewLogger(cfg).DebugContext(context.Background(), "star import not expanded", "module", ".m")

	record := decode(t, &buf)
	assert.Equal(t, "star import not expanded", record["msg"])
	assert.Equal(t, "initall", record["service"])
	assert.Equal(t, ".m", record["module"])
}

func TestNewLogger_TextFormatFiltersLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.Writer = &buf

	logger := observability.NewLogger(cfg)
	logger.InfoContext(context.Background(), "hidden")
	logger.WarnContext(context.Background(), "skip root", "path", "nope")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "skip root")
	assert.Contains(t, out, "path=nope")
	assert.Contains(t, out, "initall")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{" error ", slog.LevelError},
	}

	for _, tt := range tests {
		level, err := observability.ParseLevel(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, level, tt.name)
	}

	_, err := observability.ParseLevel("loud")
	require.ErrorIs(t, err, observability.ErrUnknownLogLevel)
}
