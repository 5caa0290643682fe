package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed(level Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return FromZap(zap.New(core)), logs
}

func TestLogger_With_PairsKeysAndValues(t *testing.T) {
	t.Parallel()

	logger, logs := observed(LevelDebug)
	logger.With("job", "builder").Info("checkpoint written", "rows", 12, "error", errors.New("disk full"), "dangling")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "builder", fields["job"])
	assert.Equal(t, int64(12), fields["rows"])
	assert.Equal(t, "disk full", fields["error"])
	assert.Contains(t, fields, "dangling")
	assert.Nil(t, fields["dangling"])
}

func TestLogger_NonStringKeyFallsBackToArg(t *testing.T) {
	t.Parallel()

	logger, logs := observed(LevelDebug)
	logger.Warn("odd", 42, "value")

	require.Equal(t, "value", logs.All()[0].ContextMap()["arg"])
}

func TestLogger_LevelFilters(t *testing.T) {
	t.Parallel()

	logger, logs := observed(LevelWarn)
	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Error("shown")

	require.Equal(t, 1, logs.Len())
	require.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
}

func TestLogger_InfoContext_AddsTraceFields(t *testing.T) {
	t.Parallel()

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger, logs := observed(LevelInfo)
	logger.InfoContext(ctx, "traced")
	logger.InfoContext(context.Background(), "untraced")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entries[0].ContextMap()["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", entries[0].ContextMap()["span_id"])
	assert.NotContains(t, entries[1].ContextMap(), "trace_id")
}

func TestNew_WritesBaseFieldsAsJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Options{Level: LevelInfo, Service: "tennis-history", Version: "v1", Env: "dev", Output: &buf})
	logger.Named("ranking").Info("ranking table updated", "dates", []int64{1705276800})

	var entry map[string]any
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ranking table updated", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "tennis-history", entry["service"])
	assert.Equal(t, "v1", entry["version"])
	assert.Equal(t, "dev", entry["env"])
	assert.Equal(t, "ranking", entry["logger"])
	assert.Contains(t, entry["caller"], "logger_test.go")
}

func TestLogger_NilReceiverUsesDefault(t *testing.T) {
	var logger *Logger
	logger.Info("dropped")
	require.NoError(t, logger.Sync())
	require.NotNil(t, logger.With("k", "v"))
}
