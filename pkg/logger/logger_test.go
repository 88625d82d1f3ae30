package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := Logger
	Logger = zerolog.New(&buf)
	t.Cleanup(func() { Logger = previous })
	return &buf
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	return line
}

func TestWithContext_AddsTraceAndRequestID(t *testing.T) {
	buf := capture(t)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})

	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	ctx = ContextWithRequestID(ctx, "req-1")

	Info(ctx).Msg("hello")

	line := decode(t, buf)
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, traceID.String(), line["trace_id"])
	assert.Equal(t, spanID.String(), line["span_id"])
}

func TestWithContext_PlainContext(t *testing.T) {
	buf := capture(t)

	Warn(ContextWithRequestID(context.Background(), "")).Msg("plain")

	line := decode(t, buf)
	assert.NotContains(t, line, "trace_id")
	assert.NotContains(t, line, "request_id")
	assert.Equal(t, "warn", line["level"])
}
