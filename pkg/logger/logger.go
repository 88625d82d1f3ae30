package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// Logger is the process-wide logger. It discards everything until Init is called.
var Logger = zerolog.Nop()

type requestIDKey struct{}

// Init builds the process logger for serviceName. Development mode writes human-readable console output.
func Init(serviceName string, isDevelopment bool) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	Logger = zerolog.New(output(isDevelopment)).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()

	log.Logger = Logger
}

func output(isDevelopment bool) io.Writer {
	if !isDevelopment {
		return os.Stdout
	}
	return zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
}

// SetLevel sets the global log level. Unknown levels fall back to info.
func SetLevel(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
	Logger = Logger.Level(parsed)
}

// ContextWithRequestID attaches a request id that WithContext adds to every line
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// WithContext returns a logger carrying the request id and the active span's trace and span ids
func WithContext(ctx context.Context) *zerolog.Logger {
	fields := Logger.With()

	if requestID, ok := ctx.Value(requestIDKey{}).(string); ok {
		fields = fields.Str("request_id", requestID)
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = fields.
			Str("trace_id", sc.TraceID().String()).
			Str("span_id", sc.SpanID().String())
	}

	l := fields.Logger()
	return &l
}

// Info logs at info level with context
func Info(ctx context.Context) *zerolog.Event { return WithContext(ctx).Info() }

// Warn logs at warn level with context
func Warn(ctx context.Context) *zerolog.Event { return WithContext(ctx).Warn() }

// Error logs at error level with context
func Error(ctx context.Context) *zerolog.Event { return WithContext(ctx).Error() }

// Debug logs at debug level with context
func Debug(ctx context.Context) *zerolog.Event { return WithContext(ctx).Debug() }
