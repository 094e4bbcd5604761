// Package obs provides the structured logging and error types shared by
// every component outside pkg/clob.
package obs

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging interface every component in this repository takes
// a dependency on, rather than a concrete *zap.Logger.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})

	With(fields ...interface{}) Logger
	WithContext(ctx context.Context) Logger
}

// StructuredLogger is the zap-backed Logger implementation used everywhere
// except tests, which may substitute a no-op logger.
type StructuredLogger struct {
	logger *zap.Logger
	fields []zap.Field
}

// Config controls how NewStructuredLogger builds its zap core.
type Config struct {
	Level   string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// DefaultConfig returns a sane default: info level, json encoding.
func DefaultConfig() Config {
	return Config{Level: "info", Encoding: "json"}
}

// NewStructuredLogger builds a logger for the named market engine or
// component. serviceName is attached as an initial field on every entry.
func NewStructuredLogger(serviceName string, cfg Config) *StructuredLogger {
	zapCfg := zap.NewProductionConfig()
	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	if cfg.Encoding == "" {
		cfg.Encoding = "json"
	}
	zapCfg.Encoding = cfg.Encoding
	zapCfg.EncoderConfig = zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	zapCfg.InitialFields = map[string]interface{}{
		"service": serviceName,
		"pid":     os.Getpid(),
	}

	logger, err := zapCfg.Build()
	if err != nil {
		logger, _ = zap.NewDevelopment()
	}

	return &StructuredLogger{logger: logger}
}

func (l *StructuredLogger) Debug(msg string, fields ...interface{}) {
	l.logger.Debug(msg, l.convert(fields...)...)
}

func (l *StructuredLogger) Info(msg string, fields ...interface{}) {
	l.logger.Info(msg, l.convert(fields...)...)
}

func (l *StructuredLogger) Warn(msg string, fields ...interface{}) {
	l.logger.Warn(msg, l.convert(fields...)...)
}

func (l *StructuredLogger) Error(msg string, fields ...interface{}) {
	l.logger.Error(msg, l.convert(fields...)...)
}

func (l *StructuredLogger) With(fields ...interface{}) Logger {
	return &StructuredLogger{
		logger: l.logger,
		fields: append(append([]zap.Field{}, l.fields...), l.convert(fields...)...),
	}
}

func (l *StructuredLogger) WithContext(ctx context.Context) Logger {
	var fields []interface{}
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

func (l *StructuredLogger) convert(fields ...interface{}) []zap.Field {
	if len(fields)%2 != 0 {
		fields = append(fields, "")
	}
	out := make([]zap.Field, 0, len(fields)/2+len(l.fields))
	out = append(out, l.fields...)
	for i := 0; i < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			key = fmt.Sprintf("field_%d", i/2)
		}
		out = append(out, zap.Any(key, fields[i+1]))
	}
	return out
}

type contextKey string

const requestIDKey contextKey = "request_id"

// WithRequestID attaches a request id to ctx for later correlation in logs.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext extracts the request id attached by WithRequestID, or
// "" if none was set.
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// LatencyLogger emits a structured latency measurement at debug level for
// a named operation.
type LatencyLogger struct {
	logger Logger
}

func NewLatencyLogger(logger Logger) *LatencyLogger {
	return &LatencyLogger{logger: logger}
}

func (ll *LatencyLogger) LogLatency(ctx context.Context, operation string, d time.Duration) {
	ll.logger.WithContext(ctx).Debug("latency",
		"operation", operation,
		"duration_us", d.Microseconds(),
	)
}
