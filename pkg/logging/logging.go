// Package logging provides the structured logger shared by the CLI, the
// golden-run engine and the exporters. It is backed by zap.
package logging

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fields carries structured key/value context for a log entry.
type Fields map[string]any

// Logger is the logging interface used across the module.
type Logger interface {
	Debug(msg string, fields ...Fields)
	Info(msg string, fields ...Fields)
	Warn(msg string, fields ...Fields)
	Error(err error, msg string, fields ...Fields)
	WithFields(fields Fields) Logger
	Sync() error
}

type zapLogger struct {
	z *zap.Logger
}

var (
	defaultOnce   sync.Once
	defaultLogger Logger
)

// NewDefaultLogger returns a process-wide info level logger.
func NewDefaultLogger() Logger {
	defaultOnce.Do(func() {
		l, err := NewLogger("info")
		if err != nil {
			l = NewZapLogger(zap.NewNop())
		}
		defaultLogger = l
	})
	return defaultLogger
}

// NewLogger builds a console logger writing to stderr at the given level
// (debug, info, warn, error).
func NewLogger(level string) (Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}

	z, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return NewZapLogger(z), nil
}

// NewZapLogger wraps an existing zap logger.
func NewZapLogger(z *zap.Logger) Logger {
	return &zapLogger{z: z}
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() Logger {
	return NewZapLogger(zap.NewNop())
}

// WithFields returns the default logger with fields attached.
func WithFields(fields Fields) Logger {
	return NewDefaultLogger().WithFields(fields)
}

// Error logs err on the default logger.
func Error(err error, msg string, fields ...Fields) {
	NewDefaultLogger().Error(err, msg, fields...)
}

func (l *zapLogger) Debug(msg string, fields ...Fields) {
	l.z.Debug(msg, toZapFields(fields)...)
}

func (l *zapLogger) Info(msg string, fields ...Fields) {
	l.z.Info(msg, toZapFields(fields)...)
}

func (l *zapLogger) Warn(msg string, fields ...Fields) {
	l.z.Warn(msg, toZapFields(fields)...)
}

func (l *zapLogger) Error(err error, msg string, fields ...Fields) {
	l.z.Error(msg, append(toZapFields(fields), zap.Error(err))...)
}

func (l *zapLogger) WithFields(fields Fields) Logger {
	return &zapLogger{z: l.z.With(toZapFields([]Fields{fields})...)}
}

func (l *zapLogger) Sync() error {
	return l.z.Sync()
}

// toZapFields flattens field maps in key order so output is stable.
func toZapFields(fields []Fields) []zap.Field {
	var out []zap.Field
	for _, f := range fields {
		keys := make([]string, 0, len(f))
		for k := range f {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			out = append(out, zap.Any(k, f[k]))
		}
	}
	return out
}
