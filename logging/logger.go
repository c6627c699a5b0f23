// Package logging provides structured, leveled logging for the pipeline.
// All output goes through zap with automatic redaction of sensitive field
// values, and is teed to a rotating JSON log file plus a human-readable
// console stream.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap.Logger and applies sensitive-field redaction before
// every write. Use Zap to obtain the underlying logger for packages that
// accept *zap.Logger directly.
type Logger struct {
	zap *zap.Logger
}

// Config controls how a Logger is constructed.
type Config struct {
	// Level is the minimum level that will be emitted.
	Level zapcore.Level
	// Development enables colored console output and caller annotations.
	Development bool
	// FilePath is the log file location. Empty disables file output.
	FilePath string
	// FileWriter overrides the rotation behaviour for the log file.
	FileWriter FileWriterConfig
}

// NewLogger builds a Logger with default rotation settings. Level is read
// from the LOG_LEVEL environment variable, defaulting to info.
func NewLogger(isDevelopment bool, logFilePath string) (*Logger, error) {
	return NewLoggerWithConfig(Config{
		Level:       ParseLogLevel(),
		Development: isDevelopment,
		FilePath:    logFilePath,
		FileWriter:  applyFileWriterDefaults(FileWriterConfig{}),
	})
}

// NewLoggerWithConfig builds a Logger from an explicit configuration.
func NewLoggerWithConfig(cfg Config) (*Logger, error) {
	core, err := NewMultiCore(cfg)
	if err != nil {
		return nil, fmt.Errorf("building log core: %w", err)
	}

	opts := []zap.Option{zap.AddStacktrace(zapcore.ErrorLevel)}
	if cfg.Development {
		opts = append(opts, zap.AddCaller(), zap.Development())
	}

	return &Logger{zap: zap.New(core, opts...)}, nil
}

// NewNopLogger returns a Logger that discards everything. Intended for tests.
func NewNopLogger() *Logger {
	return &Logger{zap: zap.NewNop()}
}

func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.zap.Debug(msg, redactFields(fields)...)
}

func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.zap.Info(msg, redactFields(fields)...)
}

func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.zap.Warn(msg, redactFields(fields)...)
}

func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.zap.Error(msg, redactFields(fields)...)
}

func (l *Logger) Fatal(msg string, fields ...zap.Field) {
	l.zap.Fatal(msg, redactFields(fields)...)
}

// With returns a child logger carrying the given fields on every entry.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{zap: l.zap.With(redactFields(fields)...)}
}

// Named adds a sub-scope name to the logger.
func (l *Logger) Named(name string) *Logger {
	return &Logger{zap: l.zap.Named(name)}
}

// Zap exposes the underlying zap logger.
func (l *Logger) Zap() *zap.Logger {
	return l.zap
}

// Sync flushes buffered entries. Call before process exit.
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

// redactFields replaces values of sensitive fields and scrubs credential
// patterns out of string values.
func redactFields(fields []zap.Field) []zap.Field {
	if len(fields) == 0 {
		return fields
	}
	out := make([]zap.Field, len(fields))
	for i, f := range fields {
		if IsSensitiveField(f.Key) {
			out[i] = zap.String(f.Key, redactedPlaceholder)
			continue
		}
		if f.Type == zapcore.StringType && ContainsSensitiveData(f.String) {
			out[i] = zap.String(f.Key, RedactSensitiveData(f.String))
			continue
		}
		out[i] = f
	}
	return out
}
