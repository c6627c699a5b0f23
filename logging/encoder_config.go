package logging

import (
	"time"

	"go.uber.org/zap/zapcore"
)

// Standard field names shared by the file and console encoders so log
// consumers can rely on stable keys.
const (
	FieldTime    = "ts"
	FieldLevel   = "level"
	FieldName    = "logger"
	FieldCaller  = "caller"
	FieldMessage = "msg"
	FieldStack   = "stacktrace"
)

// NewEncoderConfig returns the JSON encoder configuration used for log
// files: ISO8601 timestamps and lowercase level names.
func NewEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        FieldTime,
		LevelKey:       FieldLevel,
		NameKey:        FieldName,
		CallerKey:      FieldCaller,
		MessageKey:     FieldMessage,
		StacktraceKey:  FieldStack,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// NewConsoleEncoderConfig returns the console encoder configuration used in
// development: colored levels and a short wall-clock time.
func NewConsoleEncoderConfig() zapcore.EncoderConfig {
	ec := NewEncoderConfig()
	ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	ec.EncodeTime = shortTimeEncoder
	return ec
}

func shortTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05.000"))
}
