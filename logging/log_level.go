package logging

import (
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
)

// ParseLogLevel reads the LOG_LEVEL environment variable and maps it to a
// zap level, defaulting to info when unset or unrecognised.
func ParseLogLevel() zapcore.Level {
	return ParseLogLevelString(os.Getenv("LOG_LEVEL"))
}

// ParseLogLevelString maps a level name to a zap level. Unknown names fall
// back to info.
func ParseLogLevelString(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "info", "":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}
