package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLogLevelString(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"WARN", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"", zapcore.InfoLevel},
		{"  Debug  ", zapcore.DebugLevel},
		{"nonsense", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLogLevelString(tt.in); got != tt.want {
			t.Errorf("ParseLogLevelString(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseLogLevel_FromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	if got := ParseLogLevel(); got != zapcore.ErrorLevel {
		t.Errorf("ParseLogLevel() = %v, want error", got)
	}
}
