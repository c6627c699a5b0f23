package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap/zapcore"
)

// NewMultiCore builds the zapcore.Core used by the package: a JSON core
// writing to a rotating file (when FilePath is set) teed with a console
// core writing to stderr. Both cores share the configured level.
func NewMultiCore(cfg Config) (zapcore.Core, error) {
	cores := make([]zapcore.Core, 0, 2)

	if cfg.FilePath != "" {
		fw, err := NewFileWriterWithConfig(cfg.FilePath, cfg.FileWriter)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		fileEncoder := zapcore.NewJSONEncoder(NewEncoderConfig())
		cores = append(cores, zapcore.NewCore(fileEncoder, fw, cfg.Level))
	}

	consoleEncoder := zapcore.NewConsoleEncoder(consoleEncoderConfig(cfg.Development))
	cores = append(cores, zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stderr), cfg.Level))

	if len(cores) == 1 {
		return cores[0], nil
	}
	return zapcore.NewTee(cores...), nil
}

// NewMultiCoreWithWriters is the testable variant: it tees a JSON core and
// a console core over caller-supplied sinks.
func NewMultiCoreWithWriters(fileSink, consoleSink zapcore.WriteSyncer, level zapcore.Level) zapcore.Core {
	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(NewEncoderConfig()), fileSink, level)
	consoleCore := zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig(false)), consoleSink, level)
	return zapcore.NewTee(fileCore, consoleCore)
}

func consoleEncoderConfig(development bool) zapcore.EncoderConfig {
	if development {
		return NewConsoleEncoderConfig()
	}
	ec := NewEncoderConfig()
	ec.EncodeTime = shortTimeEncoder
	return ec
}
