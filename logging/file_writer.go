package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileWriterConfig controls log file rotation.
type FileWriterConfig struct {
	// MaxSizeMB is the size at which the file is rotated.
	MaxSizeMB int
	// MaxBackups is how many rotated files are retained.
	MaxBackups int
	// MaxAgeDays is how long rotated files are retained.
	MaxAgeDays int
	// Compress gzips rotated files.
	Compress bool
}

func applyFileWriterDefaults(cfg FileWriterConfig) FileWriterConfig {
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 100
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = 5
	}
	if cfg.MaxAgeDays <= 0 {
		cfg.MaxAgeDays = 30
	}
	return cfg
}

// NewFileWriter returns a rotating write syncer with default rotation
// settings, creating parent directories as needed.
func NewFileWriter(path string) (zapcore.WriteSyncer, error) {
	return NewFileWriterWithConfig(path, applyFileWriterDefaults(FileWriterConfig{}))
}

// NewFileWriterWithConfig returns a rotating write syncer for path.
func NewFileWriterWithConfig(path string, cfg FileWriterConfig) (zapcore.WriteSyncer, error) {
	if path == "" {
		return nil, fmt.Errorf("log file path is empty")
	}
	cfg = applyFileWriterDefaults(cfg)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory %s: %w", dir, err)
		}
	}
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}
	return zapcore.AddSync(lj), nil
}
