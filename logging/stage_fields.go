package logging

import (
	"time"

	"go.uber.org/zap"
)

// RunFields returns the fields that identify one document processing run.
// Attached once to the run logger so every stage entry carries them.
func RunFields(runID, path string) []zap.Field {
	return []zap.Field{
		zap.String("run_id", runID),
		zap.String("path", path),
	}
}

// StageResultFields describes one finished pipeline stage.
func StageResultFields(stage string, success bool, confidence float64, elapsed time.Duration) []zap.Field {
	return []zap.Field{
		zap.String("stage", stage),
		zap.Bool("success", success),
		zap.Float64("confidence", confidence),
		zap.Duration("elapsed", elapsed),
	}
}

// DocumentFields returns the standard fields describing a finished document.
func DocumentFields(filename, documentType string, confidence float64, moduleCount, stepCount int) []zap.Field {
	return []zap.Field{
		zap.String("filename", filename),
		zap.String("document_type", documentType),
		zap.Float64("confidence", confidence),
		zap.Int("modules", moduleCount),
		zap.Int("steps", stepCount),
	}
}
