package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// BatchSummary is the aggregate report emitted after directory processing.
type BatchSummary struct {
	Summary struct {
		TotalFilesProcessed int     `json:"total_files_processed"`
		SuccessfulFiles     int     `json:"successful_files"`
		FailedFiles         int     `json:"failed_files"`
		SuccessRate         float64 `json:"success_rate"`
		AverageConfidence   float64 `json:"average_confidence"`
	} `json:"summary"`
	ExtractionStats struct {
		TotalModulesExtracted int     `json:"total_modules_extracted"`
		TotalProceduralSteps  int     `json:"total_procedural_steps"`
		TotalDecisionPoints   int     `json:"total_decision_points"`
		AverageModulesPerFile float64 `json:"average_modules_per_file"`
		AverageStepsPerFile   float64 `json:"average_steps_per_file"`
	} `json:"extraction_stats"`
	ProcessingTimestamp string `json:"processing_timestamp"`
}

// ProcessDirectory runs the pipeline over every PDF in inputDir using a
// worker pool. Documents are independent; workers share only the
// read-only driver. Results are returned in discovery order together with
// the aggregate summary.
func (d *Driver) ProcessDirectory(ctx context.Context, inputDir string) ([]*Document, BatchSummary, error) {
	pattern := filepath.Join(inputDir, "*.pdf")
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, BatchSummary{}, fmt.Errorf("failed to scan input directory: %w", err)
	}
	d.logger.Info("batch processing started",
		zap.String("input_dir", inputDir),
		zap.Int("files", len(paths)),
		zap.Int("workers", d.config.MaxConcurrent))

	documents := make([]*Document, len(paths))
	errs := make([]error, len(paths))

	workers := d.config.MaxConcurrent
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				docCtx := ctx
				var cancel context.CancelFunc
				if d.config.ProcessingTimeout > 0 {
					docCtx, cancel = context.WithTimeout(ctx, d.config.ProcessingTimeout)
				}
				documents[i], errs[i] = d.Process(docCtx, paths[i])
				if cancel != nil {
					cancel()
				}
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, BatchSummary{}, fmt.Errorf("processing %s: %w", paths[i], err)
		}
	}

	summary := summarizeBatch(documents)
	d.logger.Info("batch processing completed",
		zap.Int("processed", summary.Summary.TotalFilesProcessed),
		zap.Int("failed", summary.Summary.FailedFiles))
	return documents, summary, nil
}

func summarizeBatch(documents []*Document) BatchSummary {
	var summary BatchSummary
	summary.ProcessingTimestamp = time.Now().UTC().Format(time.RFC3339)

	total := len(documents)
	summary.Summary.TotalFilesProcessed = total
	if total == 0 {
		return summary
	}

	successful := 0
	sumConfidence := 0.0
	totalModules, totalSteps, totalDecisions := 0, 0, 0
	for _, doc := range documents {
		if len(doc.Errors) == 0 {
			successful++
		}
		sumConfidence += doc.DocumentInfo.ConfidenceScore
		totalModules += len(doc.Modules)
		totalSteps += len(doc.Steps)
		totalDecisions += len(doc.Decisions)
	}

	summary.Summary.SuccessfulFiles = successful
	summary.Summary.FailedFiles = total - successful
	summary.Summary.SuccessRate = float64(successful) / float64(total)
	summary.Summary.AverageConfidence = sumConfidence / float64(total)
	summary.ExtractionStats.TotalModulesExtracted = totalModules
	summary.ExtractionStats.TotalProceduralSteps = totalSteps
	summary.ExtractionStats.TotalDecisionPoints = totalDecisions
	summary.ExtractionStats.AverageModulesPerFile = float64(totalModules) / float64(total)
	summary.ExtractionStats.AverageStepsPerFile = float64(totalSteps) / float64(total)
	return summary
}
