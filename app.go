package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"techdoc_pipeline/core"
	"techdoc_pipeline/db"
	"techdoc_pipeline/logging"
	"techdoc_pipeline/metrics"
	"techdoc_pipeline/pipeline"

	"github.com/fatih/color"
	"go.uber.org/zap"
)

// application ties the pipeline driver to its output sinks: the results
// directory, the in-memory metrics store, and the history database.
type application struct {
	config *core.Config
	driver *pipeline.Driver
	store  *metrics.Store
	repo   *db.Repository
	logger *logging.Logger
}

// run processes a single PDF or every PDF in a directory, depending on what
// inputPath points at, and returns the process exit code.
func (a *application) run(ctx context.Context, inputPath string) int {
	info, err := os.Stat(inputPath)
	if err != nil {
		a.logger.Error("Cannot access input path", zap.String("path", inputPath), zap.Error(err))
		return core.ExitCodeError
	}
	if info.IsDir() {
		return a.runBatch(ctx, inputPath)
	}
	return a.runSingle(ctx, inputPath)
}

func (a *application) runSingle(ctx context.Context, path string) int {
	doc, err := a.driver.Process(ctx, path)
	if err != nil {
		a.logger.Error("Pipeline failed", zap.String("path", path), zap.Error(err))
		return core.ExitCodeError
	}

	if err := a.writeDocumentJSON(doc); err != nil {
		a.logger.Error("Failed to write result", zap.Error(err))
		return core.ExitCodeError
	}
	a.persistHistory(ctx, []*pipeline.Document{doc})
	a.printDocument(doc)

	if len(doc.Errors) > 0 {
		return core.ExitCodeError
	}
	return core.ExitCodeSuccess
}

func (a *application) runBatch(ctx context.Context, inputDir string) int {
	docs, summary, err := a.driver.ProcessDirectory(ctx, inputDir)
	if err != nil {
		a.logger.Error("Batch processing failed", zap.String("dir", inputDir), zap.Error(err))
		return core.ExitCodeError
	}
	if len(docs) == 0 {
		a.logger.Warn("No PDF files found", zap.String("dir", inputDir))
		fmt.Printf("No PDF files found in %s\n", inputDir)
		return core.ExitCodeSuccess
	}

	for _, doc := range docs {
		if err := a.writeDocumentJSON(doc); err != nil {
			a.logger.Error("Failed to write result",
				zap.String("filename", doc.DocumentInfo.Filename), zap.Error(err))
		}
	}
	if err := a.writeBatchSummary(summary); err != nil {
		a.logger.Error("Failed to write batch summary", zap.Error(err))
	}
	a.persistHistory(ctx, docs)
	a.printBatchSummary(summary)

	if summary.Summary.SuccessfulFiles == 0 {
		return core.ExitCodeError
	}
	return core.ExitCodeSuccess
}

// writeDocumentJSON writes one document's structured result next to its
// peers in the output directory, named after the source file.
func (a *application) writeDocumentJSON(doc *pipeline.Document) error {
	base := strings.TrimSuffix(doc.DocumentInfo.Filename, filepath.Ext(doc.DocumentInfo.Filename))
	outPath := filepath.Join(a.config.OutputDir, base+".json")

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result for %s: %w", doc.DocumentInfo.Filename, err)
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	a.logger.Info("Result written", zap.String("path", outPath))
	return nil
}

func (a *application) writeBatchSummary(summary pipeline.BatchSummary) error {
	outPath := filepath.Join(a.config.OutputDir, "processing_summary.json")
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding batch summary: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	return nil
}

// persistHistory records finished runs in the history database. The metrics
// store already holds timing and counts for each run, keyed by filename.
func (a *application) persistHistory(ctx context.Context, docs []*pipeline.Document) {
	byFilename := make(map[string]metrics.DocumentRecord, len(docs))
	for _, rec := range a.store.GetRecent(len(docs)) {
		byFilename[rec.Filename] = rec
	}

	for _, doc := range docs {
		rec, ok := byFilename[doc.DocumentInfo.Filename]
		if !ok {
			continue
		}
		history := db.DocumentHistory{
			RunID:          rec.ID,
			Filename:       doc.DocumentInfo.Filename,
			DocumentType:   doc.DocumentInfo.DocumentType,
			QualityLevel:   rec.QualityLevel,
			Method:         doc.DocumentInfo.ExtractionMethod,
			PageCount:      doc.DocumentInfo.PageCount,
			WordCount:      doc.DocumentInfo.WordCount,
			ModuleCount:    len(doc.Modules),
			StepCount:      len(doc.Steps),
			DecisionCount:  len(doc.Decisions),
			EquipmentCount: len(doc.Equipment),
			Confidence:     doc.DocumentInfo.ConfidenceScore,
			DurationMS:     int(rec.Duration.Milliseconds()),
			Status:         rec.Status,
			ErrorMessage:   rec.ErrorMsg,
		}
		if _, err := a.repo.InsertDocumentHistory(ctx, history); err != nil {
			a.logger.Error("Failed to persist document history",
				zap.String("filename", doc.DocumentInfo.Filename), zap.Error(err))
			continue
		}

		for _, stage := range doc.Metadata.ProcessingStages {
			for _, stageErr := range stage.Errors {
				entry := db.ErrorLogEntry{
					RunID:        rec.ID,
					Stage:        string(stage.Stage),
					ErrorMessage: stageErr,
				}
				if _, err := a.repo.InsertErrorLog(ctx, entry); err != nil {
					a.logger.Error("Failed to persist stage error",
						zap.String("run_id", rec.ID), zap.Error(err))
				}
			}
		}
	}
}

func (a *application) printDocument(doc *pipeline.Document) {
	if len(doc.Errors) > 0 {
		color.Red("✗ %s failed: %s", doc.DocumentInfo.Filename, doc.Errors[0])
		return
	}
	color.Green("✓ %s", doc.DocumentInfo.Filename)
	fmt.Printf("  type: %s  confidence: %.2f  pages: %d  words: %d\n",
		doc.DocumentInfo.DocumentType,
		doc.DocumentInfo.ConfidenceScore,
		doc.DocumentInfo.PageCount,
		doc.DocumentInfo.WordCount,
	)
	fmt.Printf("  modules: %d  steps: %d  decisions: %d  equipment: %d\n",
		len(doc.Modules), len(doc.Steps), len(doc.Decisions), len(doc.Equipment))
	if doc.Summary != "" {
		fmt.Printf("  summary: %s\n", doc.Summary)
	}
}

func (a *application) printBatchSummary(summary pipeline.BatchSummary) {
	bold := color.New(color.Bold)
	bold.Println("Batch processing complete")
	fmt.Printf("  files: %d  succeeded: %d  failed: %d  success rate: %.1f%%\n",
		summary.Summary.TotalFilesProcessed,
		summary.Summary.SuccessfulFiles,
		summary.Summary.FailedFiles,
		summary.Summary.SuccessRate*100,
	)
	fmt.Printf("  average confidence: %.2f\n", summary.Summary.AverageConfidence)
	fmt.Printf("  modules: %d  steps: %d  decisions: %d\n",
		summary.ExtractionStats.TotalModulesExtracted,
		summary.ExtractionStats.TotalProceduralSteps,
		summary.ExtractionStats.TotalDecisionPoints,
	)
}
