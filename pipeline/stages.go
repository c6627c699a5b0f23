// Package pipeline runs the staged extraction state machine for one
// document: source text extraction, quality assessment, statistical and
// generative extraction, merging into the canonical record schema, and
// validation. Stages execute strictly in sequence; only source extraction
// failure aborts a document, every later failure degrades and continues.
package pipeline

// Stage tags one of the six fixed processing stages.
type Stage string

const (
	StagePDFExtraction Stage = "pdf_extraction"
	StageTextCleaning  Stage = "text_cleaning"
	StageNLPAnalysis   Stage = "nlp_analysis"
	StageLLMProcessing Stage = "llm_processing"
	StageStructuring   Stage = "structuring"
	StageValidation    Stage = "validation"
)

// StageResult records one stage's outcome. Immutable once produced; one
// per stage per document, in execution order.
type StageResult struct {
	Stage      Stage    `json:"stage"`
	Success    bool     `json:"success"`
	Confidence float64  `json:"confidence"`
	Errors     []string `json:"errors,omitempty"`
}

func stageOK(stage Stage, confidence float64) StageResult {
	return StageResult{Stage: stage, Success: true, Confidence: clamp(confidence)}
}

func stageFailed(stage Stage, errs ...string) StageResult {
	return StageResult{Stage: stage, Success: false, Confidence: 0, Errors: errs}
}

func clamp(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	if v < 0 {
		return 0
	}
	return v
}
