// Package metrics provides in-memory processing metrics for the extraction
// pipeline: per-document records, aggregate statistics, and per-type
// breakdowns.
package metrics

import "time"

// Document processing status values.
const (
	StatusSuccess    = "success"
	StatusError      = "error"
	StatusProcessing = "processing"
)

// DocumentRecord represents a single document processing run.
type DocumentRecord struct {
	// ID is the unique identifier for this processing run
	ID string `json:"id"`

	// Filename is the source document path
	Filename string `json:"filename"`

	// DocumentType is the inferred document category
	DocumentType string `json:"document_type"`

	// QualityLevel is the assessed text quality bucket
	QualityLevel string `json:"quality_level"`

	// Status indicates the outcome: "success", "error", "processing"
	Status string `json:"status"`

	// StartTime is when processing began
	StartTime time.Time `json:"start_time"`

	// EndTime is when processing completed (zero value if still running)
	EndTime time.Time `json:"end_time,omitempty"`

	// Duration is the total processing time
	Duration time.Duration `json:"duration"`

	// Confidence is the document's final confidence score
	Confidence float64 `json:"confidence"`

	// Extracted record counts
	ModuleCount    int `json:"module_count"`
	StepCount      int `json:"step_count"`
	DecisionCount  int `json:"decision_count"`
	EquipmentCount int `json:"equipment_count"`

	// ErrorMsg contains error details if Status is "error"
	ErrorMsg string `json:"error_msg,omitempty"`
}

// DocumentStats holds aggregated processing statistics.
type DocumentStats struct {
	TotalDocuments    int64         `json:"total_documents"`
	SuccessCount      int64         `json:"success_count"`
	ErrorCount        int64         `json:"error_count"`
	SuccessRate       float64       `json:"success_rate"`
	AverageConfidence float64       `json:"average_confidence"`
	AverageDuration   time.Duration `json:"average_duration"`
	TotalModules      int64         `json:"total_modules"`
	TotalSteps        int64         `json:"total_steps"`
	TotalDecisions    int64         `json:"total_decisions"`
	TotalEquipment    int64         `json:"total_equipment"`
}

// TypeStats holds per-document-type aggregation.
type TypeStats struct {
	Count             int64         `json:"count"`
	SuccessCount      int64         `json:"success_count"`
	AverageConfidence float64       `json:"average_confidence"`
	AverageDuration   time.Duration `json:"average_duration"`
}
