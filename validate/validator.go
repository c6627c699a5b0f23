// Package validate checks the shape of merged document records and computes
// an aggregate confidence for the document.
package validate

import (
	"techdoc_pipeline/structuring"
)

// Per-kind confidence factors. Modules and procedural steps are required;
// decision points are optional and never produce an error.
const (
	modulesPresentFactor   = 0.8
	modulesAbsentFactor    = 0.2
	stepsPresentFactor     = 0.9
	stepsAbsentFactor      = 0.1
	decisionsPresentFactor = 0.7
	decisionsAbsentFactor  = 0.5
)

// Report is the outcome of validating one document's merged records.
type Report struct {
	Valid               bool     `json:"valid"`
	Errors              []string `json:"errors"`
	Warnings            []string `json:"warnings"`
	AggregateConfidence float64  `json:"aggregate_confidence"`
}

// Validate checks required record kinds and computes the aggregate
// confidence as the arithmetic mean of the per-kind factors. It never
// fails: a totally empty document yields a report with Valid=false and a
// populated error list.
func Validate(merged structuring.Merged) Report {
	report := Report{
		Errors:   []string{},
		Warnings: []string{},
	}
	var factors []float64

	if len(merged.Modules) > 0 {
		factors = append(factors, modulesPresentFactor)
	} else {
		factors = append(factors, modulesAbsentFactor)
		report.Errors = append(report.Errors, "No modules identified")
	}

	if len(merged.Steps) > 0 {
		factors = append(factors, stepsPresentFactor)
	} else {
		factors = append(factors, stepsAbsentFactor)
		report.Errors = append(report.Errors, "No procedural_steps identified")
	}

	if len(merged.Decisions) > 0 {
		factors = append(factors, decisionsPresentFactor)
	} else {
		factors = append(factors, decisionsAbsentFactor)
		report.Warnings = append(report.Warnings, "No decision_points identified")
	}

	var sum float64
	for _, f := range factors {
		sum += f
	}
	report.AggregateConfidence = sum / float64(len(factors))
	report.Valid = len(report.Errors) == 0

	return report
}
