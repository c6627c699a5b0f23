package validate

import (
	"math"
	"testing"

	"techdoc_pipeline/structuring"
)

func mergedWith(modules, steps, decisions int) structuring.Merged {
	m := structuring.Merged{
		Modules:   []structuring.Module{},
		Steps:     []structuring.Step{},
		Decisions: []structuring.DecisionPoint{},
		Equipment: []structuring.Equipment{},
	}
	for i := 0; i < modules; i++ {
		m.Modules = append(m.Modules, structuring.Module{})
	}
	for i := 0; i < steps; i++ {
		m.Steps = append(m.Steps, structuring.Step{})
	}
	for i := 0; i < decisions; i++ {
		m.Decisions = append(m.Decisions, structuring.DecisionPoint{})
	}
	return m
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestValidate_AllPresent(t *testing.T) {
	report := Validate(mergedWith(1, 1, 1))

	if !report.Valid {
		t.Errorf("Valid = false, want true; errors: %v", report.Errors)
	}
	if len(report.Errors) != 0 {
		t.Errorf("Errors = %v, want empty", report.Errors)
	}
	want := (0.8 + 0.9 + 0.7) / 3
	if !almostEqual(report.AggregateConfidence, want) {
		t.Errorf("AggregateConfidence = %f, want %f", report.AggregateConfidence, want)
	}
}

func TestValidate_EmptyDocument(t *testing.T) {
	report := Validate(mergedWith(0, 0, 0))

	if report.Valid {
		t.Error("Valid = true, want false for empty document")
	}
	if len(report.Errors) != 2 {
		t.Fatalf("Errors = %v, want exactly two", report.Errors)
	}
	if report.Errors[0] != "No modules identified" || report.Errors[1] != "No procedural_steps identified" {
		t.Errorf("Errors = %v, want the two required-kind messages", report.Errors)
	}
	want := (0.2 + 0.1 + 0.5) / 3
	if !almostEqual(report.AggregateConfidence, want) {
		t.Errorf("AggregateConfidence = %f, want %f", report.AggregateConfidence, want)
	}
}

func TestValidate_DecisionsOptional(t *testing.T) {
	report := Validate(mergedWith(1, 1, 0))

	if !report.Valid {
		t.Errorf("Valid = false, want true; decisions are optional (errors: %v)", report.Errors)
	}
	if len(report.Warnings) != 1 {
		t.Errorf("Warnings = %v, want one for absent decisions", report.Warnings)
	}
	want := (0.8 + 0.9 + 0.5) / 3
	if !almostEqual(report.AggregateConfidence, want) {
		t.Errorf("AggregateConfidence = %f, want %f", report.AggregateConfidence, want)
	}
}

func TestValidate_MissingSteps(t *testing.T) {
	report := Validate(mergedWith(1, 0, 1))

	if report.Valid {
		t.Error("Valid = true, want false when steps are missing")
	}
	if len(report.Errors) != 1 || report.Errors[0] != "No procedural_steps identified" {
		t.Errorf("Errors = %v, want only the steps error", report.Errors)
	}
}
