// Package structuring merges candidate records from the extractor families
// into the canonical output schema and computes derived attributes from
// their text.
//
// Precedence is whole-kind: for each record kind the generative candidates
// win if non-empty (and the strategy allowed the generative extractor),
// otherwise the statistical candidates, otherwise the rule-based ones.
// Partial results from two sources are never mixed within a kind.
package structuring

import (
	"techdoc_pipeline/extract"
)

// Module is a canonical document module record.
type Module struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Confidence    float64        `json:"confidence"`
	StartPage     int            `json:"start_page"`
	EndPage       int            `json:"end_page"`
	ContentLength int            `json:"content_length"`
	SubModules    []string       `json:"sub_modules"`
	Keywords      []string       `json:"keywords"`
	Source        extract.Source `json:"source"`
}

// Step is a canonical procedural step record.
type Step struct {
	ID               string         `json:"id"`
	ModuleID         string         `json:"module_id"`
	StepNumber       int            `json:"step_number"`
	Description      string         `json:"description"`
	Sequence         int            `json:"sequence"`
	Dependencies     []string       `json:"dependencies"`
	EstimatedTime    string         `json:"estimated_time"`
	RequiredTools    []string       `json:"required_tools"`
	SafetyNotes      []string       `json:"safety_notes"`
	Warnings         []string       `json:"warnings"`
	Complexity       string         `json:"complexity"`
	ValidationChecks []string       `json:"validation_checks"`
	Source           extract.Source `json:"source"`
}

// DecisionPoint is a canonical decision point record.
type DecisionPoint struct {
	ID               string         `json:"id"`
	Description      string         `json:"description"`
	Condition        string         `json:"condition"`
	Actions          []string       `json:"actions"`
	Priority         string         `json:"priority"`
	Fallback         string         `json:"fallback"`
	Triggers         []string       `json:"triggers"`
	Consequences     []string       `json:"consequences"`
	RiskLevel        string         `json:"risk_level"`
	RequiredApproval bool           `json:"required_approval"`
	Source           extract.Source `json:"source"`
}

// Equipment is a canonical equipment record.
type Equipment struct {
	ID                      string            `json:"id"`
	Name                    string            `json:"name"`
	Type                    string            `json:"type"`
	Specifications          string            `json:"specifications"`
	MaintenanceRequirements string            `json:"maintenance_requirements"`
	CalibrationNeeded       bool              `json:"calibration_needed"`
	SafetyClassification    string            `json:"safety_classification"`
	OperationalLimits       map[string]string `json:"operational_limits"`
	ReplacementSchedule     string            `json:"replacement_schedule"`
	Source                  extract.Source    `json:"source"`
}

// Merged holds the canonical records for one document, keyed by kind.
// Slices are always non-nil; a kind with no surviving candidates is an
// empty list.
type Merged struct {
	Modules   []Module        `json:"modules"`
	Steps     []Step          `json:"procedural_steps"`
	Decisions []DecisionPoint `json:"decision_points"`
	Equipment []Equipment     `json:"equipment"`
}

// CandidateSet groups one extractor family's candidates by kind.
type CandidateSet map[extract.Kind][]extract.Candidate

// NewCandidateSet builds a CandidateSet from a flat candidate list.
func NewCandidateSet(candidates []extract.Candidate) CandidateSet {
	set := make(CandidateSet)
	for _, c := range candidates {
		set[c.Kind] = append(set[c.Kind], c)
	}
	return set
}
