package structuring

import (
	"fmt"

	"techdoc_pipeline/extract"
)

// Engine adjudicates candidates from the three extractor families and
// normalizes the winners into canonical records. It is stateless across
// calls; id counters are scoped to a single Merge, so re-running Merge on
// the same inputs yields identical ids.
type Engine struct{}

// NewEngine creates a merge Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Merge applies whole-kind precedence (generative > nlp > rule) and builds
// the canonical records with derived fields. Generative candidates are only
// eligible when useGenerative was set in the document's strategy. Every
// output slice is non-nil.
func (e *Engine) Merge(rule, nlp, generative CandidateSet, useGenerative bool) Merged {
	winner := func(kind extract.Kind) []extract.Candidate {
		if useGenerative && len(generative[kind]) > 0 {
			return generative[kind]
		}
		if len(nlp[kind]) > 0 {
			return nlp[kind]
		}
		return rule[kind]
	}

	return Merged{
		Modules:   buildModules(winner(extract.KindModule)),
		Steps:     buildSteps(winner(extract.KindStep)),
		Decisions: buildDecisions(winner(extract.KindDecision)),
		Equipment: buildEquipment(winner(extract.KindEquipment)),
	}
}

// recordID formats a stable per-kind id from a zero-padded counter.
func recordID(kind string, n int) string {
	return fmt.Sprintf("%s_%03d", kind, n)
}

func buildModules(candidates []extract.Candidate) []Module {
	modules := make([]Module, 0, len(candidates))
	for i, c := range candidates {
		content := c.Field("content")
		if content == "" {
			content = c.Field("description")
		}
		modules = append(modules, Module{
			ID:            recordID("module", i+1),
			Name:          c.Field("name"),
			Description:   c.Field("description"),
			Confidence:    c.Confidence,
			StartPage:     fieldInt(c.Fields, "start_page", 1),
			EndPage:       fieldInt(c.Fields, "end_page", 1),
			ContentLength: len(content),
			SubModules:    extractSubModules(content),
			Keywords:      extractKeywords(c.Field("name") + " " + content),
			Source:        c.Source,
		})
	}
	return modules
}

func buildSteps(candidates []extract.Candidate) []Step {
	steps := make([]Step, 0, len(candidates))
	for i, c := range candidates {
		description := c.Field("description")
		steps = append(steps, Step{
			ID:               recordID("step", i+1),
			ModuleID:         c.Field("module_id"),
			StepNumber:       fieldInt(c.Fields, "step_number", i+1),
			Description:      description,
			Sequence:         i + 1,
			Dependencies:     fieldStrings(c.Fields, "dependencies"),
			EstimatedTime:    fieldStringDefault(c.Fields, "estimated_time", "5 minutes"),
			RequiredTools:    fieldStrings(c.Fields, "required_tools"),
			SafetyNotes:      fieldStrings(c.Fields, "safety_notes"),
			Warnings:         extractWarnings(description),
			Complexity:       assessComplexity(description),
			ValidationChecks: extractValidationChecks(description),
			Source:           c.Source,
		})
	}
	return steps
}

func buildDecisions(candidates []extract.Candidate) []DecisionPoint {
	decisions := make([]DecisionPoint, 0, len(candidates))
	for i, c := range candidates {
		condition := c.Field("condition")
		actions := fieldStrings(c.Fields, "actions")
		decisions = append(decisions, DecisionPoint{
			ID:               recordID("decision", i+1),
			Description:      c.Field("description"),
			Condition:        condition,
			Actions:          actions,
			Priority:         fieldStringDefault(c.Fields, "priority", "medium"),
			Fallback:         fieldStringDefault(c.Fields, "fallback", "notify supervisor"),
			Triggers:         extractTriggers(condition),
			Consequences:     deriveConsequences(actions),
			RiskLevel:        assessRiskLevel(condition),
			RequiredApproval: requiresApproval(condition, actions),
			Source:           c.Source,
		})
	}
	return decisions
}

func buildEquipment(candidates []extract.Candidate) []Equipment {
	equipment := make([]Equipment, 0, len(candidates))
	for i, c := range candidates {
		name := c.Field("name")
		specifications := c.Field("specifications")
		maintenance := fieldStringDefault(c.Fields, "maintenance_requirements", "standard")
		equipment = append(equipment, Equipment{
			ID:                      recordID("equipment", i+1),
			Name:                    name,
			Type:                    fieldStringDefault(c.Fields, "type", "unknown"),
			Specifications:          specifications,
			MaintenanceRequirements: maintenance,
			CalibrationNeeded:       requiresCalibration(specifications, maintenance),
			SafetyClassification:    classifySafetyLevel(name, specifications),
			OperationalLimits:       extractOperationalLimits(specifications),
			ReplacementSchedule:     extractReplacementSchedule(specifications, maintenance),
			Source:                  c.Source,
		})
	}
	return equipment
}

// Field accessors tolerant of JSON decoding types: numbers arrive as
// float64 and lists as []any when candidates come from the generative
// extractor.

func fieldInt(fields map[string]any, key string, def int) int {
	switch v := fields[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return def
}

func fieldStringDefault(fields map[string]any, key, def string) string {
	if v, ok := fields[key].(string); ok && v != "" {
		return v
	}
	return def
}

func fieldStrings(fields map[string]any, key string) []string {
	out := []string{}
	switch v := fields[key].(type) {
	case []string:
		out = append(out, v...)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}
