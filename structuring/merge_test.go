package structuring

import (
	"reflect"
	"testing"

	"techdoc_pipeline/extract"
)

func candidate(kind extract.Kind, source extract.Source, fields map[string]any) extract.Candidate {
	return extract.Candidate{Kind: kind, Source: source, Confidence: 0.7, Fields: fields}
}

func stepCandidate(source extract.Source, description string) extract.Candidate {
	return candidate(extract.KindStep, source, map[string]any{"description": description})
}

func TestEngine_Merge_PrecedenceGenerativeWins(t *testing.T) {
	engine := NewEngine()

	rule := NewCandidateSet([]extract.Candidate{stepCandidate(extract.SourceRule, "rule step one here")})
	nlp := NewCandidateSet([]extract.Candidate{stepCandidate(extract.SourceNLP, "nlp step one here")})
	generative := NewCandidateSet([]extract.Candidate{
		stepCandidate(extract.SourceGenerative, "generative step one"),
		stepCandidate(extract.SourceGenerative, "generative step two"),
	})

	merged := engine.Merge(rule, nlp, generative, true)

	if len(merged.Steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(merged.Steps))
	}
	for _, s := range merged.Steps {
		if s.Source != extract.SourceGenerative {
			t.Errorf("Source = %q, want only generative records for the kind", s.Source)
		}
	}
}

func TestEngine_Merge_GenerativeIgnoredWhenDisabled(t *testing.T) {
	engine := NewEngine()

	nlp := NewCandidateSet([]extract.Candidate{stepCandidate(extract.SourceNLP, "nlp step one here")})
	generative := NewCandidateSet([]extract.Candidate{stepCandidate(extract.SourceGenerative, "generative step")})

	merged := engine.Merge(NewCandidateSet(nil), nlp, generative, false)

	if len(merged.Steps) != 1 {
		t.Fatalf("steps = %d, want 1", len(merged.Steps))
	}
	if merged.Steps[0].Source != extract.SourceNLP {
		t.Errorf("Source = %q, want nlp when generative disabled", merged.Steps[0].Source)
	}
}

func TestEngine_Merge_FallsThroughEmptySources(t *testing.T) {
	engine := NewEngine()

	rule := NewCandidateSet([]extract.Candidate{stepCandidate(extract.SourceRule, "rule step one here")})

	merged := engine.Merge(rule, NewCandidateSet(nil), NewCandidateSet(nil), true)

	if len(merged.Steps) != 1 {
		t.Fatalf("steps = %d, want 1 from rule", len(merged.Steps))
	}
	if merged.Steps[0].Source != extract.SourceRule {
		t.Errorf("Source = %q, want rule", merged.Steps[0].Source)
	}
}

func TestEngine_Merge_PerKindPrecedence(t *testing.T) {
	// Generative produced modules but no steps: modules come from
	// generative, steps fall through to nlp. No mixing within a kind.
	engine := NewEngine()

	nlp := NewCandidateSet([]extract.Candidate{
		stepCandidate(extract.SourceNLP, "nlp step one here"),
		candidate(extract.KindModule, extract.SourceNLP, map[string]any{"name": "NLP Module"}),
	})
	generative := NewCandidateSet([]extract.Candidate{
		candidate(extract.KindModule, extract.SourceGenerative, map[string]any{"name": "Gen Module"}),
	})

	merged := engine.Merge(NewCandidateSet(nil), nlp, generative, true)

	if len(merged.Modules) != 1 || merged.Modules[0].Source != extract.SourceGenerative {
		t.Errorf("modules should come from generative, got %+v", merged.Modules)
	}
	if len(merged.Steps) != 1 || merged.Steps[0].Source != extract.SourceNLP {
		t.Errorf("steps should fall through to nlp, got %+v", merged.Steps)
	}
}

func TestEngine_Merge_EmptyEverywhere(t *testing.T) {
	engine := NewEngine()

	merged := engine.Merge(NewCandidateSet(nil), NewCandidateSet(nil), NewCandidateSet(nil), true)

	if merged.Modules == nil || merged.Steps == nil || merged.Decisions == nil || merged.Equipment == nil {
		t.Error("merged slices must be non-nil even with no candidates")
	}
	if len(merged.Modules)+len(merged.Steps)+len(merged.Decisions)+len(merged.Equipment) != 0 {
		t.Error("merged output should be empty with no candidates")
	}
}

func TestEngine_Merge_IDStability(t *testing.T) {
	engine := NewEngine()
	rule := NewCandidateSet([]extract.Candidate{
		stepCandidate(extract.SourceRule, "rule step one here"),
		stepCandidate(extract.SourceRule, "rule step two here"),
		candidate(extract.KindModule, extract.SourceRule, map[string]any{"name": "Overview"}),
	})

	first := engine.Merge(rule, NewCandidateSet(nil), NewCandidateSet(nil), false)
	second := engine.Merge(rule, NewCandidateSet(nil), NewCandidateSet(nil), false)

	if !reflect.DeepEqual(first, second) {
		t.Error("re-running Merge on identical inputs must yield identical output")
	}
	if first.Steps[0].ID != "step_001" || first.Steps[1].ID != "step_002" {
		t.Errorf("step ids = %q,%q, want step_001,step_002", first.Steps[0].ID, first.Steps[1].ID)
	}
	if first.Modules[0].ID != "module_001" {
		t.Errorf("module id = %q, want module_001", first.Modules[0].ID)
	}
}

func TestBuildSteps_DerivedFields(t *testing.T) {
	candidates := []extract.Candidate{
		candidate(extract.KindStep, extract.SourceGenerative, map[string]any{
			"step_number":    float64(3), // JSON numbers decode as float64
			"description":    "Warning: do not exceed 50 psi. Verify the gauge reads zero before starting.",
			"required_tools": []any{"torque wrench"},
		}),
	}

	steps := buildSteps(candidates)
	if len(steps) != 1 {
		t.Fatalf("steps = %d, want 1", len(steps))
	}
	s := steps[0]

	if s.StepNumber != 3 {
		t.Errorf("StepNumber = %d, want 3", s.StepNumber)
	}
	if len(s.Warnings) == 0 {
		t.Error("Warnings should capture the do-not clause")
	}
	if len(s.ValidationChecks) == 0 {
		t.Error("ValidationChecks should capture the verify clause")
	}
	if !reflect.DeepEqual(s.RequiredTools, []string{"torque wrench"}) {
		t.Errorf("RequiredTools = %v, want [torque wrench]", s.RequiredTools)
	}
	if s.EstimatedTime != "5 minutes" {
		t.Errorf("EstimatedTime = %q, want default", s.EstimatedTime)
	}
}

func TestBuildDecisions_DerivedFields(t *testing.T) {
	candidates := []extract.Candidate{
		candidate(extract.KindDecision, extract.SourceNLP, map[string]any{
			"condition": "emergency pressure failure is detected",
			"actions":   []any{"halt the line", "notify supervisor"},
		}),
	}

	decisions := buildDecisions(candidates)
	if len(decisions) != 1 {
		t.Fatalf("decisions = %d, want 1", len(decisions))
	}
	d := decisions[0]

	if d.RiskLevel != "high" {
		t.Errorf("RiskLevel = %q, want high for emergency condition", d.RiskLevel)
	}
	if !d.RequiredApproval {
		t.Error("RequiredApproval should be true when an action names a supervisor")
	}
	wantConsequences := []string{"critical_stop", "notification_required"}
	if !reflect.DeepEqual(d.Consequences, wantConsequences) {
		t.Errorf("Consequences = %v, want %v", d.Consequences, wantConsequences)
	}
}

func TestBuildEquipment_DerivedFields(t *testing.T) {
	candidates := []extract.Candidate{
		candidate(extract.KindEquipment, extract.SourceGenerative, map[string]any{
			"name":                     "Safety Relief Valve",
			"specifications":           "Operating range 20 psi to 80 psi, calibration required annually. Replace every 5000 hours.",
			"maintenance_requirements": "inspect quarterly",
		}),
	}

	equipment := buildEquipment(candidates)
	if len(equipment) != 1 {
		t.Fatalf("equipment = %d, want 1", len(equipment))
	}
	eq := equipment[0]

	if !eq.CalibrationNeeded {
		t.Error("CalibrationNeeded should be true for calibration vocabulary")
	}
	if eq.SafetyClassification != "high" {
		t.Errorf("SafetyClassification = %q, want high", eq.SafetyClassification)
	}
	if eq.OperationalLimits["pressure_range"] != "20 to 80" {
		t.Errorf("pressure_range = %q, want %q", eq.OperationalLimits["pressure_range"], "20 to 80")
	}
	if eq.ReplacementSchedule != "Replace every 5000 hours" {
		t.Errorf("ReplacementSchedule = %q", eq.ReplacementSchedule)
	}
}

func TestBuildModules_KeywordsAndSubModules(t *testing.T) {
	content := "The HYDRAULIC system uses PUMP-A1.\n 2.1 Reservoir maintenance\n 2.2 Filter replacement\nHYDRAULIC lines require inspection."
	candidates := []extract.Candidate{
		candidate(extract.KindModule, extract.SourceRule, map[string]any{
			"name":    "Hydraulics",
			"content": content,
		}),
	}

	modules := buildModules(candidates)
	if len(modules) != 1 {
		t.Fatalf("modules = %d, want 1", len(modules))
	}
	m := modules[0]

	wantKeywords := []string{"HYDRAULIC", "PUMP-A1"}
	if !reflect.DeepEqual(m.Keywords, wantKeywords) {
		t.Errorf("Keywords = %v, want %v (deduplicated, order-preserving)", m.Keywords, wantKeywords)
	}
	wantSubs := []string{"Reservoir maintenance", "Filter replacement"}
	if !reflect.DeepEqual(m.SubModules, wantSubs) {
		t.Errorf("SubModules = %v, want %v", m.SubModules, wantSubs)
	}
	if m.ContentLength != len(content) {
		t.Errorf("ContentLength = %d, want %d", m.ContentLength, len(content))
	}
}

func TestAssessComplexity(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "no technical content",
			text: "wipe the surface clean",
			want: "low",
		},
		{
			name: "three matches is medium",
			text: "Install PUMP-A1 at 30 psi using the TORQUE-BAR.",
			want: "medium",
		},
		{
			name: "six matches is high",
			text: "Connect ALPHA-1 BETA-2 GAMMA-3 DELTA-4 at 10 psi and 20 psi.",
			want: "high",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := assessComplexity(tt.text); got != tt.want {
				t.Errorf("assessComplexity(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
