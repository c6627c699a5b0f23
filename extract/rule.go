package extract

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Base confidence for rule-based extraction. Deterministic pattern matches
// are reliable when they hit but miss anything the patterns don't cover.
const ruleBaseConfidence = 0.5

var (
	// Numbered or labelled procedural steps.
	ruleStepLabelled = regexp.MustCompile(`(?i)\b(?:step|procedure)\s+(\d+)[.:]?\s*([^.!?\n]+[.!?])`)
	ruleStepNumbered = regexp.MustCompile(`(?m)^\s*(\d+)[.)]\s*([^.!?\n]+[.!?]?)$`)
	// Imperative maintenance sentences without an explicit number.
	ruleStepImperative = regexp.MustCompile(`(?im)^(?:conduct|perform|inspect|remove|install|replace|clean|apply|measure|lubricate|tighten|adjust)\b[^.!?\n]*[.!?]?$`)

	// Module headings: chapter/section labels, numbered headings, all-caps lines.
	ruleModuleChapter  = regexp.MustCompile(`(?im)^(?:chapter|section|part)\s+\d+\s*[:.\-]?\s*(\S[^\n]*)$`)
	ruleModuleNumbered = regexp.MustCompile(`(?m)^\s*(\d+\.\s*[A-Z][^.!?\n]*)$`)
	ruleModuleCaps     = regexp.MustCompile(`(?m)^\s*([A-Z][A-Z\s]{3,})$`)

	// Conditional decision constructs.
	ruleDecisionIf    = regexp.MustCompile(`(?i)\b(?:if|when)\s+([^.!?\n]+?)\s*[,]?\s+(?:then|proceed|stop|halt)`)
	ruleDecisionCheck = regexp.MustCompile(`(?i)\b(?:check|verify)\s+([^.!?\n]+?)\s+(?:before|prior)`)

	// Equipment identifiers: all-caps designators and model numbers.
	ruleEquipmentCaps  = regexp.MustCompile(`\b([A-Z][A-Z0-9\-]{2,})\b`)
	ruleEquipmentModel = regexp.MustCompile(`\b([A-Z]{2,}\d{2,})\b`)
)

// RuleExtractor performs deterministic regex and heuristic matching. It is
// always available and serves as the fallback target for the statistical
// and generative extractors.
type RuleExtractor struct{}

// NewRuleExtractor creates a RuleExtractor. It holds no state.
func NewRuleExtractor() *RuleExtractor {
	return &RuleExtractor{}
}

// Extract returns rule-matched candidates for the given kind.
// An unknown kind is a contract violation.
func (e *RuleExtractor) Extract(ctx context.Context, text string, kind Kind) (Result, error) {
	if !validKind(kind) {
		return Result{}, errUnknownKind("RuleExtractor.Extract", kind)
	}

	var candidates []Candidate
	switch kind {
	case KindStep:
		candidates = e.extractSteps(text)
	case KindModule:
		candidates = e.extractModules(text)
	case KindDecision:
		candidates = e.extractDecisions(text)
	case KindEquipment:
		candidates = e.extractEquipment(text)
	}

	return Result{
		Candidates: candidates,
		Confidence: scoreEvidence(ruleBaseConfidence, len(candidates)),
	}, nil
}

func (e *RuleExtractor) extractSteps(text string) []Candidate {
	var candidates []Candidate
	seen := make(map[string]bool)

	add := func(number int, description string) {
		description = strings.TrimSpace(description)
		normalized := strings.ToLower(description)
		if len(description) < 10 || seen[normalized] {
			return
		}
		seen[normalized] = true
		if number == 0 {
			number = len(candidates) + 1
		}
		candidates = append(candidates, Candidate{
			Kind:       KindStep,
			Source:     SourceRule,
			Confidence: 0.7,
			Fields: map[string]any{
				"step_number": number,
				"description": description,
			},
		})
	}

	for _, m := range ruleStepLabelled.FindAllStringSubmatch(text, -1) {
		n, _ := strconv.Atoi(m[1])
		add(n, m[2])
	}
	for _, m := range ruleStepNumbered.FindAllStringSubmatch(text, -1) {
		n, _ := strconv.Atoi(m[1])
		add(n, m[2])
	}
	for _, m := range ruleStepImperative.FindAllString(text, -1) {
		add(0, m)
	}

	return candidates
}

func (e *RuleExtractor) extractModules(text string) []Candidate {
	var candidates []Candidate
	seen := make(map[string]bool)

	add := func(name string) {
		name = strings.TrimSpace(name)
		normalized := strings.ToLower(name)
		if name == "" || seen[normalized] {
			return
		}
		seen[normalized] = true
		candidates = append(candidates, Candidate{
			Kind:       KindModule,
			Source:     SourceRule,
			Confidence: 0.7,
			Fields: map[string]any{
				"name":        name,
				"description": fmt.Sprintf("Module %s", name),
			},
		})
	}

	for _, m := range ruleModuleChapter.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range ruleModuleNumbered.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range ruleModuleCaps.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}

	return candidates
}

func (e *RuleExtractor) extractDecisions(text string) []Candidate {
	var candidates []Candidate
	seen := make(map[string]bool)

	add := func(condition string) {
		condition = strings.TrimSpace(condition)
		normalized := strings.ToLower(condition)
		if condition == "" || seen[normalized] {
			return
		}
		seen[normalized] = true
		candidates = append(candidates, Candidate{
			Kind:       KindDecision,
			Source:     SourceRule,
			Confidence: 0.65,
			Fields: map[string]any{
				"condition": condition,
				"actions":   []any{"proceed", "halt"},
				"priority":  "medium",
				"fallback":  "notify supervisor",
			},
		})
	}

	for _, m := range ruleDecisionIf.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range ruleDecisionCheck.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}

	return candidates
}

func (e *RuleExtractor) extractEquipment(text string) []Candidate {
	var candidates []Candidate
	seen := make(map[string]bool)

	add := func(name string) {
		name = strings.TrimSpace(name)
		if len(name) < 3 || seen[name] {
			return
		}
		seen[name] = true
		candidates = append(candidates, Candidate{
			Kind:       KindEquipment,
			Source:     SourceRule,
			Confidence: 0.6,
			Fields: map[string]any{
				"name":                     name,
				"type":                     "unknown",
				"specifications":           "",
				"maintenance_requirements": "standard",
			},
		})
	}

	for _, m := range ruleEquipmentModel.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range ruleEquipmentCaps.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}

	return candidates
}
