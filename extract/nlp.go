package extract

import (
	"context"
	"regexp"
	"sort"
	"strings"
)

// Base confidence for the statistical extractor.
const nlpBaseConfidence = 0.5

var (
	// Procedural step patterns, in decreasing specificity. The ordinal
	// family catches prose sequences the numbered patterns miss.
	nlpStepLabelled = regexp.MustCompile(`(?i)\b(?:step|procedure|process)\s+\d+[.:]?\s*([^.!?\n]+[.!?])`)
	nlpStepNumbered = regexp.MustCompile(`(?m)^\s*\d+[.)]\s*([^.!?\n]+[.!?]?)$`)
	nlpStepOrdinal  = regexp.MustCompile(`(?i)\b(?:first|second|third|fourth|fifth|next|then|finally)[,]?\s+([^.!?\n]+[.!?])`)

	// Module headings: numbered, all-caps, and TitleCase lines.
	nlpModuleNumbered  = regexp.MustCompile(`(?m)^\s*(\d+\.\s*[A-Z][^.!?\n]*)$`)
	nlpModuleCaps      = regexp.MustCompile(`(?m)^\s*([A-Z][A-Z\s]{3,})$`)
	nlpModuleTitleCase = regexp.MustCompile(`(?m)^\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)\s*$`)

	// Decision constructs with explicit outcomes.
	nlpDecisionConditional = regexp.MustCompile(`(?i)\b(?:if|when|whereas|while)\s+([^.!?\n]+?)\s+(?:then|proceed|continue|stop|halt)`)
	nlpDecisionCheck       = regexp.MustCompile(`(?i)\b(?:check|verify|confirm)\s+([^.!?\n]+?)\s+(?:before|prior|after)`)
	nlpDecisionEvent       = regexp.MustCompile(`(?i)\b(?:in case of|in the event of|should)\s+([^.!?\n]+?)\s+(?:then|proceed)`)

	// Technical entity patterns shared by equipment extraction and the
	// entity scan.
	nlpIdentifierPattern  = regexp.MustCompile(`\b[A-Z][A-Z0-9\-]{2,}\b`)
	nlpModelNumberPattern = regexp.MustCompile(`\b[A-Z]{2,}\d{2,}\b`)
	nlpVersionPattern     = regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\b`)
	nlpMeasurementPattern = regexp.MustCompile(`(?i)\b\d+\.?\d*\s*(?:mm|cm|km|in|ft|yd|psi|bar|kpa|mpa|volts?|amperes?|watts?|ohms?|degrees?|fahrenheit|celsius|kelvin)\b`)

	nlpSentenceSplit = regexp.MustCompile(`[.!?]+\s+`)
	nlpVerbHint      = regexp.MustCompile(`(?i)^(?:is|are|was|were|has|have|check|verify|inspect|remove|install|replace|conduct|perform|ensure|apply|measure|turn|press|open|close|connect|disconnect)$`)
)

// technicalKeywords groups domain vocabulary by category for text
// classification.
var technicalKeywords = map[string][]string{
	"safety":      {"safety", "secure", "danger", "hazard", "warning", "caution"},
	"maintenance": {"maintenance", "repair", "service", "inspect", "check"},
	"procedure":   {"procedure", "step", "process", "method", "protocol"},
	"equipment":   {"equipment", "tool", "device", "instrument", "apparatus"},
	"measurement": {"measure", "calibrate", "test", "verify", "validate"},
}

// Entity is a span of text recognized as a technical entity.
type Entity struct {
	Text       string  `json:"text"`
	Type       string  `json:"type"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Confidence float64 `json:"confidence"`
}

// Dependency is a head/modifier pair from the lightweight sentence parse.
type Dependency struct {
	Token    string `json:"token"`
	Head     string `json:"head"`
	Relation string `json:"relation"`
}

// Classification scores a text against one technical keyword category.
type Classification struct {
	Confidence    float64  `json:"confidence"`
	KeywordCount  int      `json:"keyword_count"`
	KeywordsFound []string `json:"keywords_found"`
}

// NLPExtractor is the statistical extractor family. It applies richer
// pattern sets than the rule extractor plus positional deduplication, and
// additionally offers entity extraction, text classification, and a
// lightweight dependency parse for pipeline metadata.
//
// Availability mirrors the external sentence/entity model: when the model
// is not loaded the extractor reports unavailable and Extract falls back to
// the rule extractor's output for the same kind.
type NLPExtractor struct {
	available bool
	fallback  *RuleExtractor
}

// NewNLPExtractor creates an NLPExtractor. available reflects whether the
// sentence/entity model loaded at startup; it is fixed for the process
// lifetime.
func NewNLPExtractor(available bool, fallback *RuleExtractor) *NLPExtractor {
	return &NLPExtractor{available: available, fallback: fallback}
}

// Available reports whether the statistical model is loaded.
func (e *NLPExtractor) Available() bool {
	return e.available
}

// Extract returns statistically-matched candidates for the given kind.
// When the model is unavailable it degrades to the rule extractor's output
// with the reason recorded. An unknown kind is a contract violation.
func (e *NLPExtractor) Extract(ctx context.Context, text string, kind Kind) (Result, error) {
	if !validKind(kind) {
		return Result{}, errUnknownKind("NLPExtractor.Extract", kind)
	}

	if !e.available {
		result, err := e.fallback.Extract(ctx, text, kind)
		if err != nil {
			return Result{}, err
		}
		result.FellBack = true
		result.Errors = append(result.Errors, "nlp model unavailable")
		return result, nil
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
		Confidence: scoreEvidence(nlpBaseConfidence, len(candidates)),
	}, nil
}

// positioned pairs a match with its offset so results can be ordered by
// document position before deduplication.
type positioned struct {
	text  string
	start int
}

func collectMatches(text string, patterns ...*regexp.Regexp) []positioned {
	var all []positioned
	for _, p := range patterns {
		for _, loc := range p.FindAllStringSubmatchIndex(text, -1) {
			// Use the first capture group when present, else the whole match.
			start, end := loc[0], loc[1]
			if len(loc) >= 4 && loc[2] >= 0 {
				start, end = loc[2], loc[3]
			}
			all = append(all, positioned{text: strings.TrimSpace(text[start:end]), start: loc[0]})
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].start < all[j].start })
	return all
}

func dedupe(matches []positioned, minLen int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range matches {
		normalized := strings.Join(strings.Fields(strings.ToLower(m.text)), " ")
		if len(m.text) < minLen || seen[normalized] {
			continue
		}
		seen[normalized] = true
		out = append(out, m.text)
	}
	return out
}

func (e *NLPExtractor) extractSteps(text string) []Candidate {
	matches := dedupe(collectMatches(text, nlpStepLabelled, nlpStepNumbered, nlpStepOrdinal), 10)

	candidates := make([]Candidate, 0, len(matches))
	for i, m := range matches {
		candidates = append(candidates, Candidate{
			Kind:       KindStep,
			Source:     SourceNLP,
			Confidence: 0.85,
			Fields: map[string]any{
				"step_number": i + 1,
				"description": m,
			},
		})
	}
	return candidates
}

func (e *NLPExtractor) extractModules(text string) []Candidate {
	matches := dedupe(collectMatches(text, nlpModuleNumbered, nlpModuleCaps, nlpModuleTitleCase), 4)

	candidates := make([]Candidate, 0, len(matches))
	for _, m := range matches {
		candidates = append(candidates, Candidate{
			Kind:       KindModule,
			Source:     SourceNLP,
			Confidence: 0.8,
			Fields: map[string]any{
				"name":        m,
				"description": "Module " + m,
			},
		})
	}
	return candidates
}

func (e *NLPExtractor) extractDecisions(text string) []Candidate {
	matches := dedupe(collectMatches(text, nlpDecisionConditional, nlpDecisionCheck, nlpDecisionEvent), 4)

	candidates := make([]Candidate, 0, len(matches))
	for _, m := range matches {
		candidates = append(candidates, Candidate{
			Kind:       KindDecision,
			Source:     SourceNLP,
			Confidence: 0.8,
			Fields: map[string]any{
				"condition": m,
				"actions":   []any{"proceed", "halt"},
				"priority":  "medium",
				"fallback":  "notify supervisor",
			},
		})
	}
	return candidates
}

func (e *NLPExtractor) extractEquipment(text string) []Candidate {
	var candidates []Candidate
	seen := make(map[string]bool)

	for _, entity := range e.ExtractEntities(text) {
		if entity.Type != "equipment_identifier" || seen[entity.Text] {
			continue
		}
		seen[entity.Text] = true
		candidates = append(candidates, Candidate{
			Kind:       KindEquipment,
			Source:     SourceNLP,
			Confidence: entity.Confidence,
			Fields: map[string]any{
				"name":                     entity.Text,
				"type":                     "unknown",
				"specifications":           "",
				"maintenance_requirements": "standard",
			},
		})
	}
	return candidates
}

// ExtractEntities scans the text for technical identifiers, model numbers,
// version numbers, and measurements with units.
func (e *NLPExtractor) ExtractEntities(text string) []Entity {
	var entities []Entity

	addAll := func(pattern *regexp.Regexp, entityType string, confidence float64) {
		for _, loc := range pattern.FindAllStringIndex(text, -1) {
			entities = append(entities, Entity{
				Text:       text[loc[0]:loc[1]],
				Type:       entityType,
				Start:      loc[0],
				End:        loc[1],
				Confidence: confidence,
			})
		}
	}

	addAll(nlpIdentifierPattern, "equipment_identifier", 0.8)
	addAll(nlpModelNumberPattern, "equipment_identifier", 0.8)
	addAll(nlpVersionPattern, "version_number", 0.7)
	addAll(nlpMeasurementPattern, "measurement", 0.9)

	return entities
}

// Classify scores the text against the technical keyword categories and
// names the primary one. The empty map means no category matched.
func (e *NLPExtractor) Classify(text string) (map[string]Classification, string) {
	lower := strings.ToLower(text)
	classifications := make(map[string]Classification)

	var primary string
	var primaryConfidence float64

	for category, keywords := range technicalKeywords {
		var found []string
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				found = append(found, kw)
			}
		}
		if len(found) == 0 {
			continue
		}

		confidence := float64(len(found)) / float64(len(keywords))
		if confidence > 1.0 {
			confidence = 1.0
		}
		classifications[category] = Classification{
			Confidence:    confidence,
			KeywordCount:  len(found),
			KeywordsFound: found,
		}
		if confidence > primaryConfidence {
			primary = category
			primaryConfidence = confidence
		}
	}

	return classifications, primary
}

// ParseDependencies performs a lightweight per-sentence parse: the first
// verb-like token is taken as the sentence head and the remaining tokens
// attach to it. A rough stand-in for a full dependency parse, sufficient
// for the structural density metadata the pipeline records.
func (e *NLPExtractor) ParseDependencies(text string) []Dependency {
	var deps []Dependency

	for _, sentence := range nlpSentenceSplit.Split(text, -1) {
		tokens := strings.Fields(sentence)
		if len(tokens) < 2 {
			continue
		}

		head := ""
		for _, token := range tokens {
			if nlpVerbHint.MatchString(strings.Trim(token, ".,;:!?")) {
				head = token
				break
			}
		}
		if head == "" {
			head = tokens[0]
		}

		for _, token := range tokens {
			if token == head {
				continue
			}
			deps = append(deps, Dependency{Token: token, Head: head, Relation: "dep"})
		}
	}
	return deps
}
