// Package extract implements the extractor set for technical documents.
//
// Three extractor families share one contract: given text and a record kind,
// return candidate records plus a confidence score, and never panic on
// malformed input. The set is closed (rule-based, statistical, generative)
// and the rule extractor is the fallback target for the other two.
// Requesting an unknown kind is a contract violation, not a
// data-quality failure.
package extract

import (
	"context"
	"fmt"

	"techdoc_pipeline/core"
)

// Extractor is the contract every extractor family implements.
type Extractor interface {
	Extract(ctx context.Context, text string, kind Kind) (Result, error)
}

var (
	_ Extractor = (*RuleExtractor)(nil)
	_ Extractor = (*NLPExtractor)(nil)
	_ Extractor = (*GenerativeExtractor)(nil)
)

// Kind identifies the category of structured record being extracted.
type Kind string

const (
	KindModule    Kind = "module"
	KindStep      Kind = "step"
	KindDecision  Kind = "decision"
	KindEquipment Kind = "equipment"
)

// Kinds lists all extraction kinds in canonical order.
var Kinds = []Kind{KindModule, KindStep, KindDecision, KindEquipment}

// validKind reports whether k is a member of the closed kind set.
func validKind(k Kind) bool {
	switch k {
	case KindModule, KindStep, KindDecision, KindEquipment:
		return true
	}
	return false
}

// errUnknownKind builds the contract violation for an out-of-set kind.
func errUnknownKind(op string, k Kind) error {
	return core.NewContractError(op, fmt.Sprintf("unknown extraction kind %q", k))
}

// Source identifies which extractor family produced a candidate.
type Source string

const (
	SourceRule       Source = "rule"
	SourceNLP        Source = "nlp"
	SourceGenerative Source = "generative"
)

// Candidate is an unmerged, source-attributed extraction result for one
// kind. Candidates are never mutated after creation; the merge engine
// consumes them.
type Candidate struct {
	Kind       Kind           `json:"kind"`
	Source     Source         `json:"source"`
	Confidence float64        `json:"confidence"`
	Fields     map[string]any `json:"fields"`
}

// Text returns the candidate's primary text field, used by the merge engine
// for derived attributes. Field naming varies by kind.
func (c Candidate) Text() string {
	for _, key := range []string{"description", "content", "condition", "name"} {
		if v, ok := c.Fields[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// Field returns a string field from the candidate, or "" if absent.
func (c Candidate) Field(key string) string {
	v, _ := c.Fields[key].(string)
	return v
}

// Result is the outcome of one extractor call. Internal extractor failures
// degrade to an empty candidate list with confidence 0 and an error string;
// they never abort the calling stage.
type Result struct {
	Candidates []Candidate `json:"candidates"`
	Confidence float64     `json:"confidence"`
	Errors     []string    `json:"errors,omitempty"`
	FellBack   bool        `json:"fell_back,omitempty"`
}

// scoreEvidence computes a call confidence from a fixed base adjusted by
// evidence counts. Monotonic: more candidates never lowers the score.
func scoreEvidence(base float64, candidateCount int) float64 {
	confidence := base
	if candidateCount >= 1 {
		confidence += 0.1
	}
	if candidateCount >= 5 {
		confidence += 0.1
	}
	if confidence > 1.0 {
		return 1.0
	}
	return confidence
}
