package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// ErrEmptyModelResponse is returned when the model returns no choices.
var ErrEmptyModelResponse = errors.New("model returned empty response")

// Base confidence for generative extraction. Higher than the deterministic
// families because the model sees the whole passage, not just pattern hits.
const generativeBaseConfidence = 0.6

// Kind-specific structured-extraction prompts. The model is asked for a
// bare JSON array; everything around it is stripped during parsing.
var extractionPrompts = map[Kind]string{
	KindStep: `Extract procedural steps from the following technical text. Return a JSON array of objects with fields:
- step_number: sequential number
- description: step description
- estimated_time: estimated time to complete
- required_tools: list of required tools/equipment
- safety_notes: list of safety considerations
- dependencies: list of prerequisite steps

Text: %s

JSON Output:`,
	KindModule: `Identify logical modules from the following technical text. Return a JSON array of objects with fields:
- name: module name
- description: module description
- start_page: starting page number
- end_page: ending page number
- confidence: confidence score (0-1)

Text: %s

JSON Output:`,
	KindDecision: `Extract decision points and conditional logic from the following technical text. Return a JSON array of objects with fields:
- condition: the condition to check
- actions: list of actions to take
- priority: priority level (high/medium/low)
- fallback: fallback action if condition fails

Text: %s

JSON Output:`,
	KindEquipment: `Extract equipment and tools mentioned in the following technical text. Return a JSON array of objects with fields:
- name: equipment name
- type: equipment type
- specifications: technical specifications
- maintenance_requirements: maintenance needs

Text: %s

JSON Output:`,
}

var (
	jsonArrayPattern  = regexp.MustCompile(`(?s)\[.*\]`)
	jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)
)

// GenerativeExtractor issues structured-extraction requests to the shared
// model handle and parses JSON out of the responses. On model
// unavailability, request failure, or unparseable output it falls back to
// the rule extractor for the same kind; the failure is recorded in the
// Result, never raised.
type GenerativeExtractor struct {
	handle         *ModelHandle
	fallback       *RuleExtractor
	maxPromptChars int
	logger         *zap.Logger
}

// NewGenerativeExtractor creates a GenerativeExtractor backed by the shared
// model handle, with the rule extractor as its fallback.
func NewGenerativeExtractor(handle *ModelHandle, fallback *RuleExtractor, maxPromptChars int, logger *zap.Logger) *GenerativeExtractor {
	return &GenerativeExtractor{
		handle:         handle,
		fallback:       fallback,
		maxPromptChars: maxPromptChars,
		logger:         logger,
	}
}

// Extract requests structured records of the given kind from the model.
// An unknown kind is a contract violation; every other failure degrades to
// the rule extractor's output with the error recorded.
func (e *GenerativeExtractor) Extract(ctx context.Context, text string, kind Kind) (Result, error) {
	if !validKind(kind) {
		return Result{}, errUnknownKind("GenerativeExtractor.Extract", kind)
	}

	if !e.handle.Available() {
		return e.fallBack(ctx, text, kind, "model unavailable")
	}

	prompt := fmt.Sprintf(extractionPrompts[kind], truncate(text, e.maxPromptChars))

	response, err := e.handle.Complete(ctx, prompt)
	if err != nil {
		e.logger.Warn("generative extraction failed",
			zap.String("kind", string(kind)),
			zap.Error(err))
		return e.fallBack(ctx, text, kind, fmt.Sprintf("completion failed: %v", err))
	}

	fields, err := parseJSONRecords(response)
	if err != nil {
		e.logger.Warn("generative response not parseable",
			zap.String("kind", string(kind)),
			zap.Error(err))
		return e.fallBack(ctx, text, kind, fmt.Sprintf("response parse failed: %v", err))
	}
	if len(fields) == 0 {
		return e.fallBack(ctx, text, kind, "response contained no records")
	}

	candidates := make([]Candidate, 0, len(fields))
	for _, f := range fields {
		candidates = append(candidates, Candidate{
			Kind:       kind,
			Source:     SourceGenerative,
			Confidence: recordConfidence(f),
			Fields:     f,
		})
	}

	return Result{
		Candidates: candidates,
		Confidence: scoreEvidence(generativeBaseConfidence, len(candidates)),
	}, nil
}

// fallBack runs the rule extractor for the same kind and tags the result
// with the reason the generative path was skipped.
func (e *GenerativeExtractor) fallBack(ctx context.Context, text string, kind Kind, reason string) (Result, error) {
	result, err := e.fallback.Extract(ctx, text, kind)
	if err != nil {
		return Result{}, err
	}
	result.FellBack = true
	result.Errors = append(result.Errors, reason)
	return result, nil
}

// parseJSONRecords extracts a JSON array (or single object) of records from
// a model response that may contain surrounding prose.
func parseJSONRecords(response string) ([]map[string]any, error) {
	if match := jsonArrayPattern.FindString(response); match != "" {
		var records []map[string]any
		if err := json.Unmarshal([]byte(match), &records); err == nil {
			return records, nil
		}
	}

	if match := jsonObjectPattern.FindString(response); match != "" {
		var record map[string]any
		if err := json.Unmarshal([]byte(match), &record); err == nil {
			return []map[string]any{record}, nil
		}
	}

	if strings.TrimSpace(response) == "" {
		return nil, ErrEmptyModelResponse
	}
	return nil, fmt.Errorf("no valid JSON in response")
}

// recordConfidence reads a model-reported confidence field if present,
// otherwise assigns the generative base.
func recordConfidence(fields map[string]any) float64 {
	if v, ok := fields["confidence"].(float64); ok && v > 0 && v <= 1 {
		return v
	}
	return generativeBaseConfidence
}

// truncate cuts text to at most maxLen bytes.
func truncate(text string, maxLen int) string {
	if maxLen > 0 && len(text) > maxLen {
		return text[:maxLen]
	}
	return text
}
