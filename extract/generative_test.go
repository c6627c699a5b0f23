package extract

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"techdoc_pipeline/core"
)

func newOfflineGenerative() *GenerativeExtractor {
	return NewGenerativeExtractor(NewUnavailableModelHandle(), NewRuleExtractor(), 4000, zap.NewNop())
}

func TestGenerativeExtractor_Extract_UnknownKind(t *testing.T) {
	e := newOfflineGenerative()

	_, err := e.Extract(context.Background(), "text", Kind("chapter"))
	var ce *core.ContractError
	if !errors.As(err, &ce) {
		t.Errorf("error = %v, want *core.ContractError", err)
	}
}

func TestGenerativeExtractor_Extract_FallsBackWhenUnavailable(t *testing.T) {
	e := newOfflineGenerative()
	text := "Step 1: Bleed the brake line fully."

	result, err := e.Extract(context.Background(), text, KindStep)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if !result.FellBack {
		t.Error("FellBack should be true without a model")
	}
	if len(result.Candidates) != 1 {
		t.Fatalf("candidates = %d, want 1 from rule fallback", len(result.Candidates))
	}
	if result.Candidates[0].Source != SourceRule {
		t.Errorf("fallback Source = %q, want %q", result.Candidates[0].Source, SourceRule)
	}
	if len(result.Errors) == 0 || result.Errors[0] != "model unavailable" {
		t.Errorf("Errors = %v, want model unavailable reason", result.Errors)
	}
}

func TestParseJSONRecords(t *testing.T) {
	tests := []struct {
		name      string
		response  string
		wantCount int
		wantErr   bool
	}{
		{
			name:      "bare array",
			response:  `[{"name": "Pump"}, {"name": "Valve"}]`,
			wantCount: 2,
		},
		{
			name:      "array with surrounding prose",
			response:  "Here are the results:\n[{\"name\": \"Pump\"}]\nLet me know if you need more.",
			wantCount: 1,
		},
		{
			name:      "single object",
			response:  `{"name": "Pump"}`,
			wantCount: 1,
		},
		{
			name:     "no json",
			response: "I could not find any equipment in this text.",
			wantErr:  true,
		},
		{
			name:     "empty response",
			response: "",
			wantErr:  true,
		},
		{
			name:     "malformed json",
			response: `[{"name": "Pump"`,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := parseJSONRecords(tt.response)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseJSONRecords() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && len(records) != tt.wantCount {
				t.Errorf("records = %d, want %d", len(records), tt.wantCount)
			}
		})
	}
}

func TestRecordConfidence(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]any
		want   float64
	}{
		{
			name:   "model-reported confidence",
			fields: map[string]any{"confidence": 0.85},
			want:   0.85,
		},
		{
			name:   "missing confidence uses base",
			fields: map[string]any{"name": "Pump"},
			want:   generativeBaseConfidence,
		},
		{
			name:   "out-of-range confidence uses base",
			fields: map[string]any{"confidence": 3.5},
			want:   generativeBaseConfidence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := recordConfidence(tt.fields); got != tt.want {
				t.Errorf("recordConfidence() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 3); got != "abc" {
		t.Errorf("truncate() = %q, want %q", got, "abc")
	}
	if got := truncate("ab", 10); got != "ab" {
		t.Errorf("truncate() = %q, want unchanged", got)
	}
	if got := truncate("ab", 0); got != "ab" {
		t.Errorf("truncate() with 0 limit = %q, want unchanged", got)
	}
}
