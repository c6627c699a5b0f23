package pipeline

import (
	"regexp"
	"strings"

	"techdoc_pipeline/extract"
	"techdoc_pipeline/quality"
	"techdoc_pipeline/structuring"
)

// DocumentInfo summarizes the processed document's identity and outcome.
type DocumentInfo struct {
	Filename            string  `json:"filename"`
	ProcessingTimestamp string  `json:"processing_timestamp"`
	ConfidenceScore     float64 `json:"confidence_score"`
	ExtractionMethod    string  `json:"extraction_method"`
	DocumentType        string  `json:"document_type"`
	PageCount           int     `json:"page_count"`
	WordCount           int     `json:"word_count"`
}

// ComplexityAnalysis is a coarse readability and difficulty profile of the
// document text.
type ComplexityAnalysis struct {
	ReadabilityScore    float64 `json:"readability_score"`
	TechnicalDifficulty string  `json:"technical_difficulty"`
	DomainSpecificTerms int     `json:"domain_specific_terms"`
	SentenceComplexity  float64 `json:"sentence_complexity"`
	OverallAssessment   string  `json:"overall_assessment"`
}

// Metadata carries per-stage results and analysis byproducts alongside the
// structured records.
type Metadata struct {
	ProcessingStages     []StageResult                     `json:"processing_stages"`
	QualityMetrics       quality.Metrics                   `json:"quality_metrics"`
	TechnicalEntities    []extract.Entity                  `json:"technical_entities"`
	Classification       map[string]extract.Classification `json:"classification"`
	ComplexityAnalysis   ComplexityAnalysis                `json:"complexity_analysis"`
	ExtractionConfidence float64                           `json:"extraction_confidence"`
}

// Document is the canonical output record for one processed document.
// Errors is populated only when the pipeline aborted; stage-local errors
// stay inside Metadata.ProcessingStages.
type Document struct {
	DocumentInfo DocumentInfo                `json:"document_info"`
	Modules      []structuring.Module        `json:"modules"`
	Steps        []structuring.Step          `json:"procedural_steps"`
	Decisions    []structuring.DecisionPoint `json:"decision_points"`
	Equipment    []structuring.Equipment     `json:"equipment"`
	Summary      string                      `json:"summary"`
	Errors       []string                    `json:"errors"`
	Metadata     Metadata                    `json:"metadata"`
}

var documentTypeKeywords = []struct {
	docType  string
	keywords []string
}{
	{"maintenance_manual", []string{"maintenance", "repair", "service"}},
	{"safety_procedure", []string{"safety", "procedure", "protocol"}},
	{"operation_manual", []string{"operation", "manual", "instruction"}},
	{"troubleshooting_guide", []string{"troubleshooting", "diagnostic"}},
}

func inferDocumentType(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range documentTypeKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.docType
			}
		}
	}
	return "technical_document"
}

var technicalTermPattern = regexp.MustCompile(`\b[A-Z][A-Z0-9\-]{2,}\b`)

// analyzeComplexity profiles the text with basic surface metrics. It is the
// deterministic form used whenever the generative model is unavailable or
// declined to answer.
func analyzeComplexity(text string) ComplexityAnalysis {
	words := strings.Fields(text)
	sentences := strings.Count(text, ".") + 1

	avgSentenceLen := 0.0
	if sentences > 0 {
		avgSentenceLen = float64(len(words)) / float64(sentences)
	}

	termCount := len(technicalTermPattern.FindAllString(text, -1))

	difficulty := "low"
	if termCount > 10 {
		difficulty = "high"
	} else if termCount > 5 {
		difficulty = "medium"
	}

	readability := 100 - avgSentenceLen*2
	if readability < 0 {
		readability = 0
	}

	return ComplexityAnalysis{
		ReadabilityScore:    readability,
		TechnicalDifficulty: difficulty,
		DomainSpecificTerms: termCount,
		SentenceComplexity:  avgSentenceLen,
		OverallAssessment:   "Technical document with moderate complexity",
	}
}

// fallbackSummary returns the first two sentences of the text, or a
// truncated prefix when the text has fewer.
func fallbackSummary(text string) string {
	sentences := strings.SplitN(text, ".", 3)
	if len(sentences) >= 2 && strings.TrimSpace(sentences[1]) != "" {
		return strings.TrimSpace(sentences[0]) + ". " + strings.TrimSpace(sentences[1]) + "."
	}
	if len(text) > 200 {
		return text[:200] + "..."
	}
	return text
}
