// Package quality assesses extracted document text and selects a processing
// strategy for it. Both operations are pure functions over the text: the
// assessor computes deterministic metrics and buckets the document into a
// quality level, and the selector maps that level to the set of extractors
// worth running.
package quality

import (
	"regexp"
	"strings"
)

// Level is the coarse quality bucket for a document's text.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Metrics holds the deterministic quality measurements for a text.
type Metrics struct {
	Length               int     `json:"length"`
	NoiseRatio           float64 `json:"noise_ratio"`
	StructureScore       float64 `json:"structure_score"`
	TechnicalTermDensity float64 `json:"technical_term_density"`
}

var (
	// Characters outside this set count as noise.
	noisePattern = regexp.MustCompile(`[^\w\s.,;:!?\-()\[\]{}]`)

	// Structural markers: numbered list starts and all-caps header lines.
	numberedListPattern = regexp.MustCompile(`\n\s*\d+\.\s`)
	capsHeaderPattern   = regexp.MustCompile(`\n\s*[A-Z][A-Z\s]{3,}\n`)

	// All-caps technical tokens, length >= 3.
	technicalTermPattern = regexp.MustCompile(`\b[A-Z][A-Z0-9\-]{2,}\b`)
)

// Assess computes quality metrics for a text and buckets it into a level.
// It never fails: empty text yields LevelLow with zero metrics.
func Assess(text string) (Metrics, Level) {
	metrics := Metrics{
		Length:               len(text),
		NoiseRatio:           noiseRatio(text),
		StructureScore:       structureScore(text),
		TechnicalTermDensity: technicalTermDensity(text),
	}
	return metrics, determineLevel(metrics)
}

// noiseRatio is the fraction of characters outside the allow-listed
// punctuation/alphanumeric set. Zero for empty text.
func noiseRatio(text string) float64 {
	if len(text) == 0 {
		return 0
	}
	noisy := len(noisePattern.FindAllString(text, -1))
	return float64(noisy) / float64(len(text))
}

// structureScore counts structural markers normalized per 1000 characters,
// clamped to [0,1].
func structureScore(text string) float64 {
	if len(text) == 0 {
		return 0
	}
	markers := len(numberedListPattern.FindAllString(text, -1))
	markers += len(capsHeaderPattern.FindAllString(text, -1))

	score := float64(markers) / (float64(len(text)) / 1000.0)
	if score > 1.0 {
		return 1.0
	}
	return score
}

// technicalTermDensity is the count of all-caps tokens divided by the word
// count. Zero if the text has no words.
func technicalTermDensity(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}
	terms := len(technicalTermPattern.FindAllString(text, -1))
	return float64(terms) / float64(len(words))
}

// LevelFor rebuckets previously computed metrics. Useful when the metrics
// were carried in a result record and the text is no longer at hand.
func LevelFor(m Metrics) Level {
	return determineLevel(m)
}

// determineLevel applies the quality thresholds in order; first match wins.
func determineLevel(m Metrics) Level {
	switch {
	case m.Length >= 1000 && m.NoiseRatio <= 0.1 && m.StructureScore >= 0.5:
		return LevelHigh
	case m.Length >= 500 && m.NoiseRatio <= 0.2 && m.StructureScore >= 0.3:
		return LevelMedium
	default:
		return LevelLow
	}
}
