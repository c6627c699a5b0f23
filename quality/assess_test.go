package quality

import (
	"strings"
	"testing"
)

func TestAssess_EmptyText(t *testing.T) {
	metrics, level := Assess("")

	if level != LevelLow {
		t.Errorf("level = %q, want %q", level, LevelLow)
	}
	if metrics.Length != 0 {
		t.Errorf("Length = %d, want 0", metrics.Length)
	}
	if metrics.NoiseRatio != 0 {
		t.Errorf("NoiseRatio = %f, want 0", metrics.NoiseRatio)
	}
	if metrics.StructureScore != 0 {
		t.Errorf("StructureScore = %f, want 0", metrics.StructureScore)
	}
	if metrics.TechnicalTermDensity != 0 {
		t.Errorf("TechnicalTermDensity = %f, want 0", metrics.TechnicalTermDensity)
	}
}

func TestAssess_Deterministic(t *testing.T) {
	text := "1. Inspect the PUMP housing.\n\nSAFETY NOTES\nVerify pressure is below 30 psi."

	m1, l1 := Assess(text)
	m2, l2 := Assess(text)

	if m1 != m2 {
		t.Errorf("metrics differ across calls: %+v vs %+v", m1, m2)
	}
	if l1 != l2 {
		t.Errorf("levels differ across calls: %q vs %q", l1, l2)
	}
}

func TestAssess_HighQuality(t *testing.T) {
	// Clean, long, heavily structured text: numbered steps every line.
	var b strings.Builder
	for i := 1; i <= 40; i++ {
		b.WriteString("\n1. Perform the scheduled inspection of the unit.")
	}
	text := b.String()

	metrics, level := Assess(text)

	if metrics.Length < 1000 {
		t.Fatalf("test text too short: %d", metrics.Length)
	}
	if level != LevelHigh {
		t.Errorf("level = %q, want %q (metrics %+v)", level, LevelHigh, metrics)
	}
}

func TestAssess_NoisyTextIsLow(t *testing.T) {
	// Half the characters are outside the allowed set.
	text := strings.Repeat("a#", 600)

	metrics, level := Assess(text)

	if metrics.NoiseRatio <= 0.2 {
		t.Errorf("NoiseRatio = %f, want > 0.2", metrics.NoiseRatio)
	}
	if level != LevelLow {
		t.Errorf("level = %q, want %q", level, LevelLow)
	}
}

func TestAssess_MonotonicNoisePenalty(t *testing.T) {
	// Replacing allowed characters with noise in a fixed-length text must
	// never decrease the noise ratio or increase the structure score.
	clean := strings.Repeat("1. Check the valve.\n", 30)
	prev, _ := Assess(clean)

	for _, n := range []int{10, 50, 200} {
		noisy := []byte(clean)
		for i := 0; i < n && i < len(noisy); i++ {
			noisy[i*2] = '@'
		}
		cur, _ := Assess(string(noisy))

		if cur.NoiseRatio < prev.NoiseRatio {
			t.Errorf("NoiseRatio decreased with more noise: %f -> %f", prev.NoiseRatio, cur.NoiseRatio)
		}
		if cur.StructureScore > prev.StructureScore {
			t.Errorf("StructureScore increased with more noise: %f -> %f", prev.StructureScore, cur.StructureScore)
		}
		prev = cur
	}
}

func TestAssess_TechnicalTermDensity(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{
			name: "no caps tokens",
			text: "inspect the pump housing daily",
			want: 0,
		},
		{
			name: "one caps token of five words",
			text: "inspect the PUMP housing daily",
			want: 0.2,
		},
		{
			name: "short caps tokens ignored",
			text: "go to IO at AB",
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics, _ := Assess(tt.text)
			if metrics.TechnicalTermDensity != tt.want {
				t.Errorf("TechnicalTermDensity = %f, want %f", metrics.TechnicalTermDensity, tt.want)
			}
		})
	}
}

func TestDetermineLevel_Thresholds(t *testing.T) {
	tests := []struct {
		name    string
		metrics Metrics
		want    Level
	}{
		{
			name:    "high boundary",
			metrics: Metrics{Length: 1000, NoiseRatio: 0.1, StructureScore: 0.5},
			want:    LevelHigh,
		},
		{
			name:    "medium boundary",
			metrics: Metrics{Length: 500, NoiseRatio: 0.2, StructureScore: 0.3},
			want:    LevelMedium,
		},
		{
			name:    "too short for medium",
			metrics: Metrics{Length: 499, NoiseRatio: 0.0, StructureScore: 1.0},
			want:    LevelLow,
		},
		{
			name:    "long but noisy",
			metrics: Metrics{Length: 5000, NoiseRatio: 0.4, StructureScore: 0.9},
			want:    LevelLow,
		},
		{
			name:    "long and clean but unstructured",
			metrics: Metrics{Length: 5000, NoiseRatio: 0.05, StructureScore: 0.1},
			want:    LevelLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := determineLevel(tt.metrics); got != tt.want {
				t.Errorf("determineLevel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSelectStrategy(t *testing.T) {
	tests := []struct {
		name                string
		level               Level
		wantGenerative      bool
		wantDependencyParse bool
	}{
		{name: "high quality", level: LevelHigh, wantGenerative: true, wantDependencyParse: true},
		{name: "medium quality", level: LevelMedium, wantGenerative: true, wantDependencyParse: false},
		{name: "low quality", level: LevelLow, wantGenerative: false, wantDependencyParse: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := SelectStrategy(tt.level, Metrics{})

			if s.UseGenerative != tt.wantGenerative {
				t.Errorf("UseGenerative = %v, want %v", s.UseGenerative, tt.wantGenerative)
			}
			if s.EnableDependencyParse != tt.wantDependencyParse {
				t.Errorf("EnableDependencyParse = %v, want %v", s.EnableDependencyParse, tt.wantDependencyParse)
			}
			if !s.EnableSteps || !s.EnableModules || !s.EnableDecisions || !s.EnableEntities || !s.EnableClassification {
				t.Error("extraction-kind flags should default to true")
			}
		})
	}
}
