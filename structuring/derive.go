package structuring

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxKeywords caps the keyword list per record.
const MaxKeywords = 10

// MaxSubModules caps the sub-module list per module record.
const MaxSubModules = 5

var (
	technicalTermPattern = regexp.MustCompile(`\b[A-Z][A-Z0-9\-]{2,}\b`)
	measurementPattern   = regexp.MustCompile(`(?i)\b\d+\.?\d*\s*(?:mm|cm|km|in|ft|yd|psi|bar|kpa|mpa|volts?|amperes?|watts?|ohms?|degrees?|fahrenheit|celsius|kelvin)\b`)

	warningPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:warning|caution|danger|hazard)\s*:?\s*([^.!?\n]+)`),
		regexp.MustCompile(`(?i)\b(?:do not|never|avoid|prevent)\s+([^.!?\n]+)`),
	}
	validationCheckPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:verify|check|confirm|validate|test)\s+([^.!?\n]+)`),
		regexp.MustCompile(`(?i)\b(?:ensure|make sure|confirm that)\s+([^.!?\n]+)`),
	}
	triggerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:if|when|whereas)\s+([^.!?\n]+)`),
		regexp.MustCompile(`(?i)\b(?:detect|identify|find)\s+([^.!?\n]+)`),
	}

	subModulePattern = regexp.MustCompile(`\n\s*\d+\.\d+\s+([^.!?\n]+)`)

	temperatureRangePattern = regexp.MustCompile(`(?i)(\d+)\s*°?\s*[CF]\s*to\s*(\d+)\s*°?\s*[CF]`)
	pressureRangePattern    = regexp.MustCompile(`(?i)(\d+)\s*(?:psi|bar|kpa|mpa)\s*to\s*(\d+)\s*(?:psi|bar|kpa|mpa)`)
	replacementPattern      = regexp.MustCompile(`(?i)replace\s*(?:every\s*)?(\d+)\s*(?:hours?|hrs?|months?|years?)`)
)

// Keyword dictionaries for derived classifications.
var (
	highRiskKeywords     = []string{"emergency", "danger", "hazard", "critical", "failure"}
	mediumRiskKeywords   = []string{"warning", "caution", "attention", "check"}
	approvalKeywords     = []string{"supervisor", "manager", "authority", "approval", "permission"}
	calibrationKeywords  = []string{"calibrate", "calibration", "accuracy", "precision"}
	highSafetyKeywords   = []string{"safety", "emergency", "critical", "protective"}
	mediumSafetyKeywords = []string{"warning", "caution", "attention"}
)

// assessComplexity classifies text by its count of technical terms and
// measurements: high above 5, medium above 2, otherwise low.
func assessComplexity(text string) string {
	total := len(technicalTermPattern.FindAllString(text, -1)) +
		len(measurementPattern.FindAllString(text, -1))

	switch {
	case total > 5:
		return "high"
	case total > 2:
		return "medium"
	default:
		return "low"
	}
}

// extractWarnings returns the capture groups of the warning patterns.
func extractWarnings(text string) []string {
	return captureAll(text, warningPatterns)
}

// extractValidationChecks returns the capture groups of the check patterns.
func extractValidationChecks(text string) []string {
	return captureAll(text, validationCheckPatterns)
}

// extractTriggers returns trigger phrases found in a decision condition.
func extractTriggers(condition string) []string {
	return captureAll(condition, triggerPatterns)
}

func captureAll(text string, patterns []*regexp.Regexp) []string {
	out := []string{}
	for _, p := range patterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			out = append(out, strings.TrimSpace(m[1]))
		}
	}
	return out
}

// extractKeywords returns the deduplicated, order-preserving set of
// all-caps tokens (length >= 3), capped at MaxKeywords.
func extractKeywords(text string) []string {
	seen := make(map[string]bool)
	keywords := []string{}
	for _, kw := range technicalTermPattern.FindAllString(text, -1) {
		if seen[kw] {
			continue
		}
		seen[kw] = true
		keywords = append(keywords, kw)
		if len(keywords) == MaxKeywords {
			break
		}
	}
	return keywords
}

// extractSubModules pulls dotted sub-section titles from module content.
func extractSubModules(content string) []string {
	subs := []string{}
	for _, m := range subModulePattern.FindAllStringSubmatch(content, -1) {
		subs = append(subs, strings.TrimSpace(m[1]))
		if len(subs) == MaxSubModules {
			break
		}
	}
	return subs
}

// assessRiskLevel classifies a decision condition by hazard vocabulary.
func assessRiskLevel(condition string) string {
	lower := strings.ToLower(condition)
	if containsAny(lower, highRiskKeywords) {
		return "high"
	}
	if containsAny(lower, mediumRiskKeywords) {
		return "medium"
	}
	return "low"
}

// requiresApproval reports whether the condition or any action mentions an
// authority or approval keyword.
func requiresApproval(condition string, actions []string) bool {
	if containsAny(strings.ToLower(condition), approvalKeywords) {
		return true
	}
	for _, action := range actions {
		if containsAny(strings.ToLower(action), approvalKeywords) {
			return true
		}
	}
	return false
}

// deriveConsequences tags each action with its operational consequence.
func deriveConsequences(actions []string) []string {
	consequences := []string{}
	for _, action := range actions {
		lower := strings.ToLower(action)
		switch {
		case containsAny(lower, []string{"stop", "halt", "emergency", "shutdown"}):
			consequences = append(consequences, "critical_stop")
		case containsAny(lower, []string{"notify", "alert", "report"}):
			consequences = append(consequences, "notification_required")
		case containsAny(lower, []string{"continue", "proceed"}):
			consequences = append(consequences, "continue_operation")
		}
	}
	return consequences
}

// requiresCalibration reports whether the specifications or maintenance
// text mention calibration vocabulary.
func requiresCalibration(specifications, maintenance string) bool {
	combined := strings.ToLower(specifications + " " + maintenance)
	return containsAny(combined, calibrationKeywords)
}

// classifySafetyLevel buckets equipment by safety vocabulary in its name
// and specifications.
func classifySafetyLevel(name, specifications string) string {
	combined := strings.ToLower(name + " " + specifications)
	if containsAny(combined, highSafetyKeywords) {
		return "high"
	}
	if containsAny(combined, mediumSafetyKeywords) {
		return "medium"
	}
	return "standard"
}

// extractOperationalLimits pulls temperature and pressure ranges from
// equipment specifications. Absent ranges are omitted from the map.
func extractOperationalLimits(specifications string) map[string]string {
	limits := map[string]string{}
	if m := temperatureRangePattern.FindStringSubmatch(specifications); m != nil {
		limits["temperature_range"] = fmt.Sprintf("%s° to %s°", m[1], m[2])
	}
	if m := pressureRangePattern.FindStringSubmatch(specifications); m != nil {
		limits["pressure_range"] = fmt.Sprintf("%s to %s", m[1], m[2])
	}
	return limits
}

// extractReplacementSchedule pulls a replacement interval from equipment
// text, defaulting to the standard schedule.
func extractReplacementSchedule(specifications, maintenance string) string {
	if m := replacementPattern.FindStringSubmatch(specifications + " " + maintenance); m != nil {
		return fmt.Sprintf("Replace every %s hours", m[1])
	}
	return "standard_schedule"
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
