package textsource

import (
	"regexp"
	"strings"
)

var (
	// Characters outside the technical-document alphabet are replaced with
	// spaces rather than deleted, so word boundaries survive.
	disallowedCharPattern = regexp.MustCompile(`[^\w\s.,;:!?\-()\[\]{}]`)

	// Runs of horizontal whitespace collapse to one space. Newlines are
	// preserved because downstream quality metrics rely on line structure.
	horizontalSpacePattern = regexp.MustCompile(`[ \t\f\v]+`)

	// Three or more consecutive newlines collapse to a paragraph break.
	blankRunPattern = regexp.MustCompile(`\n{3,}`)

	// Lines carrying only a page number, with optional "Page" prefix.
	pageNumberLinePattern = regexp.MustCompile(`(?im)^\s*(?:page\s+)?\d+\s*$`)
)

// CleanText normalizes extracted text: scrubs characters that are noise in
// technical manuals, drops page-number-only lines, and collapses
// whitespace while preserving line structure.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	text = disallowedCharPattern.ReplaceAllString(text, " ")
	text = pageNumberLinePattern.ReplaceAllString(text, "")
	text = horizontalSpacePattern.ReplaceAllString(text, " ")

	// Trim trailing spaces left on each line by the substitutions above.
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	text = strings.Join(lines, "\n")

	text = blankRunPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
