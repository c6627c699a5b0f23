package textsource

import (
	"regexp"
	"strings"
)

var sectionHeadingPattern = regexp.MustCompile(
	`(?m)^(?:(?:chapter|section|part|CHAPTER|SECTION|PART)\s+\d+\s*[:.\-]?\s*\S[^\n]*|\d+(?:\.\d+)*\s+[A-Z][^\n]{2,}|[A-Z][A-Z0-9 \-]{3,})$`)

// SegmentSections splits cleaned text into titled sections using heading
// heuristics (chapter labels, numbered headings, all-caps lines). Text
// before the first heading becomes an untitled preamble section. Documents
// with no recognizable headings yield a single section covering the whole
// text.
func SegmentSections(text string) []Section {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	matches := sectionHeadingPattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return []Section{{
			Title:   "",
			Content: strings.TrimSpace(text),
			Start:   0,
			End:     len(text),
		}}
	}

	sections := make([]Section, 0, len(matches)+1)

	if pre := strings.TrimSpace(text[:matches[0][0]]); pre != "" {
		sections = append(sections, Section{
			Title:   "",
			Content: pre,
			Start:   0,
			End:     matches[0][0],
		})
	}

	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		title := strings.TrimSpace(text[m[0]:m[1]])
		content := strings.TrimSpace(text[m[1]:end])
		sections = append(sections, Section{
			Title:   title,
			Content: content,
			Start:   m[0],
			End:     end,
		})
	}

	return sections
}
