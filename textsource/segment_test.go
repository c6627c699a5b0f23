package textsource

import "testing"

func TestSegmentSections_Empty(t *testing.T) {
	if got := SegmentSections("   \n  "); got != nil {
		t.Errorf("expected nil for blank text, got %v", got)
	}
}

func TestSegmentSections_NoHeadings(t *testing.T) {
	text := "Just a plain paragraph with no headings at all."
	sections := SegmentSections(text)
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Title != "" {
		t.Errorf("expected untitled section, got title %q", sections[0].Title)
	}
	if sections[0].Content != text {
		t.Errorf("content = %q, want full text", sections[0].Content)
	}
}

func TestSegmentSections_ChapterAndCapsHeadings(t *testing.T) {
	text := "CHAPTER 1: Introduction\nThis manual covers pump maintenance.\nMAINTENANCE TASKS\nInspect the impeller weekly."
	sections := SegmentSections(text)
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d: %+v", len(sections), sections)
	}
	if sections[0].Title != "CHAPTER 1: Introduction" {
		t.Errorf("first title = %q", sections[0].Title)
	}
	if sections[0].Content != "This manual covers pump maintenance." {
		t.Errorf("first content = %q", sections[0].Content)
	}
	if sections[1].Title != "MAINTENANCE TASKS" {
		t.Errorf("second title = %q", sections[1].Title)
	}
	if sections[1].Content != "Inspect the impeller weekly." {
		t.Errorf("second content = %q", sections[1].Content)
	}
}

func TestSegmentSections_PreambleBeforeFirstHeading(t *testing.T) {
	text := "Preamble text before any heading.\n1.2 Safety Procedures\nWear protective equipment."
	sections := SegmentSections(text)
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d: %+v", len(sections), sections)
	}
	if sections[0].Title != "" || sections[0].Content != "Preamble text before any heading." {
		t.Errorf("preamble section = %+v", sections[0])
	}
	if sections[1].Title != "1.2 Safety Procedures" {
		t.Errorf("second title = %q", sections[1].Title)
	}
}

func TestSegmentSections_OffsetsAreOrdered(t *testing.T) {
	text := "SECTION 1: Setup\nDo setup.\nSECTION 2: Teardown\nDo teardown."
	sections := SegmentSections(text)
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	for i, s := range sections {
		if s.Start >= s.End {
			t.Errorf("section %d: start %d >= end %d", i, s.Start, s.End)
		}
		if i > 0 && s.Start < sections[i-1].End {
			t.Errorf("section %d overlaps previous", i)
		}
	}
}
