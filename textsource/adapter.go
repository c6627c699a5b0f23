// Package textsource turns a document path into cleaned, page-attributed
// text for the extraction pipeline. It uses the ledongthuc/pdf library for
// PDF parsing and declares the extraction method and a page-level
// confidence alongside the text, so downstream stages can weigh the source.
//
// Failure here is the pipeline's only fatal error: without source text
// nothing downstream can run.
package textsource

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoContent is returned when a document contains no extractable text.
var ErrNoContent = errors.New("no text content found in document")

// ErrEmptyPath is returned when an empty document path is provided.
var ErrEmptyPath = errors.New("empty document path provided")

// Confidence assigned to pages extracted from native PDF text. Scanned
// documents routed through OCR would carry a lower value; OCR is a
// collaborator concern outside this package.
const nativeTextConfidence = 0.9

// Page is the extracted text of a single page.
type Page struct {
	PageNumber int     `json:"page_number"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Section is a titled span of the cleaned document text.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

// SourceText is the adapter's output: cleaned full text with page
// attribution, the declared extraction method, and a confidence for it.
type SourceText struct {
	Filename   string    `json:"filename"`
	Text       string    `json:"text"`
	Pages      []Page    `json:"pages"`
	PageCount  int       `json:"page_count"`
	WordCount  int       `json:"word_count"`
	Method     string    `json:"extraction_method"`
	Confidence float64   `json:"confidence"`
	Sections   []Section `json:"sections,omitempty"`
}

// Adapter is the text source contract the pipeline depends on.
type Adapter interface {
	Extract(path string) (*SourceText, error)
}

// Config holds configuration for PDF text extraction.
type Config struct {
	// MaxPages limits extraction to the first N pages (0 for all pages)
	MaxPages int

	// PageSeparator is the string inserted between page texts.
	// Defaults to "\n\n" if empty.
	PageSeparator string

	// ContinueOnError when true skips pages that fail to extract
	// instead of aborting the document.
	ContinueOnError bool
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxPages:        0,
		PageSeparator:   "\n\n",
		ContinueOnError: true,
	}
}

// PDFAdapter extracts text from PDF files.
type PDFAdapter struct {
	config Config
}

// NewPDFAdapter creates a PDFAdapter with the given configuration.
func NewPDFAdapter(config Config) *PDFAdapter {
	if config.PageSeparator == "" {
		config.PageSeparator = "\n\n"
	}
	return &PDFAdapter{config: config}
}

// Extract reads the PDF at path, extracts per-page text, cleans it, and
// segments it into titled sections.
func (a *PDFAdapter) Extract(path string) (*SourceText, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	source, err := a.extractFromReader(r)
	if err != nil {
		return nil, err
	}
	source.Filename = path

	source.Text = CleanText(source.Text)
	for i := range source.Pages {
		source.Pages[i].Text = CleanText(source.Pages[i].Text)
	}
	source.WordCount = len(strings.Fields(source.Text))
	source.Sections = SegmentSections(source.Text)

	return source, nil
}

func (a *PDFAdapter) extractFromReader(r *pdf.Reader) (*SourceText, error) {
	totalPages := r.NumPage()

	source := &SourceText{
		PageCount:  totalPages,
		Pages:      make([]Page, 0, totalPages),
		Method:     "native_text",
		Confidence: nativeTextConfidence,
	}

	pagesToProcess := totalPages
	if a.config.MaxPages > 0 && a.config.MaxPages < totalPages {
		pagesToProcess = a.config.MaxPages
	}

	var textBuilder strings.Builder

	// Pages are 1-indexed in ledongthuc/pdf.
	for pageIndex := 1; pageIndex <= pagesToProcess; pageIndex++ {
		p := r.Page(pageIndex)
		if p.V.IsNull() {
			continue
		}

		text, err := p.GetPlainText(nil)
		if err != nil {
			if !a.config.ContinueOnError {
				return nil, fmt.Errorf("page %d: %w", pageIndex, err)
			}
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		source.Pages = append(source.Pages, Page{
			PageNumber: pageIndex,
			Text:       text,
			Confidence: nativeTextConfidence,
		})

		if textBuilder.Len() > 0 {
			textBuilder.WriteString(a.config.PageSeparator)
		}
		textBuilder.WriteString(text)
	}

	source.Text = textBuilder.String()
	if source.Text == "" {
		return nil, ErrNoContent
	}

	return source, nil
}
