// Package pdftext extracts plain text from PDF documents using go-fitz.
package pdftext

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/mslade/expensemate/internal/apperrors"
)

// Extractor implements ports.PDFTextExtractor.
type Extractor struct{}

// NewExtractor creates a PDF text extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractText concatenates the text of every page. A document that yields
// only whitespace (image-only scans, empty files) returns
// apperrors.ErrNoExtractableText so callers can surface a user-facing error
// instead of parsing empty text.
func (e *Extractor) ExtractText(data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var b strings.Builder
	for n := 0; n < doc.NumPage(); n++ {
		pageText, err := doc.Text(n)
		if err != nil {
			return "", fmt.Errorf("failed to extract text from page %d: %w", n+1, err)
		}
		if pageText != "" {
			b.WriteString(pageText)
			b.WriteString("\n")
		}
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", apperrors.ErrNoExtractableText
	}
	return text, nil
}
