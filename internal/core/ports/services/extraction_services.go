package services

import (
	"context"

	"github.com/mslade/expensemate/internal/dto"
)

// ExtractionSvcFacade turns unstructured input into structured expense
// fields via the AI collaborator. Failures never produce partial records:
// callers only persist after a successful extraction.
type ExtractionSvcFacade interface {
	// ParseText extracts expense fields from free text, with an optional
	// subject line for context. Input is truncated to a bounded length.
	ParseText(ctx context.Context, text, subject string) (*dto.ExtractedExpense, error)

	// ParsePDF extracts the PDF's text and delegates to ParseText, using the
	// filename as context. Image-only PDFs yield
	// apperrors.ErrNoExtractableText.
	ParsePDF(ctx context.Context, data []byte, filename string) (*dto.ExtractedExpense, error)
}
