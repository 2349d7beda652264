package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/mslade/expensemate/internal/apperrors"
	"github.com/mslade/expensemate/internal/core/ports"
	"github.com/mslade/expensemate/internal/dto"
)

// maxExtractionInput bounds the text sent to the model, in characters.
const maxExtractionInput = 5000

const parsePromptHeader = `Parse this email/document and extract expense information.
Return a JSON object with these fields:
- amount (number, required)
- type ("income" or "cost", required)
- cost_category (only if type is "cost": "operations", "freelancers", "equipment", or "other")
  - operations: recurring costs like SaaS, hosting, subscriptions
  - freelancers: payments to contractors, developers, designers
  - equipment: one-off purchases like hardware, software licenses
  - other: anything that doesn't fit above
- currency (3-letter code like USD, EUR)
- explanation (brief description)
- tags (array of relevant tags like ["software", "hosting"])
- vendor_name (company name)
- invoice_number (if present)
- payment_status (if mentioned: "paid", "unpaid", or "pending")
- expense_date (YYYY-MM-DD format if mentioned)
`

// ExtractionService turns unstructured text and PDFs into structured expense
// fields via the AI collaborator, then strict-decodes and validates the
// model output so downstream code never sees a partially-filled object.
type ExtractionService struct {
	completer        ports.TextCompleter
	pdfExtractor     ports.PDFTextExtractor
	fallbackCurrency string
	validate         *validator.Validate
}

// NewExtractionService creates a new ExtractionService.
func NewExtractionService(completer ports.TextCompleter, pdfExtractor ports.PDFTextExtractor, fallbackCurrency string) *ExtractionService {
	return &ExtractionService{
		completer:        completer,
		pdfExtractor:     pdfExtractor,
		fallbackCurrency: strings.ToUpper(fallbackCurrency),
		validate:         validator.New(),
	}
}

// ParseText extracts expense fields from free text. The text is truncated to
// a bounded length before prompting. A model call failure yields
// ErrExtractionFailed; undecodable output yields ErrMalformedAIResponse with
// the raw response retained in the error for diagnostics.
func (s *ExtractionService) ParseText(ctx context.Context, text, subject string) (*dto.ExtractedExpense, error) {
	// Truncate by runes, not bytes, so a multi-byte character is never
	// split mid-sequence.
	if utf8.RuneCountInString(text) > maxExtractionInput {
		text = string([]rune(text)[:maxExtractionInput])
	}

	var b strings.Builder
	b.WriteString(parsePromptHeader)
	b.WriteString("\n")
	if subject != "" {
		fmt.Fprintf(&b, "Subject: %s\n\n", subject)
	}
	fmt.Fprintf(&b, "Content:\n%s\n\n", text)
	b.WriteString("Return ONLY valid JSON, no other text.")

	raw, err := s.completer.Complete(ctx, b.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrExtractionFailed, err)
	}

	return s.decode(raw)
}

// ParsePDF extracts the PDF's text and delegates to ParseText, using the
// filename as subject context. Image-only PDFs surface
// ErrNoExtractableText.
func (s *ExtractionService) ParsePDF(ctx context.Context, data []byte, filename string) (*dto.ExtractedExpense, error) {
	text, err := s.pdfExtractor.ExtractText(data)
	if err != nil {
		return nil, err
	}
	subject := filename
	if subject == "" {
		subject = "PDF Document"
	}
	return s.ParseText(ctx, text, subject)
}

// decode strict-decodes the model output, applies the documented defaults
// (amount 0, type cost, fallback currency) and validates the result.
func (s *ExtractionService) decode(raw string) (*dto.ExtractedExpense, error) {
	cleaned := stripCodeFences(raw)

	var extracted dto.ExtractedExpense
	if err := json.Unmarshal([]byte(cleaned), &extracted); err != nil {
		return nil, fmt.Errorf("%w: %v (raw response: %s)", apperrors.ErrMalformedAIResponse, err, truncateForLog(raw))
	}

	extracted.ApplyDefaults(s.fallbackCurrency)
	extracted.Currency = strings.ToUpper(extracted.Currency)

	if err := s.validate.Struct(&extracted); err != nil {
		return nil, fmt.Errorf("%w: %v (raw response: %s)", apperrors.ErrMalformedAIResponse, err, truncateForLog(raw))
	}
	return &extracted, nil
}

// stripCodeFences removes a surrounding markdown code block if the model
// ignored the plain-JSON instruction.
func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if idx := strings.Index(s, "\n"); idx != -1 {
		s = s[idx+1:]
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

func truncateForLog(raw string) string {
	const max = 500
	if len(raw) > max {
		return raw[:max] + "..."
	}
	return raw
}
