package services_test

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mslade/expensemate/internal/apperrors"
	"github.com/mslade/expensemate/internal/core/services"
)

type ExtractionServiceTestSuite struct {
	suite.Suite
	mockCompleter *MockTextCompleter
	mockPDF       *MockPDFTextExtractor
	service       *services.ExtractionService
}

func (suite *ExtractionServiceTestSuite) SetupTest() {
	suite.mockCompleter = new(MockTextCompleter)
	suite.mockPDF = new(MockPDFTextExtractor)
	suite.service = services.NewExtractionService(suite.mockCompleter, suite.mockPDF, "USD")
}

func (suite *ExtractionServiceTestSuite) TestParseText_Success() {
	ctx := context.Background()
	response := `{
		"amount": 49.99,
		"type": "cost",
		"cost_category": "operations",
		"currency": "usd",
		"explanation": "Monthly hosting",
		"tags": ["hosting"],
		"vendor_name": "DigitalOcean",
		"invoice_number": "INV-1234",
		"payment_status": "paid",
		"expense_date": "2026-08-15"
	}`

	suite.mockCompleter.On("Complete", ctx, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "Subject: August invoice") &&
			strings.Contains(prompt, "Your invoice is attached")
	})).Return(response, nil).Once()

	extracted, err := suite.service.ParseText(ctx, "Your invoice is attached", "August invoice")

	suite.Require().NoError(err)
	suite.Require().NotNil(extracted)
	suite.True(extracted.Amount.Equal(decimal.RequireFromString("49.99")))
	suite.Equal("cost", extracted.Type)
	suite.Equal("operations", extracted.CostCategory)
	suite.Equal("USD", extracted.Currency)
	suite.Equal("DigitalOcean", extracted.VendorName)
	suite.Equal("2026-08-15", extracted.ExpenseDate)
	suite.mockCompleter.AssertExpectations(suite.T())
}

func (suite *ExtractionServiceTestSuite) TestParseText_StripsCodeFences() {
	ctx := context.Background()
	response := "```json\n{\"amount\": 10, \"type\": \"cost\", \"currency\": \"EUR\"}\n```"

	suite.mockCompleter.On("Complete", ctx, mock.AnythingOfType("string")).Return(response, nil).Once()

	extracted, err := suite.service.ParseText(ctx, "some receipt", "")

	suite.Require().NoError(err)
	suite.True(extracted.Amount.Equal(decimal.NewFromInt(10)))
	suite.Equal("EUR", extracted.Currency)
	suite.mockCompleter.AssertExpectations(suite.T())
}

func (suite *ExtractionServiceTestSuite) TestParseText_AppliesDefaults() {
	ctx := context.Background()
	// Model returned only an explanation: amount defaults to zero, type to
	// cost, currency to the configured fallback.
	suite.mockCompleter.On("Complete", ctx, mock.AnythingOfType("string")).
		Return(`{"explanation": "unclear receipt"}`, nil).Once()

	extracted, err := suite.service.ParseText(ctx, "something illegible", "")

	suite.Require().NoError(err)
	suite.Require().NotNil(extracted.Amount)
	suite.True(extracted.Amount.IsZero())
	suite.Equal("cost", extracted.Type)
	suite.Equal("USD", extracted.Currency)
	suite.mockCompleter.AssertExpectations(suite.T())
}

func (suite *ExtractionServiceTestSuite) TestParseText_MalformedJSON() {
	ctx := context.Background()
	suite.mockCompleter.On("Complete", ctx, mock.AnythingOfType("string")).
		Return("Sorry, I cannot parse this document.", nil).Once()

	extracted, err := suite.service.ParseText(ctx, "text", "")

	suite.Require().Error(err)
	suite.Nil(extracted)
	assert.ErrorIs(suite.T(), err, apperrors.ErrMalformedAIResponse)
	// The raw model output is retained for diagnostics.
	suite.Contains(err.Error(), "Sorry, I cannot parse")
	suite.mockCompleter.AssertExpectations(suite.T())
}

func (suite *ExtractionServiceTestSuite) TestParseText_InvalidEnumRejected() {
	ctx := context.Background()
	suite.mockCompleter.On("Complete", ctx, mock.AnythingOfType("string")).
		Return(`{"amount": 10, "type": "cost", "cost_category": "entertainment", "currency": "EUR"}`, nil).Once()

	extracted, err := suite.service.ParseText(ctx, "text", "")

	suite.Require().Error(err)
	suite.Nil(extracted)
	assert.ErrorIs(suite.T(), err, apperrors.ErrMalformedAIResponse)
	suite.mockCompleter.AssertExpectations(suite.T())
}

func (suite *ExtractionServiceTestSuite) TestParseText_CompleterFailure() {
	ctx := context.Background()
	suite.mockCompleter.On("Complete", ctx, mock.AnythingOfType("string")).
		Return("", assert.AnError).Once()

	extracted, err := suite.service.ParseText(ctx, "text", "")

	suite.Require().Error(err)
	suite.Nil(extracted)
	assert.ErrorIs(suite.T(), err, apperrors.ErrExtractionFailed)
	suite.mockCompleter.AssertExpectations(suite.T())
}

func (suite *ExtractionServiceTestSuite) TestParseText_TruncatesLongInput() {
	ctx := context.Background()
	longText := strings.Repeat("x", 20000)

	suite.mockCompleter.On("Complete", ctx, mock.MatchedBy(func(prompt string) bool {
		return len(prompt) < 10000
	})).Return(`{"amount": 1, "type": "cost", "currency": "EUR"}`, nil).Once()

	_, err := suite.service.ParseText(ctx, longText, "")

	suite.Require().NoError(err)
	suite.mockCompleter.AssertExpectations(suite.T())
}

func (suite *ExtractionServiceTestSuite) TestParseText_TruncationKeepsRuneBoundaries() {
	ctx := context.Background()
	// Three bytes per rune: a byte-wise cut would land mid-sequence.
	longText := strings.Repeat("€", 6000)

	suite.mockCompleter.On("Complete", ctx, mock.MatchedBy(func(prompt string) bool {
		return utf8.ValidString(prompt) && strings.Count(prompt, "€") == 5000
	})).Return(`{"amount": 1, "type": "cost", "currency": "EUR"}`, nil).Once()

	_, err := suite.service.ParseText(ctx, longText, "")

	suite.Require().NoError(err)
	suite.mockCompleter.AssertExpectations(suite.T())
}

func (suite *ExtractionServiceTestSuite) TestParsePDF_UsesFilenameAsSubject() {
	ctx := context.Background()
	pdfData := []byte("%PDF-1.4 fake")

	suite.mockPDF.On("ExtractText", pdfData).Return("Invoice total: 25 EUR", nil).Once()
	suite.mockCompleter.On("Complete", ctx, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "Subject: invoice_aug.pdf") &&
			strings.Contains(prompt, "Invoice total: 25 EUR")
	})).Return(`{"amount": 25, "type": "cost", "currency": "EUR"}`, nil).Once()

	extracted, err := suite.service.ParsePDF(ctx, pdfData, "invoice_aug.pdf")

	suite.Require().NoError(err)
	suite.True(extracted.Amount.Equal(decimal.NewFromInt(25)))
	suite.mockPDF.AssertExpectations(suite.T())
	suite.mockCompleter.AssertExpectations(suite.T())
}

func (suite *ExtractionServiceTestSuite) TestParsePDF_NoExtractableText() {
	ctx := context.Background()
	pdfData := []byte("%PDF-1.4 scanned image")

	suite.mockPDF.On("ExtractText", pdfData).Return("", apperrors.ErrNoExtractableText).Once()

	extracted, err := suite.service.ParsePDF(ctx, pdfData, "scan.pdf")

	suite.Require().Error(err)
	suite.Nil(extracted)
	assert.ErrorIs(suite.T(), err, apperrors.ErrNoExtractableText)
	suite.mockCompleter.AssertNotCalled(suite.T(), "Complete")
}

func TestExtractionService(t *testing.T) {
	suite.Run(t, new(ExtractionServiceTestSuite))
}
