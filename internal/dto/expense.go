package dto

import (
	"time"

	"github.com/mslade/expensemate/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest defines the data needed to create an expense manually.
type CreateExpenseRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Currency      string          `json:"currency" binding:"omitempty,len=3"`
	Type          string          `json:"type" binding:"required,oneof=income cost"`
	CostCategory  *string         `json:"costCategory" binding:"omitempty,oneof=operations freelancers equipment other"`
	Explanation   string          `json:"explanation"`
	Tags          []string        `json:"tags"`
	VendorName    string          `json:"vendorName"`
	InvoiceNumber string          `json:"invoiceNumber"`
	PaymentStatus string          `json:"paymentStatus" binding:"omitempty,oneof=paid unpaid pending"`
	ExpenseDate   *string         `json:"expenseDate" binding:"omitempty,datetime=2006-01-02"`
}

// UpdateExpenseRequest defines a partial edit. Nil fields are left untouched;
// changing Amount or Currency triggers reconversion of the base fields.
type UpdateExpenseRequest struct {
	Amount        *decimal.Decimal `json:"amount"`
	Currency      *string          `json:"currency" binding:"omitempty,len=3"`
	Type          *string          `json:"type" binding:"omitempty,oneof=income cost"`
	CostCategory  *string          `json:"costCategory" binding:"omitempty,oneof=operations freelancers equipment other"`
	Explanation   *string          `json:"explanation"`
	Tags          *[]string        `json:"tags"`
	VendorName    *string          `json:"vendorName"`
	InvoiceNumber *string          `json:"invoiceNumber"`
	PaymentStatus *string          `json:"paymentStatus" binding:"omitempty,oneof=paid unpaid pending"`
	ExpenseDate   *string          `json:"expenseDate" binding:"omitempty,datetime=2006-01-02"`
}

// ParseTextRequest carries raw text for AI extraction.
type ParseTextRequest struct {
	Text    string `json:"text" binding:"required"`
	Subject string `json:"subject"`
}

// BackfillResponse reports the outcome of a backfill sweep.
type BackfillResponse struct {
	Converted int `json:"converted"`
}

// ExpenseResponse defines the data returned for an expense. AmountBase and
// ExchangeRate are both nil until a conversion has succeeded.
type ExpenseResponse struct {
	ExpenseID     string           `json:"expenseID"`
	Amount        decimal.Decimal  `json:"amount"`
	Currency      string           `json:"currency"`
	Type          string           `json:"type"`
	CostCategory  *string          `json:"costCategory,omitempty"`
	AmountBase    *decimal.Decimal `json:"amountBase,omitempty"`
	ExchangeRate  *decimal.Decimal `json:"exchangeRate,omitempty"`
	Explanation   string           `json:"explanation,omitempty"`
	Tags          []string         `json:"tags"`
	VendorName    string           `json:"vendorName,omitempty"`
	InvoiceNumber string           `json:"invoiceNumber,omitempty"`
	PaymentStatus string           `json:"paymentStatus,omitempty"`
	SourceType    string           `json:"sourceType"`
	SenderEmail   string           `json:"senderEmail,omitempty"`
	SenderDomain  string           `json:"senderDomain,omitempty"`
	EmailSubject  string           `json:"emailSubject,omitempty"`
	EmailDate     *time.Time       `json:"emailDate,omitempty"`
	HasAttachment bool             `json:"hasAttachment"`
	Filename      string           `json:"attachmentFilename,omitempty"`
	ExpenseDate   *string          `json:"expenseDate,omitempty"`
	Status        string           `json:"status"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// ToExpenseResponse converts a domain.Expense to ExpenseResponse DTO.
func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	resp := ExpenseResponse{
		ExpenseID:     e.ExpenseID,
		Amount:        e.Amount,
		Currency:      e.Currency,
		Type:          string(e.Type),
		Explanation:   e.Explanation,
		Tags:          e.Tags,
		VendorName:    e.VendorName,
		InvoiceNumber: e.InvoiceNumber,
		PaymentStatus: e.PaymentStatus,
		SourceType:    string(e.SourceType),
		SenderEmail:   e.SenderEmail,
		SenderDomain:  e.SenderDomain,
		EmailSubject:  e.EmailSubject,
		EmailDate:     e.EmailDate,
		HasAttachment: e.HasAttachment(),
		Filename:      e.AttachmentFilename,
		Status:        string(e.Status),
		CreatedAt:     e.CreatedAt,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if e.CostCategory != nil {
		cat := string(*e.CostCategory)
		resp.CostCategory = &cat
	}
	if e.Conversion != nil {
		amountBase := e.Conversion.AmountBase
		rate := e.Conversion.Rate
		resp.AmountBase = &amountBase
		resp.ExchangeRate = &rate
	}
	if e.ExpenseDate != nil {
		d := e.ExpenseDate.Format("2006-01-02")
		resp.ExpenseDate = &d
	}
	return resp
}

// ToListExpenseResponse converts a slice of domain.Expense to response DTOs.
func ToListExpenseResponse(expenses []domain.Expense) []ExpenseResponse {
	responses := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		responses[i] = ToExpenseResponse(&expenses[i])
	}
	return responses
}
