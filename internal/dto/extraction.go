package dto

import (
	"github.com/shopspring/decimal"
)

// ExtractedExpense is the strict decode target for the AI extractor's JSON
// output. All fields are optional at the wire level; ApplyDefaults fills the
// documented fallbacks after decoding so downstream code never sees an
// ambiguous half-filled object.
type ExtractedExpense struct {
	Amount        *decimal.Decimal `json:"amount" validate:"-"`
	Type          string           `json:"type" validate:"omitempty,oneof=income cost"`
	CostCategory  string           `json:"cost_category" validate:"omitempty,oneof=operations freelancers equipment other"`
	Currency      string           `json:"currency" validate:"omitempty,len=3"`
	Explanation   string           `json:"explanation"`
	Tags          []string         `json:"tags"`
	VendorName    string           `json:"vendor_name"`
	InvoiceNumber string           `json:"invoice_number"`
	PaymentStatus string           `json:"payment_status" validate:"omitempty,oneof=paid unpaid pending"`
	ExpenseDate   string           `json:"expense_date" validate:"omitempty,datetime=2006-01-02"`
}

// ApplyDefaults fills missing required fields: amount 0, type cost, and the
// configured fallback currency. Zero is kept as a valid amount, not treated
// as missing.
func (e *ExtractedExpense) ApplyDefaults(fallbackCurrency string) {
	if e.Amount == nil {
		zero := decimal.Zero
		e.Amount = &zero
	}
	if e.Type == "" {
		e.Type = "cost"
	}
	if e.Currency == "" {
		e.Currency = fallbackCurrency
	}
}
