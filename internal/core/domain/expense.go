package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseType classifies a record as money in or money out.
type ExpenseType string

const (
	TypeIncome ExpenseType = "income"
	TypeCost   ExpenseType = "cost"
)

// IsValid reports whether the expense type is one of the known values.
func (t ExpenseType) IsValid() bool {
	return t == TypeIncome || t == TypeCost
}

// CostCategory classifies a cost record. It is meaningful only when the
// expense type is cost; income records carry no category.
type CostCategory string

const (
	CategoryOperations  CostCategory = "operations"
	CategoryFreelancers CostCategory = "freelancers"
	CategoryEquipment   CostCategory = "equipment"
	CategoryOther       CostCategory = "other"
)

// IsValid reports whether the cost category is one of the known values.
func (c CostCategory) IsValid() bool {
	switch c {
	case CategoryOperations, CategoryFreelancers, CategoryEquipment, CategoryOther:
		return true
	}
	return false
}

// SourceType records how an expense entered the system.
type SourceType string

const (
	SourceManual      SourceType = "manual"
	SourceTextExtract SourceType = "text_extract"
	SourcePDFExtract  SourceType = "pdf_extract"
	SourceEmailAuto   SourceType = "email_auto"
)

// ExpenseStatus is the record lifecycle status. Drafts are provisional and
// excluded from reporting; the draft -> confirmed transition is one-way.
type ExpenseStatus string

const (
	StatusDraft     ExpenseStatus = "draft"
	StatusConfirmed ExpenseStatus = "confirmed"
)

// Conversion holds the base-currency view of an expense amount together with
// the rate that produced it. A nil *Conversion on an Expense means the record
// has not (yet) been converted; the pairing of amount and rate is therefore
// structural: they are either both present or both absent.
type Conversion struct {
	AmountBase decimal.Decimal `json:"amountBase"`
	Rate       decimal.Decimal `json:"exchangeRate"`
}

// Expense is a single normalized expense record. Amount/Currency are the
// original (source) values; Conversion carries the derived base-currency
// values and is nil until a conversion succeeds.
type Expense struct {
	ExpenseID    string          `json:"expenseID"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"` // 3-letter uppercase code
	Type         ExpenseType     `json:"type"`
	CostCategory *CostCategory   `json:"costCategory,omitempty"` // costs only
	Conversion   *Conversion     `json:"conversion,omitempty"`

	Explanation   string   `json:"explanation,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	VendorName    string   `json:"vendorName,omitempty"`
	InvoiceNumber string   `json:"invoiceNumber,omitempty"`
	PaymentStatus string   `json:"paymentStatus,omitempty"` // paid, unpaid, pending

	SourceType SourceType `json:"sourceType"`

	// Email provenance, populated for records ingested from mail.
	SenderEmail  string     `json:"senderEmail,omitempty"`
	SenderDomain string     `json:"senderDomain,omitempty"`
	EmailSubject string     `json:"emailSubject,omitempty"`
	EmailDate    *time.Time `json:"emailDate,omitempty"`

	AttachmentFilename string `json:"attachmentFilename,omitempty"`
	AttachmentData     []byte `json:"-"`

	ExpenseDate *time.Time    `json:"expenseDate,omitempty"` // business date, not ingestion time
	Status      ExpenseStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"` // immutable after creation
}

// IsConverted reports whether the base-currency fields are populated.
func (e *Expense) IsConverted() bool {
	return e.Conversion != nil
}

// HasAttachment reports whether a source document is stored with the record.
func (e *Expense) HasAttachment() bool {
	return len(e.AttachmentData) > 0
}

// NormalizeCategory clears the cost category on income records so the
// "category only on costs" invariant holds regardless of input.
func (e *Expense) NormalizeCategory() {
	if e.Type != TypeCost {
		e.CostCategory = nil
	}
}
