package domain

import (
	"github.com/shopspring/decimal"
)

// VendorTotal is one row of the per-vendor cost rollup, in base currency.
type VendorTotal struct {
	VendorName string          `json:"vendorName"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
}

// ExpenseSummary aggregates confirmed records in base currency. Records
// whose conversion is absent are excluded from the sums, never counted as
// zero.
type ExpenseSummary struct {
	TotalIncome decimal.Decimal `json:"totalIncome"`
	TotalCosts  decimal.Decimal `json:"totalCosts"`
	Net         decimal.Decimal `json:"net"`
	IncomeCount int             `json:"incomeCount"`
	CostCount   int             `json:"costCount"`
	DraftCount  int             `json:"draftCount"`
	TopVendors  []VendorTotal   `json:"topVendors"`
}

// CategoryBreakdown maps each cost category (plus "uncategorized") to its
// base-currency total over the supplied records.
type CategoryBreakdown map[string]decimal.Decimal
