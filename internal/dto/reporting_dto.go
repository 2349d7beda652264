package dto

import (
	"github.com/mslade/expensemate/internal/core/domain"
	"github.com/shopspring/decimal"
)

// VendorTotalResponse is one row of the top-vendor rollup.
type VendorTotalResponse struct {
	VendorName string          `json:"vendorName"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
}

// SummaryResponse is the base-currency expense summary returned by the
// reporting endpoint.
type SummaryResponse struct {
	TotalIncome decimal.Decimal       `json:"totalIncome"`
	TotalCosts  decimal.Decimal       `json:"totalCosts"`
	Net         decimal.Decimal       `json:"net"`
	IncomeCount int                   `json:"incomeCount"`
	CostCount   int                   `json:"costCount"`
	DraftCount  int                   `json:"draftCount"`
	TopVendors  []VendorTotalResponse `json:"topVendors"`
}

// ToSummaryResponse converts a domain.ExpenseSummary to its DTO.
func ToSummaryResponse(s *domain.ExpenseSummary) SummaryResponse {
	vendors := make([]VendorTotalResponse, len(s.TopVendors))
	for i, v := range s.TopVendors {
		vendors[i] = VendorTotalResponse{VendorName: v.VendorName, Total: v.Total, Count: v.Count}
	}
	return SummaryResponse{
		TotalIncome: s.TotalIncome,
		TotalCosts:  s.TotalCosts,
		Net:         s.Net,
		IncomeCount: s.IncomeCount,
		CostCount:   s.CostCount,
		DraftCount:  s.DraftCount,
		TopVendors:  vendors,
	}
}
