package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mslade/expensemate/internal/core/domain"
	portsrepo "github.com/mslade/expensemate/internal/core/ports/repositories"
)

// defaultVendorLimit caps the vendor rollup in the summary.
const defaultVendorLimit = 10

// ReportingService answers read-side summary queries over confirmed records.
// All sums are over the persisted base-currency amounts; records whose
// conversion is absent are excluded, never counted as zero.
type ReportingService struct {
	expenseRepo portsrepo.ExpenseReader
}

// NewReportingService creates a new ReportingService.
func NewReportingService(expenseRepo portsrepo.ExpenseReader) *ReportingService {
	return &ReportingService{expenseRepo: expenseRepo}
}

// Summary computes base-currency totals per type, net, counts and the
// top-vendor rollup. Net is plain subtraction over the already-persisted
// base amounts, never recomputed with fresh rates.
func (s *ReportingService) Summary(ctx context.Context) (*domain.ExpenseSummary, error) {
	confirmed, err := s.listByStatus(ctx, domain.StatusConfirmed)
	if err != nil {
		return nil, err
	}
	drafts, err := s.listByStatus(ctx, domain.StatusDraft)
	if err != nil {
		return nil, err
	}

	summary := domain.ExpenseSummary{
		TotalIncome: decimal.Zero,
		TotalCosts:  decimal.Zero,
		DraftCount:  len(drafts),
	}
	for i := range confirmed {
		e := &confirmed[i]
		switch e.Type {
		case domain.TypeIncome:
			summary.IncomeCount++
			if e.IsConverted() {
				summary.TotalIncome = summary.TotalIncome.Add(e.Conversion.AmountBase)
			}
		case domain.TypeCost:
			summary.CostCount++
			if e.IsConverted() {
				summary.TotalCosts = summary.TotalCosts.Add(e.Conversion.AmountBase)
			}
		}
	}
	summary.Net = summary.TotalIncome.Sub(summary.TotalCosts)
	summary.TopVendors = rollupVendors(confirmed, defaultVendorLimit)
	return &summary, nil
}

// TopVendors ranks confirmed cost records by base-currency total.
func (s *ReportingService) TopVendors(ctx context.Context, limit int) ([]domain.VendorTotal, error) {
	confirmed, err := s.listByStatus(ctx, domain.StatusConfirmed)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultVendorLimit
	}
	return rollupVendors(confirmed, limit), nil
}

func (s *ReportingService) listByStatus(ctx context.Context, status domain.ExpenseStatus) ([]domain.Expense, error) {
	expenses, err := s.expenseRepo.ListExpenses(ctx, portsrepo.ExpenseListFilter{Status: &status})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s expenses: %w", status, err)
	}
	return expenses, nil
}

// rollupVendors groups confirmed costs by vendor name, excluding records
// without a vendor and records without a conversion. Ordered by total
// descending; ties are broken by vendor name ascending so the result is
// deterministic.
func rollupVendors(expenses []domain.Expense, limit int) []domain.VendorTotal {
	totals := make(map[string]*domain.VendorTotal)
	for i := range expenses {
		e := &expenses[i]
		if e.Type != domain.TypeCost || e.VendorName == "" || !e.IsConverted() {
			continue
		}
		vt, ok := totals[e.VendorName]
		if !ok {
			vt = &domain.VendorTotal{VendorName: e.VendorName, Total: decimal.Zero}
			totals[e.VendorName] = vt
		}
		vt.Total = vt.Total.Add(e.Conversion.AmountBase)
		vt.Count++
	}

	ranked := make([]domain.VendorTotal, 0, len(totals))
	for _, vt := range totals {
		ranked = append(ranked, *vt)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if !ranked[i].Total.Equal(ranked[j].Total) {
			return ranked[i].Total.GreaterThan(ranked[j].Total)
		}
		return ranked[i].VendorName < ranked[j].VendorName
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
