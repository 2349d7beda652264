package services

import (
	"context"

	"github.com/mslade/expensemate/internal/core/domain"
)

// ReportingSvcFacade answers summary queries over confirmed records, entirely
// in base-currency terms.
type ReportingSvcFacade interface {
	// Summary computes totals per type, net, counts and the top-vendor
	// rollup. Records without a conversion are excluded from sums.
	Summary(ctx context.Context) (*domain.ExpenseSummary, error)

	// TopVendors ranks confirmed cost records by base-currency total,
	// descending; ties are broken by vendor name ascending.
	TopVendors(ctx context.Context, limit int) ([]domain.VendorTotal, error)
}

// ExportSvc renders the finalized records into a binary spreadsheet report.
type ExportSvc interface {
	// GenerateReport returns the report filename and xlsx content.
	GenerateReport(ctx context.Context) (string, []byte, error)
}
