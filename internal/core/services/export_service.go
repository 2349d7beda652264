package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/mslade/expensemate/internal/core/domain"
	portsrepo "github.com/mslade/expensemate/internal/core/ports/repositories"
)

const (
	detailSheet  = "All Expenses"
	summarySheet = "Summary"
)

var detailHeaders = []string{
	"Date", "Type", "Category", "Vendor", "Explanation",
	"Amount", "Currency", "Amount (Base)", "Exchange Rate",
	"Invoice #", "Tags", "Source",
}

var detailColumnWidths = []float64{12, 10, 12, 20, 30, 12, 10, 14, 14, 15, 20, 12}

// ExportService renders expense records into an xlsx workbook with a detail
// sheet and a base-currency summary sheet.
type ExportService struct {
	expenseRepo  portsrepo.ExpenseReader
	baseCurrency string
}

// NewExportService creates a new ExportService.
func NewExportService(expenseRepo portsrepo.ExpenseReader, baseCurrency string) *ExportService {
	return &ExportService{
		expenseRepo:  expenseRepo,
		baseCurrency: strings.ToUpper(baseCurrency),
	}
}

// GenerateReport builds the workbook over all records, newest first, and
// returns a dated filename plus the file content. Summary figures sum the
// persisted base-currency amounts; unconverted records appear on the detail
// sheet but contribute nothing to the totals.
func (s *ExportService) GenerateReport(ctx context.Context) (string, []byte, error) {
	expenses, err := s.expenseRepo.ListExpenses(ctx, portsrepo.ExpenseListFilter{})
	if err != nil {
		return "", nil, fmt.Errorf("failed to list expenses for export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", detailSheet); err != nil {
		return "", nil, fmt.Errorf("failed to set up detail sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return "", nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}

	if err := s.writeDetailSheet(f, expenses); err != nil {
		return "", nil, err
	}
	if err := s.writeSummarySheet(f, expenses); err != nil {
		return "", nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	filename := fmt.Sprintf("expenses_%s.xlsx", time.Now().Format("2006-01-02"))
	return filename, buf.Bytes(), nil
}

func (s *ExportService) writeDetailSheet(f *excelize.File, expenses []domain.Expense) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	amountFmt := "#,##0.00"
	amountStyle, err := f.NewStyle(&excelize.Style{
		CustomNumFmt: &amountFmt,
		Alignment:    &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return fmt.Errorf("failed to create amount style: %w", err)
	}
	rateFmt := "#,##0.000000"
	rateStyle, err := f.NewStyle(&excelize.Style{
		CustomNumFmt: &rateFmt,
		Alignment:    &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return fmt.Errorf("failed to create rate style: %w", err)
	}

	for col, header := range detailHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(detailSheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		if err := f.SetCellStyle(detailSheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}
	}

	for i := range expenses {
		e := &expenses[i]
		row := i + 2

		date := ""
		if e.ExpenseDate != nil {
			date = e.ExpenseDate.Format("2006-01-02")
		}
		category := ""
		if e.CostCategory != nil {
			category = string(*e.CostCategory)
		}
		values := []interface{}{
			date,
			string(e.Type),
			category,
			e.VendorName,
			e.Explanation,
			e.Amount.InexactFloat64(),
			e.Currency,
			nil, // amount base, set below when converted
			nil, // rate
			e.InvoiceNumber,
			strings.Join(e.Tags, ", "),
			string(e.SourceType),
		}
		if e.IsConverted() {
			values[7] = e.Conversion.AmountBase.InexactFloat64()
			values[8] = e.Conversion.Rate.InexactFloat64()
		}

		for col, v := range values {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(detailSheet, cell, v); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}

		for _, col := range []int{6, 8} {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellStyle(detailSheet, cell, cell, amountStyle)
		}
		rateCell, _ := excelize.CoordinatesToCellName(9, row)
		_ = f.SetCellStyle(detailSheet, rateCell, rateCell, rateStyle)
	}

	for col, width := range detailColumnWidths {
		name, _ := excelize.ColumnNumberToName(col + 1)
		if err := f.SetColWidth(detailSheet, name, name, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	// Keep the header row visible while scrolling.
	if err := f.SetPanes(detailSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header row: %w", err)
	}
	return nil
}

func (s *ExportService) writeSummarySheet(f *excelize.File, expenses []domain.Expense) error {
	totalIncome := decimal.Zero
	totalCosts := decimal.Zero
	categoryTotals := domain.CategoryBreakdown{}
	for i := range expenses {
		e := &expenses[i]
		if !e.IsConverted() {
			continue
		}
		switch e.Type {
		case domain.TypeIncome:
			totalIncome = totalIncome.Add(e.Conversion.AmountBase)
		case domain.TypeCost:
			totalCosts = totalCosts.Add(e.Conversion.AmountBase)
			key := "uncategorized"
			if e.CostCategory != nil {
				key = string(*e.CostCategory)
			}
			categoryTotals[key] = categoryTotals[key].Add(e.Conversion.AmountBase)
		}
	}
	net := totalIncome.Sub(totalCosts)

	type summaryRow struct {
		label string
		value interface{}
	}
	rows := []summaryRow{
		{"Expense Summary", nil},
		{"", nil},
		{fmt.Sprintf("Total Income (%s)", s.baseCurrency), totalIncome.InexactFloat64()},
		{fmt.Sprintf("Total Costs (%s)", s.baseCurrency), totalCosts.InexactFloat64()},
		{fmt.Sprintf("Net (%s)", s.baseCurrency), net.InexactFloat64()},
		{"", nil},
		{"Costs by Category", nil},
	}
	for _, cat := range []string{"operations", "freelancers", "equipment", "other", "uncategorized"} {
		rows = append(rows, summaryRow{capitalize(cat), categoryTotals[cat].InexactFloat64()})
	}
	rows = append(rows,
		summaryRow{"", nil},
		summaryRow{"Report Generated", time.Now().Format("2006-01-02")},
		summaryRow{"Total Records", len(expenses)},
	)

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create bold style: %w", err)
	}
	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return fmt.Errorf("failed to create title style: %w", err)
	}

	for i, row := range rows {
		labelCell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetCellValue(summarySheet, labelCell, row.label); err != nil {
			return fmt.Errorf("failed to write summary label: %w", err)
		}
		if row.value != nil {
			valueCell, _ := excelize.CoordinatesToCellName(2, i+1)
			if err := f.SetCellValue(summarySheet, valueCell, row.value); err != nil {
				return fmt.Errorf("failed to write summary value: %w", err)
			}
		}
		switch {
		case row.label == "Expense Summary" || row.label == "Costs by Category":
			_ = f.SetCellStyle(summarySheet, labelCell, labelCell, titleStyle)
		case strings.HasPrefix(row.label, "Total ") || strings.HasPrefix(row.label, "Net "):
			_ = f.SetCellStyle(summarySheet, labelCell, labelCell, boldStyle)
		}
	}

	if err := f.SetColWidth(summarySheet, "A", "A", 25); err != nil {
		return fmt.Errorf("failed to set summary column width: %w", err)
	}
	return f.SetColWidth(summarySheet, "B", "B", 15)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
