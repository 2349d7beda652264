package services_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"

	"github.com/mslade/expensemate/internal/core/domain"
	portsrepo "github.com/mslade/expensemate/internal/core/ports/repositories"
	"github.com/mslade/expensemate/internal/core/services"
)

type ExportServiceTestSuite struct {
	suite.Suite
	mockRepo *MockExpenseRepository
	service  *services.ExportService
}

func (suite *ExportServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockExpenseRepository)
	suite.service = services.NewExportService(suite.mockRepo, "EUR")
}

func (suite *ExportServiceTestSuite) TestGenerateReport_WorkbookContents() {
	ctx := context.Background()
	date := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	category := domain.CategoryOperations
	expenses := []domain.Expense{
		{
			ExpenseID:    "exp-1",
			Amount:       decimal.RequireFromString("49.99"),
			Currency:     "USD",
			Type:         domain.TypeCost,
			CostCategory: &category,
			VendorName:   "DigitalOcean",
			Explanation:  "Monthly hosting",
			Tags:         []string{"hosting", "cloud"},
			SourceType:   domain.SourcePDFExtract,
			ExpenseDate:  &date,
			Status:       domain.StatusConfirmed,
			Conversion: &domain.Conversion{
				AmountBase: decimal.RequireFromString("45.97"),
				Rate:       decimal.RequireFromString("1.0876"),
			},
		},
		{
			ExpenseID:  "exp-2",
			Amount:     decimal.NewFromInt(1000),
			Currency:   "EUR",
			Type:       domain.TypeIncome,
			SourceType: domain.SourceManual,
			Status:     domain.StatusConfirmed,
			Conversion: &domain.Conversion{
				AmountBase: decimal.NewFromInt(1000),
				Rate:       decimal.NewFromInt(1),
			},
		},
		// Unconverted record: present on the detail sheet, absent from totals.
		{
			ExpenseID:  "exp-3",
			Amount:     decimal.NewFromInt(75),
			Currency:   "XYZ",
			Type:       domain.TypeCost,
			SourceType: domain.SourceManual,
			Status:     domain.StatusConfirmed,
		},
	}

	suite.mockRepo.On("ListExpenses", ctx, portsrepo.ExpenseListFilter{}).Return(expenses, nil).Once()

	filename, content, err := suite.service.GenerateReport(ctx)

	suite.Require().NoError(err)
	suite.Regexp(`^expenses_\d{4}-\d{2}-\d{2}\.xlsx$`, filename)
	suite.Require().NotEmpty(content)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	suite.Require().NoError(err)
	defer f.Close()

	// Detail sheet headers and first row.
	header, err := f.GetCellValue("All Expenses", "A1")
	suite.Require().NoError(err)
	suite.Equal("Date", header)

	vendor, err := f.GetCellValue("All Expenses", "D2")
	suite.Require().NoError(err)
	suite.Equal("DigitalOcean", vendor)

	tags, err := f.GetCellValue("All Expenses", "K2")
	suite.Require().NoError(err)
	suite.Equal("hosting, cloud", tags)

	// Unconverted row leaves the base-amount column empty.
	baseAmount, err := f.GetCellValue("All Expenses", "H4")
	suite.Require().NoError(err)
	suite.Empty(baseAmount)

	// Summary sheet totals over converted records only.
	incomeLabel, err := f.GetCellValue("Summary", "A3")
	suite.Require().NoError(err)
	suite.Equal("Total Income (EUR)", incomeLabel)

	income, err := f.GetCellValue("Summary", "B3")
	suite.Require().NoError(err)
	suite.Equal("1000", income)

	costs, err := f.GetCellValue("Summary", "B4")
	suite.Require().NoError(err)
	suite.Equal("45.97", costs)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ExportServiceTestSuite) TestGenerateReport_EmptyData() {
	ctx := context.Background()
	suite.mockRepo.On("ListExpenses", ctx, portsrepo.ExpenseListFilter{}).Return([]domain.Expense{}, nil).Once()

	_, content, err := suite.service.GenerateReport(ctx)

	suite.Require().NoError(err)
	f, err := excelize.OpenReader(bytes.NewReader(content))
	suite.Require().NoError(err)
	defer f.Close()

	total, err := f.GetCellValue("Summary", "B3")
	suite.Require().NoError(err)
	suite.Equal("0", total)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ExportServiceTestSuite) TestGenerateReport_RepoError() {
	ctx := context.Background()
	suite.mockRepo.On("ListExpenses", ctx, portsrepo.ExpenseListFilter{}).Return(nil, context.DeadlineExceeded).Once()

	filename, content, err := suite.service.GenerateReport(ctx)

	suite.Require().Error(err)
	suite.Empty(filename)
	suite.Nil(content)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestExportService(t *testing.T) {
	suite.Run(t, new(ExportServiceTestSuite))
}
