package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mslade/expensemate/internal/core/domain"
	portsrepo "github.com/mslade/expensemate/internal/core/ports/repositories"
	"github.com/mslade/expensemate/internal/core/services"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	mockRepo *MockExpenseRepository
	service  *services.ReportingService
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockExpenseRepository)
	suite.service = services.NewReportingService(suite.mockRepo)
}

func statusFilter(status domain.ExpenseStatus) interface{} {
	return mock.MatchedBy(func(f portsrepo.ExpenseListFilter) bool {
		return f.Type == nil && f.Status != nil && *f.Status == status
	})
}

func confirmedCost(vendor, amountBase string) domain.Expense {
	return domain.Expense{
		Type:       domain.TypeCost,
		VendorName: vendor,
		Status:     domain.StatusConfirmed,
		Conversion: &domain.Conversion{
			AmountBase: decimal.RequireFromString(amountBase),
			Rate:       decimal.NewFromInt(1),
		},
	}
}

func (suite *ReportingServiceTestSuite) TestSummary_ExcludesUnconvertedFromTotals() {
	ctx := context.Background()
	confirmed := []domain.Expense{
		{
			Type:   domain.TypeIncome,
			Status: domain.StatusConfirmed,
			Conversion: &domain.Conversion{
				AmountBase: decimal.RequireFromString("1000.00"),
				Rate:       decimal.NewFromInt(1),
			},
		},
		confirmedCost("Hetzner", "200.00"),
		// Unconverted cost: counted, but contributes nothing to the total.
		{Type: domain.TypeCost, Status: domain.StatusConfirmed},
	}
	drafts := []domain.Expense{
		{Type: domain.TypeCost, Status: domain.StatusDraft},
		{Type: domain.TypeCost, Status: domain.StatusDraft},
	}

	suite.mockRepo.On("ListExpenses", ctx, statusFilter(domain.StatusConfirmed)).Return(confirmed, nil).Once()
	suite.mockRepo.On("ListExpenses", ctx, statusFilter(domain.StatusDraft)).Return(drafts, nil).Once()

	summary, err := suite.service.Summary(ctx)

	suite.Require().NoError(err)
	suite.True(summary.TotalIncome.Equal(decimal.RequireFromString("1000.00")), "income %s", summary.TotalIncome)
	suite.True(summary.TotalCosts.Equal(decimal.RequireFromString("200.00")), "costs %s", summary.TotalCosts)
	suite.True(summary.Net.Equal(decimal.RequireFromString("800.00")), "net %s", summary.Net)
	suite.Equal(1, summary.IncomeCount)
	suite.Equal(2, summary.CostCount)
	suite.Equal(2, summary.DraftCount)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestSummary_NegativeNet() {
	ctx := context.Background()
	confirmed := []domain.Expense{confirmedCost("AWS", "300.00")}

	suite.mockRepo.On("ListExpenses", ctx, statusFilter(domain.StatusConfirmed)).Return(confirmed, nil).Once()
	suite.mockRepo.On("ListExpenses", ctx, statusFilter(domain.StatusDraft)).Return([]domain.Expense{}, nil).Once()

	summary, err := suite.service.Summary(ctx)

	suite.Require().NoError(err)
	suite.True(summary.Net.Equal(decimal.RequireFromString("-300.00")), "net %s", summary.Net)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestTopVendors_OrderedWithDeterministicTies() {
	ctx := context.Background()
	confirmed := []domain.Expense{
		confirmedCost("Beta", "300.00"),
		confirmedCost("Alpha", "100.00"),
		confirmedCost("Alpha", "200.00"),
		confirmedCost("Gamma", "50.00"),
		// No vendor name: excluded from the rollup entirely.
		confirmedCost("", "999.00"),
		// Unconverted cost with a vendor: also excluded.
		{Type: domain.TypeCost, VendorName: "Ghost", Status: domain.StatusConfirmed},
		// Income never shows up in the vendor rollup.
		{
			Type:       domain.TypeIncome,
			VendorName: "Client",
			Status:     domain.StatusConfirmed,
			Conversion: &domain.Conversion{AmountBase: decimal.RequireFromString("5000.00"), Rate: decimal.NewFromInt(1)},
		},
	}

	suite.mockRepo.On("ListExpenses", ctx, statusFilter(domain.StatusConfirmed)).Return(confirmed, nil).Once()

	vendors, err := suite.service.TopVendors(ctx, 0)

	suite.Require().NoError(err)
	suite.Require().Len(vendors, 3)
	// Alpha and Beta tie at 300; the tie breaks on name ascending.
	suite.Equal("Alpha", vendors[0].VendorName)
	suite.Equal(2, vendors[0].Count)
	suite.Equal("Beta", vendors[1].VendorName)
	suite.Equal("Gamma", vendors[2].VendorName)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestTopVendors_LimitApplied() {
	ctx := context.Background()
	confirmed := []domain.Expense{
		confirmedCost("A", "10.00"),
		confirmedCost("B", "20.00"),
		confirmedCost("C", "30.00"),
	}

	suite.mockRepo.On("ListExpenses", ctx, statusFilter(domain.StatusConfirmed)).Return(confirmed, nil).Once()

	vendors, err := suite.service.TopVendors(ctx, 2)

	suite.Require().NoError(err)
	suite.Require().Len(vendors, 2)
	suite.Equal("C", vendors[0].VendorName)
	suite.Equal("B", vendors[1].VendorName)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestSummary_RepoError() {
	ctx := context.Background()
	suite.mockRepo.On("ListExpenses", ctx, mock.AnythingOfType("repositories.ExpenseListFilter")).
		Return(nil, context.DeadlineExceeded).Once()

	summary, err := suite.service.Summary(ctx)

	suite.Require().Error(err)
	suite.Nil(summary)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestReportingService(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
