package services_test

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/mslade/expensemate/internal/core/domain"
	"github.com/mslade/expensemate/internal/core/ports"
	portsrepo "github.com/mslade/expensemate/internal/core/ports/repositories"
	portssvc "github.com/mslade/expensemate/internal/core/ports/services"
)

// --- Mock ExpenseRepository ---
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) ListExpenses(ctx context.Context, filter portsrepo.ExpenseListFilter) ([]domain.Expense, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) ListUnconverted(ctx context.Context) ([]domain.Expense, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) UpdateExpense(ctx context.Context, expense domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) UpdateConversion(ctx context.Context, expenseID string, conv *domain.Conversion) error {
	args := m.Called(ctx, expenseID, conv)
	return args.Error(0)
}

func (m *MockExpenseRepository) DeleteExpense(ctx context.Context, expenseID string) error {
	args := m.Called(ctx, expenseID)
	return args.Error(0)
}

var _ portsrepo.ExpenseRepositoryFacade = (*MockExpenseRepository)(nil)

// --- Mock RateSource ---
type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) FetchDailyRates(ctx context.Context) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

var _ ports.RateSource = (*MockRateSource)(nil)

// --- Mock RateProvider ---
type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) GetRate(ctx context.Context, currency string) (decimal.Decimal, error) {
	args := m.Called(ctx, currency)
	if args.Get(0) == nil {
		return decimal.Decimal{}, args.Error(1)
	}
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockRateProvider) SupportedCurrencies(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

var _ portssvc.RateProviderSvc = (*MockRateProvider)(nil)

// --- Mock Converter ---
type MockConverter struct {
	mock.Mock
}

func (m *MockConverter) Convert(ctx context.Context, amount decimal.Decimal, currency string) (*domain.Conversion, error) {
	args := m.Called(ctx, amount, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversion), args.Error(1)
}

func (m *MockConverter) BaseCurrency() string {
	args := m.Called()
	return args.String(0)
}

var _ portssvc.ConverterSvc = (*MockConverter)(nil)

// --- Mock TextCompleter ---
type MockTextCompleter struct {
	mock.Mock
}

func (m *MockTextCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

var _ ports.TextCompleter = (*MockTextCompleter)(nil)

// --- Mock PDFTextExtractor ---
type MockPDFTextExtractor struct {
	mock.Mock
}

func (m *MockPDFTextExtractor) ExtractText(data []byte) (string, error) {
	args := m.Called(data)
	return args.String(0), args.Error(1)
}

var _ ports.PDFTextExtractor = (*MockPDFTextExtractor)(nil)
