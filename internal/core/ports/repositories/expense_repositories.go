package repositories

import (
	"context"

	"github.com/mslade/expensemate/internal/core/domain"
)

// ExpenseListFilter narrows List results. Nil fields match everything.
type ExpenseListFilter struct {
	Type   *domain.ExpenseType
	Status *domain.ExpenseStatus
}

// ExpenseReader defines read operations for expense records.
type ExpenseReader interface {
	// FindExpenseByID retrieves a single expense by its ID.
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// ListExpenses retrieves expenses matching the filter, newest first.
	ListExpenses(ctx context.Context, filter ExpenseListFilter) ([]domain.Expense, error)

	// ListUnconverted retrieves expenses whose base-currency conversion is
	// absent, oldest first. Used by the backfill sweep.
	ListUnconverted(ctx context.Context) ([]domain.Expense, error)
}

// ExpenseWriter defines write operations for expense records.
type ExpenseWriter interface {
	// SaveExpense persists a new expense.
	SaveExpense(ctx context.Context, expense domain.Expense) error

	// UpdateExpense overwrites the mutable fields of an existing expense in a
	// single statement so readers never observe a half-applied edit.
	UpdateExpense(ctx context.Context, expense domain.Expense) error

	// UpdateConversion sets only the derived base-currency fields.
	UpdateConversion(ctx context.Context, expenseID string, conv *domain.Conversion) error

	// DeleteExpense removes an expense and its stored attachment.
	DeleteExpense(ctx context.Context, expenseID string) error
}

// ExpenseRepositoryFacade combines all expense repository interfaces.
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
}
