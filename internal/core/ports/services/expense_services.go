package services

import (
	"context"

	"github.com/mslade/expensemate/internal/core/domain"
	"github.com/mslade/expensemate/internal/dto"
)

// ExpenseReaderSvc defines read operations for expense records.
type ExpenseReaderSvc interface {
	// GetExpenseByID retrieves a single expense.
	GetExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// ListExpenses retrieves expenses, newest first, optionally filtered by
	// type and status. Empty filter strings match everything.
	ListExpenses(ctx context.Context, typeFilter, statusFilter string) ([]domain.Expense, error)
}

// ExpenseWriterSvc defines the mutation paths. Every path that touches
// amount or currency runs the converter before persisting so the derived
// base-currency fields never go stale.
type ExpenseWriterSvc interface {
	// CreateExpense creates a manual expense, converting to base currency
	// before the record is persisted.
	CreateExpense(ctx context.Context, req dto.CreateExpenseRequest) (*domain.Expense, error)

	// CreateFromExtraction creates a draft expense from AI-extracted fields,
	// optionally storing the source document as an attachment.
	CreateFromExtraction(ctx context.Context, extracted dto.ExtractedExpense, source domain.SourceType, filename string, attachment []byte) (*domain.Expense, error)

	// UpdateExpense applies a partial edit and reconciles the conversion if
	// amount or currency changed.
	UpdateExpense(ctx context.Context, expenseID string, req dto.UpdateExpenseRequest) (*domain.Expense, error)

	// ConfirmExpense transitions a draft to confirmed (one-way).
	ConfirmExpense(ctx context.Context, expenseID string) (*domain.Expense, error)

	// DeleteExpense removes an expense and its attachment.
	DeleteExpense(ctx context.Context, expenseID string) error

	// BackfillConversions retries conversion for every record whose base
	// fields are absent and returns how many were filled in. Safe to re-run.
	BackfillConversions(ctx context.Context) (int, error)
}

// ExpenseSvcFacade combines all expense-related service interfaces.
type ExpenseSvcFacade interface {
	ExpenseReaderSvc
	ExpenseWriterSvc
}
