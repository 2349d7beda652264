package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mslade/expensemate/internal/apperrors"
	"github.com/mslade/expensemate/internal/core/domain"
	portsrepo "github.com/mslade/expensemate/internal/core/ports/repositories"
)

const expenseColumns = `
	expense_id, amount, currency, type, cost_category,
	amount_base, exchange_rate,
	explanation, tags, vendor_name, invoice_number, payment_status,
	source_type, sender_email, sender_domain, email_subject, email_date,
	attachment_filename, attachment_data, expense_date, status, created_at`

// PgxExpenseRepository implements ExpenseRepositoryFacade using pgxpool.
type PgxExpenseRepository struct {
	BaseRepository
}

// NewPgxExpenseRepository creates a new PgxExpenseRepository.
func NewPgxExpenseRepository(db *pgxpool.Pool) *PgxExpenseRepository {
	return &PgxExpenseRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// SaveExpense inserts a new expense row.
func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	amountBase, rate := conversionColumns(expense.Conversion)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO expenses (
			expense_id, amount, currency, type, cost_category,
			amount_base, exchange_rate,
			explanation, tags, vendor_name, invoice_number, payment_status,
			source_type, sender_email, sender_domain, email_subject, email_date,
			attachment_filename, attachment_data, expense_date, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`,
		expense.ExpenseID, expense.Amount, expense.Currency, expense.Type, costCategoryColumn(expense.CostCategory),
		amountBase, rate,
		expense.Explanation, expense.Tags, expense.VendorName, expense.InvoiceNumber, expense.PaymentStatus,
		expense.SourceType, expense.SenderEmail, expense.SenderDomain, expense.EmailSubject, expense.EmailDate,
		expense.AttachmentFilename, expense.AttachmentData, expense.ExpenseDate, expense.Status, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}

// FindExpenseByID retrieves a single expense.
func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE expense_id = $1`, expenseID)
	expense, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("expense %s: %w", expenseID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query expense: %w", err)
	}
	return expense, nil
}

// ListExpenses retrieves expenses matching the filter, newest first.
func (r *PgxExpenseRepository) ListExpenses(ctx context.Context, filter portsrepo.ExpenseListFilter) ([]domain.Expense, error) {
	var conditions []string
	var args []interface{}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		conditions = append(conditions, "type = $"+strconv.Itoa(len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, "status = $"+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + expenseColumns + ` FROM expenses`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	return r.queryExpenses(ctx, query, args...)
}

// ListUnconverted retrieves expenses whose conversion is absent, oldest
// first so the backfill sweep works through the backlog in order.
func (r *PgxExpenseRepository) ListUnconverted(ctx context.Context) ([]domain.Expense, error) {
	return r.queryExpenses(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE amount_base IS NULL ORDER BY created_at ASC`)
}

// UpdateExpense overwrites the mutable fields of an expense in a single
// statement. Provenance fields, the attachment and created_at are immutable.
func (r *PgxExpenseRepository) UpdateExpense(ctx context.Context, expense domain.Expense) error {
	amountBase, rate := conversionColumns(expense.Conversion)
	tag, err := r.Pool.Exec(ctx, `
		UPDATE expenses SET
			amount = $1, currency = $2, type = $3, cost_category = $4,
			amount_base = $5, exchange_rate = $6,
			explanation = $7, tags = $8, vendor_name = $9, invoice_number = $10,
			payment_status = $11, expense_date = $12, status = $13
		WHERE expense_id = $14`,
		expense.Amount, expense.Currency, expense.Type, costCategoryColumn(expense.CostCategory),
		amountBase, rate,
		expense.Explanation, expense.Tags, expense.VendorName, expense.InvoiceNumber,
		expense.PaymentStatus, expense.ExpenseDate, expense.Status,
		expense.ExpenseID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("expense %s: %w", expense.ExpenseID, apperrors.ErrNotFound)
	}
	return nil
}

// UpdateConversion sets only the derived base-currency columns.
func (r *PgxExpenseRepository) UpdateConversion(ctx context.Context, expenseID string, conv *domain.Conversion) error {
	amountBase, rate := conversionColumns(conv)
	tag, err := r.Pool.Exec(ctx,
		`UPDATE expenses SET amount_base = $1, exchange_rate = $2 WHERE expense_id = $3`,
		amountBase, rate, expenseID)
	if err != nil {
		return fmt.Errorf("failed to update conversion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, apperrors.ErrNotFound)
	}
	return nil
}

// DeleteExpense removes an expense row; the attachment lives in the same row
// so no further cleanup is needed.
func (r *PgxExpenseRepository) DeleteExpense(ctx context.Context, expenseID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM expenses WHERE expense_id = $1`, expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxExpenseRepository) queryExpenses(ctx context.Context, query string, args ...interface{}) ([]domain.Expense, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		expenses = append(expenses, *expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense rows: %w", err)
	}
	if expenses == nil {
		expenses = []domain.Expense{}
	}
	return expenses, nil
}

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var (
		e            domain.Expense
		expenseType  string
		sourceType   string
		status       string
		costCategory *string
		amountBase   *decimal.Decimal
		rate         *decimal.Decimal
		emailDate    *time.Time
		expenseDate  *time.Time
	)
	err := row.Scan(
		&e.ExpenseID, &e.Amount, &e.Currency, &expenseType, &costCategory,
		&amountBase, &rate,
		&e.Explanation, &e.Tags, &e.VendorName, &e.InvoiceNumber, &e.PaymentStatus,
		&sourceType, &e.SenderEmail, &e.SenderDomain, &e.EmailSubject, &emailDate,
		&e.AttachmentFilename, &e.AttachmentData, &expenseDate, &status, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Type = domain.ExpenseType(expenseType)
	e.SourceType = domain.SourceType(sourceType)
	e.Status = domain.ExpenseStatus(status)
	e.EmailDate = emailDate
	e.ExpenseDate = expenseDate
	if costCategory != nil {
		cat := domain.CostCategory(*costCategory)
		e.CostCategory = &cat
	}
	if amountBase != nil && rate != nil {
		e.Conversion = &domain.Conversion{AmountBase: *amountBase, Rate: *rate}
	}
	return &e, nil
}

func conversionColumns(conv *domain.Conversion) (*decimal.Decimal, *decimal.Decimal) {
	if conv == nil {
		return nil, nil
	}
	return &conv.AmountBase, &conv.Rate
}

func costCategoryColumn(cat *domain.CostCategory) *string {
	if cat == nil {
		return nil
	}
	s := string(*cat)
	return &s
}
