package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mslade/expensemate/internal/apperrors"
	"github.com/mslade/expensemate/internal/core/domain"
	portsrepo "github.com/mslade/expensemate/internal/core/ports/repositories"
	portssvc "github.com/mslade/expensemate/internal/core/ports/services"
	"github.com/mslade/expensemate/internal/dto"
)

// ExpenseService implements the expense lifecycle: create, edit, confirm,
// delete, and the conversion backfill sweep. Every path that sets or changes
// amount/currency runs the converter before persisting, so derived
// base-currency fields are never stale.
type ExpenseService struct {
	expenseRepo      portsrepo.ExpenseRepositoryFacade
	converter        portssvc.ConverterSvc
	fallbackCurrency string
}

// NewExpenseService creates a new ExpenseService. fallbackCurrency is
// applied when input carries no currency at all.
func NewExpenseService(expenseRepo portsrepo.ExpenseRepositoryFacade, converter portssvc.ConverterSvc, fallbackCurrency string) *ExpenseService {
	return &ExpenseService{
		expenseRepo:      expenseRepo,
		converter:        converter,
		fallbackCurrency: strings.ToUpper(fallbackCurrency),
	}
}

// CreateExpense creates a manual expense record. The conversion runs before
// the record is persisted; an unsupported currency leaves the derived fields
// absent without blocking the save.
func (s *ExpenseService) CreateExpense(ctx context.Context, req dto.CreateExpenseRequest) (*domain.Expense, error) {
	// Amounts are magnitudes; the sign lives in the type.
	if req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount must not be negative", apperrors.ErrValidation)
	}

	expense := domain.Expense{
		ExpenseID:     uuid.NewString(),
		Amount:        req.Amount,
		Currency:      s.normalizeCurrency(req.Currency),
		Type:          domain.ExpenseType(req.Type),
		Explanation:   req.Explanation,
		Tags:          req.Tags,
		VendorName:    req.VendorName,
		InvoiceNumber: req.InvoiceNumber,
		PaymentStatus: req.PaymentStatus,
		SourceType:    domain.SourceManual,
		Status:        domain.StatusConfirmed,
		CreatedAt:     time.Now().UTC(),
	}
	if req.CostCategory != nil {
		cat := domain.CostCategory(*req.CostCategory)
		expense.CostCategory = &cat
	}
	expense.NormalizeCategory()

	if req.ExpenseDate != nil {
		d, err := parseDate(*req.ExpenseDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid expense date", apperrors.ErrValidation)
		}
		expense.ExpenseDate = d
	}

	conv, err := s.converter.Convert(ctx, expense.Amount, expense.Currency)
	if err != nil {
		return nil, fmt.Errorf("failed to convert expense amount: %w", err)
	}
	expense.Conversion = conv

	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}
	return &expense, nil
}

// CreateFromExtraction creates a draft expense from AI-extracted fields.
// Extracted records always start as drafts so a human can review them.
func (s *ExpenseService) CreateFromExtraction(ctx context.Context, extracted dto.ExtractedExpense, source domain.SourceType, filename string, attachment []byte) (*domain.Expense, error) {
	if extracted.Amount == nil {
		return nil, fmt.Errorf("%w: extracted expense has no amount", apperrors.ErrValidation)
	}
	if extracted.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: extracted amount must not be negative", apperrors.ErrValidation)
	}

	expense := domain.Expense{
		ExpenseID:          uuid.NewString(),
		Amount:             *extracted.Amount,
		Currency:           s.normalizeCurrency(extracted.Currency),
		Type:               domain.ExpenseType(extracted.Type),
		Explanation:        extracted.Explanation,
		Tags:               extracted.Tags,
		VendorName:         extracted.VendorName,
		InvoiceNumber:      extracted.InvoiceNumber,
		PaymentStatus:      extracted.PaymentStatus,
		SourceType:         source,
		AttachmentFilename: filename,
		AttachmentData:     attachment,
		Status:             domain.StatusDraft,
		CreatedAt:          time.Now().UTC(),
	}
	if cat := domain.CostCategory(extracted.CostCategory); cat.IsValid() {
		expense.CostCategory = &cat
	}
	expense.NormalizeCategory()

	if extracted.ExpenseDate != "" {
		if d, err := parseDate(extracted.ExpenseDate); err == nil {
			expense.ExpenseDate = d
		}
	}

	conv, err := s.converter.Convert(ctx, expense.Amount, expense.Currency)
	if err != nil {
		return nil, fmt.Errorf("failed to convert expense amount: %w", err)
	}
	expense.Conversion = conv

	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to save extracted expense: %w", err)
	}
	return &expense, nil
}

// GetExpenseByID retrieves a single expense.
func (s *ExpenseService) GetExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense %s: %w", expenseID, err)
	}
	return expense, nil
}

// ListExpenses retrieves expenses newest first, optionally filtered.
func (s *ExpenseService) ListExpenses(ctx context.Context, typeFilter, statusFilter string) ([]domain.Expense, error) {
	var filter portsrepo.ExpenseListFilter
	if typeFilter != "" {
		t := domain.ExpenseType(typeFilter)
		if !t.IsValid() {
			return nil, fmt.Errorf("%w: unknown expense type %q", apperrors.ErrValidation, typeFilter)
		}
		filter.Type = &t
	}
	if statusFilter != "" {
		st := domain.ExpenseStatus(statusFilter)
		if st != domain.StatusDraft && st != domain.StatusConfirmed {
			return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, statusFilter)
		}
		filter.Status = &st
	}

	expenses, err := s.expenseRepo.ListExpenses(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	if expenses == nil {
		expenses = []domain.Expense{}
	}
	return expenses, nil
}

// UpdateExpense applies a partial edit. If the edit touches amount or
// currency, the conversion is re-run and both derived fields overwritten,
// including overwriting a previous success with absence when the new
// conversion fails. The whole edit persists as one update.
func (s *ExpenseService) UpdateExpense(ctx context.Context, expenseID string, req dto.UpdateExpenseRequest) (*domain.Expense, error) {
	if req.Amount != nil && req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount must not be negative", apperrors.ErrValidation)
	}

	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load expense %s for update: %w", expenseID, err)
	}

	needsReconvert := false
	if req.Amount != nil && !req.Amount.Equal(expense.Amount) {
		expense.Amount = *req.Amount
		needsReconvert = true
	}
	if req.Currency != nil {
		currency := s.normalizeCurrency(*req.Currency)
		if currency != expense.Currency {
			expense.Currency = currency
			needsReconvert = true
		}
	}
	if req.Type != nil {
		expense.Type = domain.ExpenseType(*req.Type)
	}
	if req.CostCategory != nil {
		cat := domain.CostCategory(*req.CostCategory)
		expense.CostCategory = &cat
	}
	expense.NormalizeCategory()

	if req.Explanation != nil {
		expense.Explanation = *req.Explanation
	}
	if req.Tags != nil {
		expense.Tags = *req.Tags
	}
	if req.VendorName != nil {
		expense.VendorName = *req.VendorName
	}
	if req.InvoiceNumber != nil {
		expense.InvoiceNumber = *req.InvoiceNumber
	}
	if req.PaymentStatus != nil {
		expense.PaymentStatus = *req.PaymentStatus
	}
	if req.ExpenseDate != nil {
		d, err := parseDate(*req.ExpenseDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid expense date", apperrors.ErrValidation)
		}
		expense.ExpenseDate = d
	}

	if needsReconvert {
		conv, err := s.converter.Convert(ctx, expense.Amount, expense.Currency)
		if err != nil {
			return nil, fmt.Errorf("failed to reconvert expense amount: %w", err)
		}
		expense.Conversion = conv
	}

	if err := s.expenseRepo.UpdateExpense(ctx, *expense); err != nil {
		return nil, fmt.Errorf("failed to update expense %s: %w", expenseID, err)
	}
	return expense, nil
}

// ConfirmExpense transitions a draft to confirmed. Confirming an already
// confirmed record is a no-op.
func (s *ExpenseService) ConfirmExpense(ctx context.Context, expenseID string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load expense %s for confirm: %w", expenseID, err)
	}
	if expense.Status == domain.StatusConfirmed {
		return expense, nil
	}

	expense.Status = domain.StatusConfirmed
	if err := s.expenseRepo.UpdateExpense(ctx, *expense); err != nil {
		return nil, fmt.Errorf("failed to confirm expense %s: %w", expenseID, err)
	}
	return expense, nil
}

// DeleteExpense removes an expense and its attachment.
func (s *ExpenseService) DeleteExpense(ctx context.Context, expenseID string) error {
	if err := s.expenseRepo.DeleteExpense(ctx, expenseID); err != nil {
		return fmt.Errorf("failed to delete expense %s: %w", expenseID, err)
	}
	return nil
}

// BackfillConversions retries conversion for every record whose derived
// fields are absent and persists the successes. The absence check makes the
// sweep idempotent: converted records are never reprocessed, failures stay
// untouched and are retried on the next sweep. A total rate-source outage
// aborts the sweep, returning whatever was converted before the failure.
func (s *ExpenseService) BackfillConversions(ctx context.Context) (int, error) {
	pending, err := s.expenseRepo.ListUnconverted(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list unconverted expenses: %w", err)
	}

	converted := 0
	for i := range pending {
		expense := &pending[i]
		conv, err := s.converter.Convert(ctx, expense.Amount, expense.Currency)
		if err != nil {
			return converted, fmt.Errorf("backfill aborted at expense %s: %w", expense.ExpenseID, err)
		}
		if conv == nil {
			continue // still unsupported, retried next sweep
		}
		if err := s.expenseRepo.UpdateConversion(ctx, expense.ExpenseID, conv); err != nil {
			return converted, fmt.Errorf("failed to persist conversion for %s: %w", expense.ExpenseID, err)
		}
		converted++
	}
	return converted, nil
}

func (s *ExpenseService) normalizeCurrency(currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return s.fallbackCurrency
	}
	return currency
}

func parseDate(value string) (*time.Time, error) {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
