package services

import (
	"context"

	"github.com/mslade/expensemate/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateProviderSvc supplies daily exchange rates against the base currency.
type RateProviderSvc interface {
	// GetRate returns how many units of the given currency equal one unit of
	// the base currency. The base currency itself always yields 1 without any
	// network access. Unknown codes yield apperrors.ErrCurrencyUnsupported;
	// a failed fetch with no cache at all yields
	// apperrors.ErrRateSourceUnavailable.
	GetRate(ctx context.Context, currency string) (decimal.Decimal, error)

	// SupportedCurrencies returns the sorted codes known to the rate source.
	SupportedCurrencies(ctx context.Context) ([]string, error)
}

// ConverterSvc converts original-currency amounts into the base currency.
type ConverterSvc interface {
	// Convert returns the base-currency amount and the rate used, or
	// (nil, nil) when the currency is unsupported; callers must then leave
	// the record's derived fields empty rather than substituting zero.
	Convert(ctx context.Context, amount decimal.Decimal, currency string) (*domain.Conversion, error)

	// BaseCurrency returns the configured base currency code.
	BaseCurrency() string
}
