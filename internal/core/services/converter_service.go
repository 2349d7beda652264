package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mslade/expensemate/internal/apperrors"
	"github.com/mslade/expensemate/internal/core/domain"
	portssvc "github.com/mslade/expensemate/internal/core/ports/services"
)

// baseScale is the number of fractional digits kept on base-currency amounts.
const baseScale = 2

// ConverterService turns (amount, currency) pairs into base-currency
// conversions using the rate provider.
type ConverterService struct {
	rates        portssvc.RateProviderSvc
	baseCurrency string
}

// NewConverterService creates a ConverterService.
func NewConverterService(rates portssvc.RateProviderSvc, baseCurrency string) *ConverterService {
	return &ConverterService{
		rates:        rates,
		baseCurrency: strings.ToUpper(baseCurrency),
	}
}

// BaseCurrency returns the configured base currency code.
func (s *ConverterService) BaseCurrency() string {
	return s.baseCurrency
}

// Convert produces the base-currency amount and the rate used. The feed
// quotes 1 base-unit = rate target-units, so converting target to base
// divides. Results round to two fractional digits, half away from zero;
// amounts are magnitudes so ties always round up, never down, avoiding
// systematic under-reporting of costs.
//
// An unsupported currency returns (nil, nil): the caller leaves the derived
// fields empty and the backfill sweep retries later. A total rate-source
// outage propagates as an error.
func (s *ConverterService) Convert(ctx context.Context, amount decimal.Decimal, currency string) (*domain.Conversion, error) {
	currency = strings.ToUpper(currency)
	if currency == s.baseCurrency {
		return &domain.Conversion{
			AmountBase: amount.Round(baseScale),
			Rate:       decimal.NewFromInt(1),
		}, nil
	}

	rate, err := s.rates.GetRate(ctx, currency)
	if err != nil {
		if errors.Is(err, apperrors.ErrCurrencyUnsupported) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up rate for %s: %w", currency, err)
	}

	return &domain.Conversion{
		AmountBase: amount.Div(rate).Round(baseScale),
		Rate:       rate,
	}, nil
}
