package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mslade/expensemate/internal/apperrors"
	"github.com/mslade/expensemate/internal/core/ports"
)

// RateProviderService caches the daily rate table from the external feed.
// The cache is keyed by calendar date and guarded by a single mutex; holding
// the lock across the fetch guarantees at most one network call per day-miss
// while concurrent callers wait for the in-flight result.
type RateProviderService struct {
	source       ports.RateSource
	baseCurrency string
	logger       *slog.Logger
	now          func() time.Time

	mu        sync.Mutex
	rates     map[string]decimal.Decimal
	cacheDate string // YYYY-MM-DD of the cached table
}

// NewRateProviderService creates a RateProviderService.
func NewRateProviderService(source ports.RateSource, baseCurrency string, logger *slog.Logger) *RateProviderService {
	return &RateProviderService{
		source:       source,
		baseCurrency: strings.ToUpper(baseCurrency),
		logger:       logger,
		now:          time.Now,
	}
}

// GetRate returns the rate for one unit of base currency in the given
// currency. The base currency short-circuits to 1 without taking the lock.
func (s *RateProviderService) GetRate(ctx context.Context, currency string) (decimal.Decimal, error) {
	currency = strings.ToUpper(currency)
	if currency == s.baseCurrency {
		return decimal.NewFromInt(1), nil
	}

	rates, err := s.currentRates(ctx)
	if err != nil {
		return decimal.Decimal{}, err
	}

	rate, ok := rates[currency]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", apperrors.ErrCurrencyUnsupported, currency)
	}
	return rate, nil
}

// SupportedCurrencies returns the sorted currency codes in the current table.
func (s *RateProviderService) SupportedCurrencies(ctx context.Context) ([]string, error) {
	rates, err := s.currentRates(ctx)
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(rates))
	for code := range rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes, nil
}

// currentRates returns the cached table, refreshing it when the cached date
// is not today. On refresh failure a stale table (any date) is served as a
// fallback; with no table at all the failure propagates as
// ErrRateSourceUnavailable.
func (s *RateProviderService) currentRates(ctx context.Context) (map[string]decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.now().Format("2006-01-02")
	if s.cacheDate == today && s.rates != nil {
		return s.rates, nil
	}

	fresh, err := s.source.FetchDailyRates(ctx)
	if err != nil {
		if s.rates != nil {
			s.logger.Warn("rate feed fetch failed, serving stale cache",
				slog.String("cache_date", s.cacheDate),
				slog.String("error", err.Error()))
			return s.rates, nil
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRateSourceUnavailable, err)
	}

	s.rates = fresh
	s.cacheDate = today
	s.logger.Info("rate table refreshed", slog.Int("currencies", len(fresh)))
	return s.rates, nil
}
