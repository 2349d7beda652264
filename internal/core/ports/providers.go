package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// RateSource fetches the full current-day exchange rate table from an
// external feed in one call. Rates follow the feed convention: 1 unit of the
// base currency equals rate units of the keyed currency.
type RateSource interface {
	FetchDailyRates(ctx context.Context) (map[string]decimal.Decimal, error)
}

// TextCompleter is the opaque AI collaborator: prompt in, raw model text out.
type TextCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// PDFTextExtractor pulls plain text out of a binary PDF document. An
// image-only or empty document yields apperrors.ErrNoExtractableText.
type PDFTextExtractor interface {
	ExtractText(data []byte) (string, error)
}
