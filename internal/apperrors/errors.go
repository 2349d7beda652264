package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrCurrencyUnsupported indicates the target currency is absent from the
// rate table. Non-fatal: callers leave derived base-currency fields empty and
// the backfill sweep retries later.
var ErrCurrencyUnsupported = errors.New("currency not supported by rate source")

// ErrRateSourceUnavailable indicates the rate feed could not be fetched and
// no cached rates exist at all. It must propagate; substituting a default
// rate would corrupt totals.
var ErrRateSourceUnavailable = errors.New("rate source unavailable and no cached rates")

// ErrExtractionFailed indicates the AI extractor returned no usable
// structured data for the given input.
var ErrExtractionFailed = errors.New("expense extraction failed")

// ErrMalformedAIResponse indicates the extractor produced output that could
// not be decoded as structured expense data.
var ErrMalformedAIResponse = errors.New("malformed AI response")

// ErrNoExtractableText indicates a PDF contained no extractable text
// (image-only or empty document).
var ErrNoExtractableText = errors.New("no extractable text in PDF")
