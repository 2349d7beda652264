// Package rates provides the external exchange-rate feed adapter. Rates are
// taken from the European Central Bank daily reference feed, which quotes
// every currency against EUR: 1 EUR = rate units of the quoted currency.
package rates

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultFeedURL is the ECB daily reference rate feed.
const DefaultFeedURL = "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-daily.xml"

// envelope mirrors the eurofxref XML document. The rates sit two Cube levels
// deep: Envelope > Cube > Cube[@time] > Cube[@currency,@rate].
type envelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Cube    struct {
		Day struct {
			Time  string `xml:"time,attr"`
			Rates []struct {
				Currency string `xml:"currency,attr"`
				Rate     string `xml:"rate,attr"`
			} `xml:"Cube"`
		} `xml:"Cube"`
	} `xml:"Cube"`
}

// ECBClient fetches the daily rate table over HTTP.
type ECBClient struct {
	feedURL    string
	httpClient *http.Client
}

// NewECBClient creates an ECBClient with a bounded request timeout.
func NewECBClient(feedURL string, timeout time.Duration) *ECBClient {
	if feedURL == "" {
		feedURL = DefaultFeedURL
	}
	return &ECBClient{
		feedURL:    feedURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchDailyRates downloads and parses the full current-day rate table in a
// single call. The feed's own base currency (EUR) is included with rate 1.
func (c *ECBClient) FetchDailyRates(ctx context.Context) (map[string]decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rate feed request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rate feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read rate feed response: %w", err)
	}

	return parseFeed(body)
}

func parseFeed(body []byte) (map[string]decimal.Decimal, error) {
	var env envelope
	if err := xml.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to parse rate feed XML: %w", err)
	}

	ratesByCode := map[string]decimal.Decimal{
		"EUR": decimal.NewFromInt(1),
	}
	for _, r := range env.Cube.Day.Rates {
		if r.Currency == "" || r.Rate == "" {
			continue
		}
		rate, err := decimal.NewFromString(r.Rate)
		if err != nil {
			return nil, fmt.Errorf("invalid rate %q for %s: %w", r.Rate, r.Currency, err)
		}
		// A zero or negative rate would poison every conversion that divides
		// by it, and the table stays cached for the day.
		if !rate.IsPositive() {
			return nil, fmt.Errorf("non-positive rate %q for %s", r.Rate, r.Currency)
		}
		ratesByCode[r.Currency] = rate
	}

	if len(ratesByCode) == 1 {
		return nil, fmt.Errorf("rate feed contained no currency entries")
	}
	return ratesByCode, nil
}
