package provider

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"moexbot/internal/logger"
)

const cbrBaseURL = "https://www.cbr-xml-daily.ru"

// cbrDailyResponse is the daily_json.js feed. Only the USD entry is used.
type cbrDailyResponse struct {
	Valute map[string]struct {
		Value float64 `json:"Value"`
	} `json:"Valute"`
}

// CbrClient fetches the USD/RUB exchange rate from the Central Bank
// daily JSON feed.
type CbrClient struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
}

// NewCbrClient creates a new CBR daily-feed client.
func NewCbrClient(httpClient *http.Client, baseURL string) *CbrClient {
	if baseURL == "" {
		baseURL = cbrBaseURL
	}
	return &CbrClient{httpClient: httpClient, baseURL: baseURL}
}

// UsdRubRate returns the current USD/RUB rate, or false when the feed is
// unavailable or carries no USD entry. A zero or negative rate is also
// treated as absent: it must never reach a division.
func (c *CbrClient) UsdRubRate(ctx context.Context) (decimal.Decimal, bool) {
	url := c.baseURL + "/daily_json.js"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		logger.Named("cbr").Warnf("building request: %v", err)
		return decimal.Zero, false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Named("cbr").Warnf("http request: %v", err)
		return decimal.Zero, false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		logger.Named("cbr").Warnf("unexpected status %d", resp.StatusCode)
		return decimal.Zero, false
	}

	var payload cbrDailyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		logger.Named("cbr").Warnf("decoding response: %v", err)
		return decimal.Zero, false
	}

	usd, ok := payload.Valute["USD"]
	if !ok || usd.Value <= 0 {
		logger.Named("cbr").Warn("no usable USD entry in daily feed")
		return decimal.Zero, false
	}

	return decimal.NewFromFloat(usd.Value), true
}
