package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"moexbot/internal/logger"
)

const moexBaseURL = "https://iss.moex.com"

// moexSecurityResponse is the ISS response for a single security lookup.
// Only the board listing matters for the existence check.
type moexSecurityResponse struct {
	Boards struct {
		Data []json.RawMessage `json:"data"`
	} `json:"boards"`
}

// moexQuoteResponse is the ISS response for a TQBR board quote.
// Rows are positional arrays matching the requested columns
// (PREVPRICE, CURRENCYID).
type moexQuoteResponse struct {
	Securities struct {
		Data [][]interface{} `json:"data"`
	} `json:"securities"`
}

// MoexClient fetches security listings and quotes from the MOEX ISS API.
type MoexClient struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
}

// NewMoexClient creates a new MOEX ISS client.
func NewMoexClient(httpClient *http.Client, baseURL string) *MoexClient {
	if baseURL == "" {
		baseURL = moexBaseURL
	}
	return &MoexClient{httpClient: httpClient, baseURL: baseURL}
}

// Exists reports whether the ticker has a non-empty board listing on MOEX.
// Any non-success response or empty listing counts as "does not exist".
func (c *MoexClient) Exists(ctx context.Context, ticker string) bool {
	url := fmt.Sprintf("%s/iss/securities/%s.json", c.baseURL, ticker)

	var payload moexSecurityResponse
	if !c.getJSON(ctx, url, &payload) {
		return false
	}

	return len(payload.Boards.Data) > 0
}

// Quote returns the current TQBR price and currency for the ticker.
// The legacy "SUR" currency marker some ISS responses still carry is
// normalized to "RUB".
func (c *MoexClient) Quote(ctx context.Context, ticker string) Quote {
	url := fmt.Sprintf(
		"%s/iss/engines/stock/markets/shares/boards/TQBR/securities/%s.json?iss.only=securities&securities.columns=PREVPRICE,CURRENCYID",
		c.baseURL, ticker,
	)

	var payload moexQuoteResponse
	if !c.getJSON(ctx, url, &payload) {
		return Quote{}
	}

	if len(payload.Securities.Data) == 0 || len(payload.Securities.Data[0]) < 2 {
		return Quote{}
	}

	row := payload.Securities.Data[0]
	rawPrice, ok := row[0].(float64)
	if !ok {
		// PREVPRICE is null outside trading sessions for some boards.
		return Quote{}
	}
	currency, ok := row[1].(string)
	if !ok {
		return Quote{}
	}
	if currency == "SUR" {
		currency = "RUB"
	}

	price := decimal.NewFromFloat(rawPrice)
	return Quote{Price: &price, Currency: currency}
}

// getJSON performs a GET request and decodes the JSON body into dest.
// Returns false on any failure; the failure is logged, not propagated.
func (c *MoexClient) getJSON(ctx context.Context, url string, dest interface{}) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		logger.Named("moex").Warnf("building request: %v", err)
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Named("moex").Warnf("http request: %v", err)
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		logger.Named("moex").Warnf("unexpected status %d for %s", resp.StatusCode, url)
		return false
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		logger.Named("moex").Warnf("decoding response: %v", err)
		return false
	}

	return true
}
