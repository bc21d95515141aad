// Package provider fetches market data from external sources: security
// listings and quotes from the MOEX ISS API, and the USD/RUB rate from
// the Central Bank daily feed.
//
// Failures are deliberately reported as absence of data, never as
// errors: a provider outage and a delisted ticker look the same to
// callers, which must branch on absence at every call site. Outages are
// still logged so they remain observable.
package provider

import (
	"context"

	"github.com/shopspring/decimal"
)

// Quote is a point-in-time price for a ticker. Both fields absent means
// the ticker is not currently priceable (distinct from "does not exist").
type Quote struct {
	Price    *decimal.Decimal
	Currency string
}

// Available reports whether the quote carries a usable price.
func (q Quote) Available() bool {
	return q.Price != nil && q.Currency != ""
}

// Gateway is the market-data capability injected into the dialog engine
// and the portfolio valuator. Implementations must honor the request
// context and apply an explicit HTTP timeout; an expired deadline is
// treated the same as any other non-success response.
type Gateway interface {
	// Exists reports whether the ticker has a non-empty board listing.
	Exists(ctx context.Context, ticker string) bool

	// Quote returns the current price and currency for the ticker,
	// with absent fields on any failure or empty payload.
	Quote(ctx context.Context, ticker string) Quote

	// UsdRubRate returns the current USD/RUB rate. The second return is
	// false when the rate is unavailable; callers must not compute with
	// an absent rate.
	UsdRubRate(ctx context.Context) (decimal.Decimal, bool)
}

// gateway combines the MOEX securities client and the CBR rate client
// into the single Gateway capability.
type gateway struct {
	*MoexClient
	*CbrClient
}

// NewGateway creates a Gateway backed by MOEX ISS and the CBR daily feed.
func NewGateway(moex *MoexClient, cbr *CbrClient) Gateway {
	return &gateway{MoexClient: moex, CbrClient: cbr}
}
