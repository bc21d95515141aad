package services

import (
	"context"

	"github.com/shopspring/decimal"

	"moexbot/internal/models"
)

// Ledger defines the durable storage contract consumed by the dialog
// engine and the valuator. All writes are append-only; no update or
// delete operations exist.
type Ledger interface {
	// EnsureUser creates the user record if absent. Idempotent; reports
	// whether a new record was created.
	EnsureUser(id int64) (created bool, err error)
	InsertHolding(h *models.StockHolding) (id string, err error)
	InsertCurrencyPurchase(p *models.CurrencyPurchase) (id string, err error)
	// HoldingsFor returns the owner's lots in insertion order.
	HoldingsFor(ownerID int64) ([]models.StockHolding, error)
}

// ReportLine is one holding's row in a valuation report. Unpriced lots
// keep Priced false and zero value fields; they are listed but excluded
// from aggregates. IntegrityFlag marks a lot whose stored unit price is
// zero, which cannot produce a percent change.
type ReportLine struct {
	Ticker        string          `json:"ticker"`
	Quantity      int64           `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	Currency      string          `json:"currency"`
	Value         decimal.Decimal `json:"value"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"change_percent"`
	Priced        bool            `json:"priced"`
	IntegrityFlag bool            `json:"integrity_flag"`
}

// PortfolioReport aggregates a user's holdings against current market
// prices. Empty distinguishes "no holdings" from "holdings exist but no
// quote was available".
type PortfolioReport struct {
	Empty       bool            `json:"empty"`
	Total       decimal.Decimal `json:"total"`
	PricedCount int             `json:"priced_count"`
	Lines       []ReportLine    `json:"lines"`
}

// PortfolioValuator defines the contract for portfolio valuation.
type PortfolioValuator interface {
	Valuate(ctx context.Context, ownerID int64) (*PortfolioReport, error)
}
