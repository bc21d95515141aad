package services

import (
	"context"

	"github.com/shopspring/decimal"

	"moexbot/internal/logger"
	"moexbot/internal/provider"
)

var hundred = decimal.NewFromInt(100)

// portfolioService reconciles stored purchase lots against freshly
// fetched market prices.
type portfolioService struct {
	ledger  Ledger
	gateway provider.Gateway
}

// NewPortfolioService creates a new PortfolioValuator.
func NewPortfolioService(ledger Ledger, gateway provider.Gateway) PortfolioValuator {
	return &portfolioService{ledger: ledger, gateway: gateway}
}

// Valuate loads the owner's lots and prices each one independently.
// Repeated tickers are quoted once per lot, not deduplicated: every lot
// is an independent purchase.
func (s *portfolioService) Valuate(ctx context.Context, ownerID int64) (*PortfolioReport, error) {
	holdings, err := s.ledger.HoldingsFor(ownerID)
	if err != nil {
		return nil, err
	}

	if len(holdings) == 0 {
		return &PortfolioReport{Empty: true}, nil
	}

	report := &PortfolioReport{Lines: make([]ReportLine, 0, len(holdings))}

	for _, h := range holdings {
		line := ReportLine{
			Ticker:    h.Ticker,
			Quantity:  h.Quantity,
			UnitPrice: h.UnitPrice,
		}

		quote := s.gateway.Quote(ctx, h.Ticker)
		if !quote.Available() {
			// Listed with quantity only; contributes nothing to totals.
			report.Lines = append(report.Lines, line)
			continue
		}

		current := *quote.Price
		line.Priced = true
		line.CurrentPrice = current
		line.Currency = quote.Currency
		line.Value = current.Mul(decimal.NewFromInt(h.Quantity))
		line.Change = current.Sub(h.UnitPrice)

		if h.UnitPrice.IsZero() {
			// Data-integrity violation: a zero purchase price cannot be
			// divided into a percent change. Flag instead of guessing.
			line.IntegrityFlag = true
			logger.Named("portfolio").Errorw("holding with zero unit price",
				"owner_id", ownerID, "ticker", h.Ticker, "holding_id", h.ID)
		} else {
			line.ChangePercent = line.Change.Div(h.UnitPrice).Mul(hundred).Round(2)
		}

		report.Total = report.Total.Add(line.Value)
		report.PricedCount++
		report.Lines = append(report.Lines, line)
	}

	return report, nil
}
