package dialog

import (
	"fmt"
	"strings"

	"moexbot/internal/services"
)

// renderReport formats a valuation report as a single message. Unpriced
// lots are listed so the user sees the full portfolio even when a quote
// is missing.
func renderReport(report *services.PortfolioReport) string {
	if report.Empty {
		return msgEmptyPortfolio
	}

	var b strings.Builder
	fmt.Fprintf(&b, msgPortfolioHeader, report.PricedCount, report.Total.StringFixed(2))
	for _, line := range report.Lines {
		b.WriteString("\n\n")
		if !line.Priced {
			fmt.Fprintf(&b, msgPortfolioUnpriced, line.Ticker, line.Quantity)
			continue
		}
		fmt.Fprintf(&b, msgPortfolioLine,
			line.Ticker,
			line.Quantity,
			line.CurrentPrice.StringFixed(2),
			line.Currency,
			line.Value.StringFixed(2),
			line.Currency,
		)
		b.WriteString("\n")
		if line.IntegrityFlag {
			b.WriteString(msgPortfolioBadLot)
			continue
		}
		fmt.Fprintf(&b, msgPortfolioDetail,
			line.UnitPrice.StringFixed(2),
			line.Change.StringFixed(2),
			line.ChangePercent.StringFixed(2),
		)
	}
	return b.String()
}
