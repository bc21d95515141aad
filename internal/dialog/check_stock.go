package dialog

import (
	"context"
	"fmt"
	"strings"

	"moexbot/internal/session"
)

// checkStockTicker answers a single-shot quote lookup. Whatever the
// outcome, the session ends with this event.
func (e *Engine) checkStockTicker(ctx context.Context, sess *session.Session, text string) Result {
	ticker := strings.ToUpper(strings.TrimSpace(text))

	replies := []Reply{{Text: fmt.Sprintf(msgCheckHeader, ticker)}}
	switch {
	case !e.gateway.Exists(ctx, ticker):
		replies = append(replies, Reply{Text: msgStockNotFound, ShowMenu: true})
	default:
		quote := e.gateway.Quote(ctx, ticker)
		if quote.Available() {
			replies = append(replies, Reply{
				Text:     fmt.Sprintf(msgQuotePrice, quote.Price.StringFixed(2), quote.Currency),
				ShowMenu: true,
			})
		} else {
			replies = append(replies, Reply{Text: msgQuoteUnavailable, ShowMenu: true})
		}
	}

	if err := e.store.Clear(ctx, sess.ChatID); err != nil {
		return e.storeFailure(sess.ChatID, err)
	}
	return ok(replies...)
}
