package dialog

import (
	"context"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"moexbot/internal/apperrors"
	"moexbot/internal/models"
	"moexbot/internal/session"
	"moexbot/internal/validator"
)

// holdingDraft is the assembled AddStock input, validated as a whole
// before anything touches the ledger.
type holdingDraft struct {
	Ticker    string `validate:"required"`
	UnitPrice string `validate:"required,positive_decimal"`
	Quantity  int64  `validate:"required,gt=0"`
}

// addStockTicker handles the first AddStock step. The ticker is
// upper-cased and must be listed on the exchange before the flow moves
// on.
func (e *Engine) addStockTicker(ctx context.Context, sess *session.Session, text string) Result {
	if isStop(text) {
		return e.cancelAddStock(ctx, sess.ChatID)
	}

	ticker := strings.ToUpper(strings.TrimSpace(text))
	if ticker == "" || !e.gateway.Exists(ctx, ticker) {
		return retry(
			Reply{Text: msgTickerNotFound},
			Reply{Text: msgAskTickerRetry},
		)
	}

	sess.Scratch[session.FieldTicker] = ticker
	sess.State = session.StateAddStockPrice
	if err := e.store.Put(ctx, sess); err != nil {
		return e.storeFailure(sess.ChatID, err)
	}
	return ok(Reply{Text: msgAskUnitPrice})
}

// addStockPrice handles the unit price step.
func (e *Engine) addStockPrice(ctx context.Context, sess *session.Session, text string) Result {
	if isStop(text) {
		return e.cancelAddStock(ctx, sess.ChatID)
	}

	price, err := parseAmount(text)
	if err != nil {
		return retry(
			Reply{Text: msgBadUnitPrice},
			Reply{Text: msgAskUnitPriceRetry},
		)
	}

	sess.Scratch[session.FieldUnitPrice] = price.String()
	sess.State = session.StateAddStockQuantity
	if err := e.store.Put(ctx, sess); err != nil {
		return e.storeFailure(sess.ChatID, err)
	}
	return ok(Reply{Text: msgAskQuantity})
}

// addStockQuantity handles the final step and commits the holding.
// A ledger failure keeps the session so the user may resend the
// quantity and retry the commit.
func (e *Engine) addStockQuantity(ctx context.Context, sess *session.Session, text string) Result {
	if isStop(text) {
		return e.cancelAddStock(ctx, sess.ChatID)
	}

	qty, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil || qty <= 0 {
		return retry(
			Reply{Text: msgBadQuantity},
			Reply{Text: msgAskQuantityRetry},
		)
	}

	draft := holdingDraft{
		Ticker:    sess.Scratch[session.FieldTicker],
		UnitPrice: sess.Scratch[session.FieldUnitPrice],
		Quantity:  qty,
	}
	if err := validator.Get().Struct(draft); err != nil {
		// Earlier steps must have staged the ticker and price; a hole
		// here means the session no longer matches its state.
		e.log.Errorw("holding draft failed validation", "chat_id", sess.ChatID, "error", err)
		_ = e.store.Clear(ctx, sess.ChatID)
		return invariant(apperrors.Wrap(apperrors.ErrSessionCorrupt, err), Reply{Text: msgInternalError})
	}
	unitPrice := decimal.RequireFromString(draft.UnitPrice)

	if _, err := e.ledger.EnsureUser(sess.ChatID); err != nil {
		return fatal(err, Reply{Text: msgHoldingSaveFailed})
	}
	holding := &models.StockHolding{
		OwnerID:      sess.ChatID,
		Ticker:       draft.Ticker,
		Quantity:     draft.Quantity,
		UnitPrice:    unitPrice,
		PurchaseDate: e.now(),
	}
	id, err := e.ledger.InsertHolding(holding)
	if err != nil {
		return fatal(err, Reply{Text: msgHoldingSaveFailed})
	}
	e.log.Infow("holding recorded",
		"chat_id", sess.ChatID,
		"holding_id", id,
		"ticker", draft.Ticker,
		"quantity", draft.Quantity,
	)

	if err := e.store.Clear(ctx, sess.ChatID); err != nil {
		e.log.Errorw("session clear failed after commit", "chat_id", sess.ChatID, "error", err)
	}
	return ok(Reply{Text: msgHoldingSaved, ShowMenu: true})
}

// cancelAddStock discards the in-progress entry.
func (e *Engine) cancelAddStock(ctx context.Context, chatID int64) Result {
	if err := e.store.Clear(ctx, chatID); err != nil {
		return e.storeFailure(chatID, err)
	}
	return ok(Reply{Text: msgAddStockCancelled, ShowMenu: true})
}

// parseAmount parses a strictly positive decimal amount, accepting both
// the comma and the dot as the fraction separator.
func parseAmount(text string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, apperrors.ErrInvalidInput
	}
	return d, nil
}
