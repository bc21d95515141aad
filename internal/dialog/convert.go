package dialog

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"moexbot/internal/apperrors"
	"moexbot/internal/models"
	"moexbot/internal/session"
)

// convertAmount handles the amount step of the conversion flow. The
// computed dollar amount is staged in the session and only committed
// after an explicit confirmation.
func (e *Engine) convertAmount(ctx context.Context, sess *session.Session, text string) Result {
	rub, err := parseAmount(text)
	if err != nil {
		return retry(Reply{Text: msgBadRubAmount})
	}

	rate, available := e.gateway.UsdRubRate(ctx)
	if !available {
		if err := e.store.Clear(ctx, sess.ChatID); err != nil {
			return e.storeFailure(sess.ChatID, err)
		}
		return fatal(apperrors.ErrRateUnavailable, Reply{Text: msgRateUnavailable, ShowMenu: true})
	}

	usd := rub.Div(rate).Round(2)
	sess.Scratch[session.FieldUsdAmount] = usd.String()
	sess.State = session.StateConvertConfirm
	if err := e.store.Put(ctx, sess); err != nil {
		return e.storeFailure(sess.ChatID, err)
	}
	return ok(
		Reply{Text: fmt.Sprintf(msgConversion, rub.StringFixed(2), usd.StringFixed(2))},
		Reply{Text: msgAskConfirm, AskConfirm: true},
	)
}

// handleConfirmCallback settles the conversion on a button press. A
// confirmation arriving without the staged amount, or outside the
// confirmation state, is an inconsistency and resets the session.
func (e *Engine) handleConfirmCallback(ctx context.Context, ev Event) Result {
	if ev.Callback != CallbackConfirmYes && ev.Callback != CallbackConfirmNo {
		e.log.Warnw("unrecognized callback ignored", "chat_id", ev.ChatID, "data", ev.Callback)
		return ok()
	}

	sess, err := e.store.Get(ctx, ev.ChatID)
	if err != nil {
		e.log.Errorw("session load failed", "chat_id", ev.ChatID, "error", err)
		return fatal(apperrors.Wrap(apperrors.ErrInternal, err), Reply{Text: msgInternalError})
	}
	if sess == nil || sess.State != session.StateConvertConfirm {
		_ = e.store.Clear(ctx, ev.ChatID)
		return invariant(apperrors.ErrSessionCorrupt, Reply{Text: msgInternalError})
	}

	if ev.Callback == CallbackConfirmNo {
		if err := e.store.Clear(ctx, ev.ChatID); err != nil {
			return e.storeFailure(ev.ChatID, err)
		}
		return ok(Reply{Text: msgPurchaseDeclined, ShowMenu: true})
	}

	raw, staged := sess.Scratch[session.FieldUsdAmount]
	if !staged {
		e.log.Errorw("confirmation without a staged amount", "chat_id", ev.ChatID)
		_ = e.store.Clear(ctx, ev.ChatID)
		return invariant(apperrors.ErrSessionCorrupt, Reply{Text: msgInternalError})
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		e.log.Errorw("staged amount unparsable", "chat_id", ev.ChatID, "raw", raw)
		_ = e.store.Clear(ctx, ev.ChatID)
		return invariant(apperrors.Wrap(apperrors.ErrSessionCorrupt, err), Reply{Text: msgInternalError})
	}

	if _, err := e.ledger.EnsureUser(ev.ChatID); err != nil {
		return fatal(err, Reply{Text: msgPurchaseSaveFailed})
	}
	id, err := e.ledger.InsertCurrencyPurchase(&models.CurrencyPurchase{
		OwnerID:   ev.ChatID,
		UsdAmount: amount,
	})
	if err != nil {
		// Session kept: the user may press the button again to retry.
		return fatal(err, Reply{Text: msgPurchaseSaveFailed})
	}
	e.log.Infow("currency purchase recorded", "chat_id", ev.ChatID, "purchase_id", id, "usd", amount)

	if err := e.store.Clear(ctx, ev.ChatID); err != nil {
		e.log.Errorw("session clear failed after commit", "chat_id", ev.ChatID, "error", err)
	}
	return ok(Reply{Text: msgPurchaseSaved, ShowMenu: true})
}
