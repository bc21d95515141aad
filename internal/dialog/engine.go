// Package dialog implements the conversation state machine. The engine
// receives one user event at a time, inspects the chat's session state,
// validates input against the market-data gateway, stages partial input
// in the conversation store and commits completed flows to the ledger.
//
// Events of different chats may be handled concurrently; events of one
// chat must be delivered strictly one at a time, in arrival order. The
// transport guarantees that (see internal/telegram).
package dialog

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"moexbot/internal/apperrors"
	"moexbot/internal/logger"
	"moexbot/internal/provider"
	"moexbot/internal/services"
	"moexbot/internal/session"
)

// Conversational triggers and callback tokens recognized by the engine.
const (
	TriggerStart      = "start"
	TriggerCheckStock = "stock price"
	TriggerAddStock   = "AddStock"
	TriggerConvert    = "USD_RUB"
	TriggerPortfolio  = "CheckPortfolio"
	CommandStop       = "/stop"

	CallbackConfirmYes = "add_transaction_yes"
	CallbackConfirmNo  = "add_transaction_no"
)

// Event is one inbound user event: a text message or a callback press.
type Event struct {
	ChatID   int64
	Text     string
	Callback string // callback data; empty for text events
}

// Reply is one outbound message for the presentation adapter to render.
type Reply struct {
	Text       string
	ShowMenu   bool // attach the main reply keyboard
	AskConfirm bool // attach the yes/no inline keyboard
}

// Outcome classifies how an event was handled. Recoverable input errors
// and hard failures take different paths all the way to the user, so
// they are explicit variants rather than a single error value.
type Outcome int

const (
	// OutcomeOK: the flow advanced, completed or answered.
	OutcomeOK Outcome = iota
	// OutcomeRetry: recoverable input error; the state is held and the
	// user re-prompted.
	OutcomeRetry
	// OutcomeFatal: hard failure of the triggering event.
	OutcomeFatal
	// OutcomeInvariant: internal inconsistency; the session was cleared.
	OutcomeInvariant
)

// Result is the engine's response to one event.
type Result struct {
	Replies []Reply
	Outcome Outcome
	Err     error // non-nil for OutcomeFatal and OutcomeInvariant
}

func ok(replies ...Reply) Result {
	return Result{Replies: replies, Outcome: OutcomeOK}
}

func retry(replies ...Reply) Result {
	return Result{Replies: replies, Outcome: OutcomeRetry}
}

func fatal(err error, replies ...Reply) Result {
	return Result{Replies: replies, Outcome: OutcomeFatal, Err: err}
}

func invariant(err error, replies ...Reply) Result {
	return Result{Replies: replies, Outcome: OutcomeInvariant, Err: err}
}

// Engine drives multi-step conversations. All collaborators are
// injected; the engine holds no state of its own beyond them.
type Engine struct {
	store    session.Store
	ledger   services.Ledger
	valuator services.PortfolioValuator
	gateway  provider.Gateway
	log      *zap.SugaredLogger
	now      func() time.Time
}

// NewEngine creates a dialog engine.
func NewEngine(store session.Store, ledger services.Ledger, valuator services.PortfolioValuator, gateway provider.Gateway) *Engine {
	return &Engine{
		store:    store,
		ledger:   ledger,
		valuator: valuator,
		gateway:  gateway,
		log:      logger.Named("dialog"),
		now:      time.Now,
	}
}

// Handle processes one inbound event and returns the replies to render.
func (e *Engine) Handle(ctx context.Context, ev Event) Result {
	if ev.Callback != "" {
		return e.handleConfirmCallback(ctx, ev)
	}

	sess, err := e.store.Get(ctx, ev.ChatID)
	if err != nil {
		e.log.Errorw("session load failed", "chat_id", ev.ChatID, "error", err)
		return fatal(apperrors.Wrap(apperrors.ErrInternal, err), Reply{Text: msgInternalError})
	}

	if sess == nil || sess.State == session.StateIdle {
		return e.handleTrigger(ctx, ev)
	}

	// Starting a new flow while another is in progress would corrupt the
	// scratch; reject instead of force-cancelling half-entered data.
	if isFlowTrigger(ev.Text) {
		return retry(Reply{Text: msgBusy})
	}

	switch sess.State {
	case session.StateAddStockTicker:
		return e.addStockTicker(ctx, sess, ev.Text)
	case session.StateAddStockPrice:
		return e.addStockPrice(ctx, sess, ev.Text)
	case session.StateAddStockQuantity:
		return e.addStockQuantity(ctx, sess, ev.Text)
	case session.StateCheckStockTicker:
		return e.checkStockTicker(ctx, sess, ev.Text)
	case session.StateConvertAmount:
		return e.convertAmount(ctx, sess, ev.Text)
	case session.StateConvertConfirm:
		// Only the inline buttons advance this state; anything else is
		// rejected and the state held, never silently fallen through.
		return retry(Reply{Text: msgAskConfirmRetry})
	default:
		e.log.Errorw("unknown session state", "chat_id", ev.ChatID, "state", sess.State)
		_ = e.store.Clear(ctx, ev.ChatID)
		return invariant(apperrors.ErrSessionCorrupt, Reply{Text: msgInternalError})
	}
}

// handleTrigger routes an event arriving with no flow in progress.
func (e *Engine) handleTrigger(ctx context.Context, ev Event) Result {
	switch strings.TrimSpace(ev.Text) {
	case TriggerStart:
		created, err := e.ledger.EnsureUser(ev.ChatID)
		if err != nil {
			return fatal(err, Reply{Text: msgInternalError})
		}
		if created {
			e.log.Infow("user registered", "chat_id", ev.ChatID)
		}
		return ok(Reply{Text: msgWelcome, ShowMenu: true})

	case TriggerCheckStock:
		return e.beginFlow(ctx, ev.ChatID, session.StateCheckStockTicker, msgAskCheckTicker)

	case TriggerAddStock:
		return e.beginFlow(ctx, ev.ChatID, session.StateAddStockTicker, msgAskTicker)

	case TriggerConvert:
		return e.beginFlow(ctx, ev.ChatID, session.StateConvertAmount, msgAskRubAmount)

	case TriggerPortfolio:
		report, err := e.valuator.Valuate(ctx, ev.ChatID)
		if err != nil {
			return fatal(err, Reply{Text: msgInternalError})
		}
		return ok(Reply{Text: renderReport(report)})

	default:
		return ok(Reply{Text: msgUnknown, ShowMenu: true})
	}
}

// beginFlow creates a fresh session in the given state.
func (e *Engine) beginFlow(ctx context.Context, chatID int64, state session.State, prompt string) Result {
	if err := e.store.Put(ctx, session.New(chatID, state)); err != nil {
		return e.storeFailure(chatID, err)
	}
	return ok(Reply{Text: prompt})
}

func (e *Engine) storeFailure(chatID int64, err error) Result {
	e.log.Errorw("session store failed", "chat_id", chatID, "error", err)
	return fatal(apperrors.Wrap(apperrors.ErrInternal, err), Reply{Text: msgInternalError})
}

// isFlowTrigger reports whether the text would start a new flow or run a
// standalone action.
func isFlowTrigger(text string) bool {
	switch strings.TrimSpace(text) {
	case TriggerStart, TriggerCheckStock, TriggerAddStock, TriggerConvert, TriggerPortfolio:
		return true
	}
	return false
}

// isStop reports whether the text is the cancellation token.
func isStop(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), CommandStop)
}
