// Package session holds in-flight multi-step conversation state. A
// session is transient scratch space keyed by chat id; it is created on
// the first state-changing event, mutated on each step and cleared on
// completion, cancellation or abandonment. Nothing here ever reaches the
// relational store.
package session

import "context"

// State tags the step a conversation is waiting on. The empty state is
// idle: no flow in progress.
type State string

const (
	StateIdle State = ""

	// AddStock flow
	StateAddStockTicker   State = "add_stock:ticker"
	StateAddStockPrice    State = "add_stock:unit_price"
	StateAddStockQuantity State = "add_stock:quantity"

	// CheckStock flow
	StateCheckStockTicker State = "check_stock:ticker"

	// CurrencyConvert flow
	StateConvertAmount  State = "convert:rub_amount"
	StateConvertConfirm State = "convert:confirm"
)

// Scratch field names shared between steps of a flow.
const (
	FieldTicker    = "ticker"
	FieldUnitPrice = "unit_price"
	FieldUsdAmount = "usd_amount"
)

// Session is one conversation's state tag plus partially entered fields.
// At most one session exists per chat at a time.
type Session struct {
	ChatID  int64             `json:"chat_id"`
	State   State             `json:"state"`
	Scratch map[string]string `json:"scratch"`
}

// New creates an empty session in the given state.
func New(chatID int64, state State) *Session {
	return &Session{ChatID: chatID, State: state, Scratch: make(map[string]string)}
}

// Store is the conversation scratch space. Get returns nil (and no
// error) when the chat has no active session.
type Store interface {
	Get(ctx context.Context, chatID int64) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Clear(ctx context.Context, chatID int64) error
}
