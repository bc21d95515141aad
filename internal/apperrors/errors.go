// Package apperrors provides the error taxonomy for the bot.
// Recoverable input errors, missing market data, storage failures and
// internal invariant violations must stay distinguishable all the way up
// to the dialog layer, which renders them very differently to the user.
package apperrors

// AppError is a structured application error with a stable code,
// a user-presentable message and an optional wrapped internal error.
type AppError struct {
	Code     string
	Message  string
	Internal error
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:     sentinel.Code,
		Message:  sentinel.Message,
		Internal: internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:     sentinel.Code,
		Message:  message,
		Internal: sentinel.Internal,
	}
}

// Input validation errors. Recoverable: the dialog re-prompts in place.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input"}
	ErrTickerNotFound = &AppError{Code: "TICKER_NOT_FOUND", Message: "Ticker is not listed on the exchange"}
)

// Market data errors. Absence of data, not provider exceptions.
var (
	ErrRateUnavailable  = &AppError{Code: "RATE_UNAVAILABLE", Message: "USD/RUB rate is currently unavailable"}
	ErrQuoteUnavailable = &AppError{Code: "QUOTE_UNAVAILABLE", Message: "Quote is currently unavailable"}
)

// Storage errors. Fatal for the triggering event.
var (
	ErrLedgerWrite = &AppError{Code: "LEDGER_WRITE_FAILED", Message: "Failed to persist the record"}
	ErrInternal    = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred"}
)

// Invariant violations. Internal defects, never user mistakes.
var (
	ErrSessionCorrupt = &AppError{Code: "SESSION_CORRUPT", Message: "Conversation state is inconsistent"}
	ErrZeroUnitPrice  = &AppError{Code: "ZERO_UNIT_PRICE", Message: "Holding has a zero purchase price"}
)
