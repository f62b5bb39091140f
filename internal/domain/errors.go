package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes. Fill-time resource
// shortfalls are not errors: they become Status failed + FailReason on the
// order so the settlement sweep keeps going.
var (
	ErrAccountAlreadyExists = errors.New("account_already_exists")
	ErrAccountNotFound      = errors.New("account_not_found")
	ErrOrderNotFound        = errors.New("order_not_found")
	ErrOrderNotCancellable  = errors.New("order_not_cancellable")
	ErrInsufficientCash     = errors.New("insufficient_cash")
	ErrInsufficientHoldings = errors.New("insufficient_holdings")
	ErrInsufficientCredit   = errors.New("insufficient_credit")
	ErrSellRestricted       = errors.New("sell_restricted")
	ErrSymbolNotFound       = errors.New("symbol_not_found")
	ErrPositionNotFound     = errors.New("position_not_found")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
