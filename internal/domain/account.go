package domain

import (
	"sync"
	"time"
)

// AccountKind separates the human participant from autonomous traders.
// It decides which float-ledger bucket the account's shares live in;
// nothing else in the order pipeline distinguishes the two.
type AccountKind string

const (
	AccountKindHuman AccountKind = "human"
	AccountKindBot   AccountKind = "bot"
)

// Holding represents an account's position in a single stock symbol.
type Holding struct {
	Quantity         int64
	ReservedQuantity int64 // shares earmarked by in-flight sell orders
}

// Account represents a participant in the simulation: the human player or
// one of the autonomous traders.
type Account struct {
	AccountID    string
	Kind         AccountKind
	CashBalance  int64               // cents; may go negative through accrued borrow fees
	ReservedCash int64               // cash earmarked by in-flight buy orders
	Holdings     map[string]*Holding // symbol → holding
	CreatedAt    time.Time
	Mu           sync.Mutex // per-account lock for balance mutations
}

// AvailableCash returns the account's unreserved cash balance.
func (a *Account) AvailableCash() int64 {
	return a.CashBalance - a.ReservedCash
}

// AvailableQuantity returns the unreserved quantity for the given symbol,
// or 0 if the account has no holding in that symbol.
func (a *Account) AvailableQuantity(symbol string) int64 {
	h, ok := a.Holdings[symbol]
	if !ok {
		return 0
	}
	return h.Quantity - h.ReservedQuantity
}

// HoldingFor returns the holding for symbol, creating an empty one if
// needed. Callers must hold Mu.
func (a *Account) HoldingFor(symbol string) *Holding {
	h, ok := a.Holdings[symbol]
	if !ok {
		h = &Holding{}
		a.Holdings[symbol] = h
	}
	return h
}
