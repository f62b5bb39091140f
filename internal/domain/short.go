package domain

// ShortState is the lifecycle state of an open short position.
type ShortState string

const (
	ShortStateOpen              ShortState = "open"
	ShortStateMarginCallPending ShortState = "margin_call_pending"
	ShortStateForcedCovering    ShortState = "forced_covering"
)

// ShortPosition tracks borrowed-and-sold shares for one owner and symbol.
// Created on a short-sell fill, mutated every cycle by borrow-fee accrual
// and the mark-to-market check, destroyed on full cover.
type ShortPosition struct {
	PositionID string
	OwnerID    string
	Symbol     string

	Shares           int64
	EntryPrice       int64 // volume-weighted average entry, cents
	LockedCollateral int64 // total collateral backing the position, cents
	CashCollateral   int64 // portion of LockedCollateral paid in as cash top-ups
	BorrowFeesPaid   int64 // cumulative borrow fees, cents

	OpenedAtCycle            int64
	MarginCallStartedAtCycle int64 // 0 while no margin call is pending

	State ShortState
}

// Value returns the position's mark value at the given price.
func (p *ShortPosition) Value(price int64) int64 {
	return price * p.Shares
}

// UnrealizedPL returns the mark-to-market profit at the given price.
// Shorts profit when the price falls below the entry.
func (p *ShortPosition) UnrealizedPL(price int64) int64 {
	return (p.EntryPrice - price) * p.Shares
}

// EffectiveCollateral is the locked collateral adjusted by unrealized P/L,
// the quantity the maintenance-margin check compares against.
func (p *ShortPosition) EffectiveCollateral(price int64) int64 {
	return p.LockedCollateral + p.UnrealizedPL(price)
}
