package engine

import (
	"math"

	"github.com/google/uuid"

	"github.com/efreitasn/minimarket/internal/domain"
)

// shortBook tracks open short positions in creation order plus the
// per-symbol short interest. It is guarded by the coordinator's lock.
type shortBook struct {
	positions []*domain.ShortPosition // creation order; sweep order
	byKey     map[string]*domain.ShortPosition
	interest  map[string]int64 // symbol → total shares sold short
}

func newShortBook() *shortBook {
	return &shortBook{
		byKey:    make(map[string]*domain.ShortPosition),
		interest: make(map[string]int64),
	}
}

func shortKey(ownerID, symbol string) string {
	return ownerID + "\x00" + symbol
}

func (b *shortBook) get(ownerID, symbol string) *domain.ShortPosition {
	return b.byKey[shortKey(ownerID, symbol)]
}

func (b *shortBook) add(p *domain.ShortPosition) {
	b.positions = append(b.positions, p)
	b.byKey[shortKey(p.OwnerID, p.Symbol)] = p
}

func (b *shortBook) remove(p *domain.ShortPosition) {
	delete(b.byKey, shortKey(p.OwnerID, p.Symbol))
	for i, q := range b.positions {
		if q == p {
			b.positions = append(b.positions[:i], b.positions[i+1:]...)
			return
		}
	}
}

func (b *shortBook) applySplit(symbol string, ratio int64) {
	for _, p := range b.positions {
		if p.Symbol == symbol {
			p.Shares *= ratio
			p.EntryPrice /= ratio
		}
	}
	b.interest[symbol] *= ratio
}

// settleShortSell opens (or extends) a short position: shares are
// borrowed from the float, the sale proceeds are credited, and the
// initial margin is locked against the owner's credit line.
func (c *Coordinator) settleShortSell(o *domain.Order, acct *domain.Account, price int64, quote Quote, sink func(*domain.Event)) {
	rec, ok := c.ledger.Record(o.Symbol)
	if !ok {
		c.failOrder(o, domain.FailReasonInsufficientFloat, sink)
		return
	}

	capShares := int64(math.Floor(float64(rec.TotalFloat) * c.tables.Shorts.MaxShortPercentOfFloat))
	if c.shorts.interest[o.Symbol]+o.Quantity > capShares {
		c.failOrder(o, domain.FailReasonShortCapExceeded, sink)
		return
	}
	if c.ledger.AvailableForPurchase(o.Symbol) < o.Quantity {
		c.failOrder(o, domain.FailReasonInsufficientFloat, sink)
		return
	}

	// Swap the buffered submission reservation for the actual margin at
	// the settlement price.
	margin := domain.MulPercent(price*o.Quantity, c.tables.Shorts.InitialMarginPercent)
	line := c.credit.LineFor(o.OwnerID)
	line.ReleaseMargin(o.ReservedCredit)
	o.ReservedCredit = 0
	if err := line.ReserveMargin(margin); err != nil {
		c.failOrder(o, domain.FailReasonInsufficientCredit, sink)
		return
	}

	c.ledger.Reserve(o.Symbol, o.Quantity)
	c.shorts.interest[o.Symbol] += o.Quantity

	pos := c.shorts.get(o.OwnerID, o.Symbol)
	if pos == nil {
		pos = &domain.ShortPosition{
			PositionID:       uuid.New().String(),
			OwnerID:          o.OwnerID,
			Symbol:           o.Symbol,
			Shares:           o.Quantity,
			EntryPrice:       price,
			LockedCollateral: margin,
			OpenedAtCycle:    c.cycle,
			State:            domain.ShortStateOpen,
		}
		c.shorts.add(pos)
	} else {
		pos.EntryPrice = (pos.EntryPrice*pos.Shares + price*o.Quantity) / (pos.Shares + o.Quantity)
		pos.Shares += o.Quantity
		pos.LockedCollateral += margin
	}

	acct.Mu.Lock()
	acct.CashBalance += quote.Total
	acct.Mu.Unlock()

	c.recordFill(o, price, quote, sink)
	c.emit(&domain.Event{
		Type:       domain.EventShortOpened,
		OwnerID:    o.OwnerID,
		Symbol:     o.Symbol,
		OrderID:    o.OrderID,
		PositionID: pos.PositionID,
	}, sink)
}

// settleCover closes part or all of a short position through an ordinary
// priced buy, returning borrowed shares to the float and realizing P/L.
func (c *Coordinator) settleCover(o *domain.Order, acct *domain.Account, price int64, quote Quote, sink func(*domain.Event)) {
	pos := c.shorts.get(o.OwnerID, o.Symbol)
	if pos == nil || pos.Shares < o.Quantity {
		c.failOrder(o, domain.FailReasonInsufficientHoldings, sink)
		return
	}

	acct.Mu.Lock()
	if acct.AvailableCash()+o.ReservedCash < quote.Total {
		acct.Mu.Unlock()
		c.failOrder(o, domain.FailReasonInsufficientFunds, sink)
		return
	}
	acct.ReservedCash -= o.ReservedCash
	o.ReservedCash = 0
	acct.CashBalance -= quote.Total
	acct.Mu.Unlock()

	c.recordFill(o, price, quote, sink)
	c.closeShortShares(pos, acct, o.Quantity, price, false, sink)
}

// closeShortShares settles the position-side effects of covering shares:
// borrowed shares return to the float, collateral releases proportionally
// (credit-backed collateral to the credit line, cash top-ups back to the
// account), and realized P/L is reported net of the borrow fees the
// covered shares carried.
func (c *Coordinator) closeShortShares(pos *domain.ShortPosition, acct *domain.Account, quantity, exitPrice int64, forced bool, sink func(*domain.Event)) {
	releasedTotal := pos.LockedCollateral * quantity / pos.Shares
	releasedCash := pos.CashCollateral * quantity / pos.Shares
	feesShare := pos.BorrowFeesPaid * quantity / pos.Shares
	grossPL := (pos.EntryPrice - exitPrice) * quantity
	netPL := grossPL - feesShare

	c.ledger.Release(pos.Symbol, quantity)
	c.shorts.interest[pos.Symbol] -= quantity
	if c.shorts.interest[pos.Symbol] < 0 {
		c.shorts.interest[pos.Symbol] = 0
	}

	c.credit.LineFor(pos.OwnerID).ReleaseMargin(releasedTotal - releasedCash)
	if releasedCash > 0 {
		acct.Mu.Lock()
		acct.CashBalance += releasedCash
		acct.Mu.Unlock()
	}

	pos.LockedCollateral -= releasedTotal
	pos.CashCollateral -= releasedCash
	pos.BorrowFeesPaid -= feesShare
	pos.Shares -= quantity

	if pos.Shares == 0 {
		c.shorts.remove(pos)
		c.emit(&domain.Event{
			Type:       domain.EventShortClosed,
			OwnerID:    pos.OwnerID,
			Symbol:     pos.Symbol,
			PositionID: pos.PositionID,
			GrossPL:    grossPL,
			NetPL:      netPL,
			Forced:     forced,
		}, sink)
	}
}

// shortSweep runs the per-cycle short-position work: borrow-fee accrual,
// then the mark-to-market margin check with its grace-period counter and
// forced-cover escalation.
func (c *Coordinator) shortSweep(sink func(*domain.Event)) {
	// Forced covers remove positions, so sweep over a stable copy.
	positions := make([]*domain.ShortPosition, len(c.shorts.positions))
	copy(positions, c.shorts.positions)

	for _, pos := range positions {
		price := c.stocks.Price(pos.Symbol)
		if price <= 0 {
			continue
		}
		acct, err := c.accounts.Get(pos.OwnerID)
		if err != nil {
			continue
		}

		c.accrueBorrowFee(pos, acct, price)
		c.checkMargin(pos, acct, price, sink)
	}
}

// accrueBorrowFee charges the per-cycle borrow fee, tripled while the
// symbol is hard to borrow. The fee is always charged: a cash shortfall
// becomes a debit (negative balance), never a forgiven fee.
func (c *Coordinator) accrueBorrowFee(pos *domain.ShortPosition, acct *domain.Account, price int64) {
	mult := 1.0
	if c.shortInterestRatio(pos.Symbol) >= c.tables.Shorts.HardToBorrowThreshold {
		mult = c.tables.Shorts.HardToBorrowMultiplier
	}
	fee := domain.RoundCents(float64(pos.Value(price)) * c.tables.Shorts.BaseBorrowFeePerCycle * mult)
	if fee <= 0 {
		return
	}
	acct.Mu.Lock()
	acct.CashBalance -= fee
	acct.Mu.Unlock()
	pos.BorrowFeesPaid += fee
}

// checkMargin runs the mark-to-market test. Failing starts (or continues)
// a margin call; clearing before the grace period elapses resets it; an
// expired grace period forces a cover at the current price.
func (c *Coordinator) checkMargin(pos *domain.ShortPosition, acct *domain.Account, price int64, sink func(*domain.Event)) {
	required := domain.MulPercent(pos.Value(price), c.tables.Shorts.MaintenanceMarginPercent)
	healthy := pos.EffectiveCollateral(price) >= required

	if healthy {
		if pos.MarginCallStartedAtCycle != 0 {
			pos.MarginCallStartedAtCycle = 0
			pos.State = domain.ShortStateOpen
			c.emit(&domain.Event{
				Type:       domain.EventMarginCallCleared,
				OwnerID:    pos.OwnerID,
				Symbol:     pos.Symbol,
				PositionID: pos.PositionID,
			}, sink)
		}
		return
	}

	if pos.MarginCallStartedAtCycle == 0 {
		pos.MarginCallStartedAtCycle = c.cycle
		pos.State = domain.ShortStateMarginCallPending
		c.emit(&domain.Event{
			Type:       domain.EventMarginCall,
			OwnerID:    pos.OwnerID,
			Symbol:     pos.Symbol,
			PositionID: pos.PositionID,
		}, sink)
		return
	}

	if c.cycle-pos.MarginCallStartedAtCycle >= c.tables.Shorts.MarginCallGraceCycles {
		c.forceCover(pos, acct, price, sink)
	}
}

// forceCover liquidates the whole position at the current cycle's price,
// priced exactly like a voluntary buy-to-cover. No cash check: the cost
// is charged even if it drives the balance negative.
func (c *Coordinator) forceCover(pos *domain.ShortPosition, acct *domain.Account, price int64, sink func(*domain.Event)) {
	pos.State = domain.ShortStateForcedCovering

	quote := PriceQuote(QuoteInput{
		Side:             domain.OrderSideBuyToCover,
		Quantity:         pos.Shares,
		Price:            price,
		Costs:            c.tables.Costs,
		SpreadMultiplier: c.inventory.SpreadMultiplier(pos.Symbol),
	})

	acct.Mu.Lock()
	acct.CashBalance -= quote.Total
	acct.Mu.Unlock()

	fill := &domain.Fill{
		FillID:     uuid.New().String(),
		Symbol:     pos.Symbol,
		Side:       domain.OrderSideBuyToCover,
		Quantity:   pos.Shares,
		Price:      price,
		SpreadCost: quote.SpreadCost,
		Slippage:   quote.Slippage,
		Fee:        quote.Fee,
		Subtotal:   quote.Subtotal,
		Total:      quote.Total,
		Cycle:      c.cycle,
	}
	c.fills.Append(fill)

	rec, _ := c.ledger.Record(pos.Symbol)
	c.inventory.RecordFill(pos.Symbol, domain.OrderSideBuyToCover, fill.Quantity, rec.TotalFloat)

	c.emit(&domain.Event{
		Type:       domain.EventForcedCover,
		OwnerID:    pos.OwnerID,
		Symbol:     pos.Symbol,
		PositionID: pos.PositionID,
		Fill:       fill,
	}, sink)

	c.closeShortShares(pos, acct, fill.Quantity, price, true, sink)
}

// shortInterestRatio returns totalShorted/totalFloat for a symbol.
func (c *Coordinator) shortInterestRatio(symbol string) float64 {
	rec, ok := c.ledger.Record(symbol)
	if !ok || rec.TotalFloat == 0 {
		return 0
	}
	return float64(c.shorts.interest[symbol]) / float64(rec.TotalFloat)
}

// TopUpCollateral adds cash to a position's locked collateral, which can
// clear a pending margin call without closing the position.
func (c *Coordinator) TopUpCollateral(ownerID, symbol string, amount int64) (*domain.ShortPosition, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if amount <= 0 {
		return nil, &domain.ValidationError{Message: "amount must be a positive integer"}
	}
	pos := c.shorts.get(ownerID, symbol)
	if pos == nil {
		return nil, domain.ErrPositionNotFound
	}
	acct, err := c.accounts.Get(ownerID)
	if err != nil {
		return nil, err
	}

	acct.Mu.Lock()
	defer acct.Mu.Unlock()
	if acct.AvailableCash() < amount {
		return nil, domain.ErrInsufficientCash
	}
	acct.CashBalance -= amount
	pos.LockedCollateral += amount
	pos.CashCollateral += amount
	return pos, nil
}

// maxSellableLocked computes, with the coordinator and account locks
// held, how many shares of symbol the owner may sell while keeping the
// credit extended against their stock collateral at or above the total
// collateral locked for open shorts:
// (currentCollateralValue − requiredMinimumCollateral) / (price × collateralRatio).
func (c *Coordinator) maxSellableLocked(acct *domain.Account, symbol string, price int64) int64 {
	available := acct.AvailableQuantity(symbol)

	locked := int64(0)
	for _, pos := range c.shorts.positions {
		if pos.OwnerID == acct.AccountID {
			locked += pos.LockedCollateral
		}
	}
	if locked == 0 {
		return available
	}

	collateralValue := int64(0)
	for sym, h := range acct.Holdings {
		collateralValue += domain.MulPercent(h.Quantity*c.stocks.Price(sym), c.tables.CollateralRatio)
	}

	headroom := collateralValue - locked
	if headroom <= 0 || price <= 0 {
		return 0
	}
	sellable := int64(math.Floor(float64(headroom) / (float64(price) * c.tables.CollateralRatio)))
	if sellable > available {
		return available
	}
	return sellable
}

// MaxSellableShares is the read-side projection of the selling
// restriction, surfaced so the UI can cap sell forms before submission.
func (c *Coordinator) MaxSellableShares(ownerID, symbol string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	acct, err := c.accounts.Get(ownerID)
	if err != nil {
		return 0, err
	}
	acct.Mu.Lock()
	defer acct.Mu.Unlock()
	return c.maxSellableLocked(acct, symbol, c.stocks.Price(symbol)), nil
}

// PositionsFor returns copies of the owner's open short positions in
// creation order.
func (c *Coordinator) PositionsFor(ownerID string) []domain.ShortPosition {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.ShortPosition, 0)
	for _, pos := range c.shorts.positions {
		if pos.OwnerID == ownerID {
			out = append(out, *pos)
		}
	}
	return out
}

// Positions returns copies of every open short position in creation order.
func (c *Coordinator) Positions() []domain.ShortPosition {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.ShortPosition, 0, len(c.shorts.positions))
	for _, pos := range c.shorts.positions {
		out = append(out, *pos)
	}
	return out
}

// ShortInterest returns the total shares sold short for a symbol.
func (c *Coordinator) ShortInterest(symbol string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shorts.interest[symbol]
}
