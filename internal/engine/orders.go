package engine

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/efreitasn/minimarket/internal/domain"
)

// settleSweep evaluates every pending order once, in insertion order.
// Each order is handled independently: a failure in one never blocks
// settlement of the rest.
func (c *Coordinator) settleSweep(sink func(*domain.Event)) {
	// Fills and failures remove entries, so sweep over a stable copy.
	for _, o := range c.pending.Orders() {
		price := c.stocks.Price(o.Symbol)
		if price <= 0 {
			// Unknown or unpriced symbol: leave the order alone this
			// cycle rather than abort the batch.
			continue
		}
		switch o.Status {
		case domain.OrderStatusPendingDelay:
			c.evalDelayed(o, price, sink)
		case domain.OrderStatusPendingTrigger:
			c.evalTrigger(o, price, sink)
		case domain.OrderStatusTriggered:
			c.evalLimitStage(o, price, sink)
		}
	}
}

// evalDelayed settles a market/short/cover order once its one-cycle delay
// has elapsed. The fill uses the settlement cycle's price, not the
// submission cycle's.
func (c *Coordinator) evalDelayed(o *domain.Order, price int64, sink func(*domain.Event)) {
	if c.cycle-o.CreatedAtCycle < c.tables.Costs.OrderDelayCycles {
		return
	}
	c.attemptFill(o, price, sink)
}

// evalTrigger checks expiry and then the trigger condition for an order
// in the limit/stop family.
func (c *Coordinator) evalTrigger(o *domain.Order, price int64, sink func(*domain.Event)) {
	if c.expireDue(o, sink) {
		return
	}

	switch o.Kind {
	case domain.OrderKindLimit:
		if limitSatisfied(o, price) {
			c.attemptFill(o, price, sink)
		}
	case domain.OrderKindStopBuy:
		if price >= o.StopPrice {
			c.attemptFill(o, price, sink)
		}
	case domain.OrderKindStopLoss:
		if price <= o.StopPrice {
			c.attemptFill(o, price, sink)
		}
	case domain.OrderKindStopBuyLimit:
		if price >= o.StopPrice {
			c.arm(o, sink)
		}
	case domain.OrderKindStopLossLimit:
		if price <= o.StopPrice {
			c.arm(o, sink)
		}
	}
}

// arm moves a two-stage stop-limit order into the triggered state. The
// limit stage is first checked on the following cycle.
func (c *Coordinator) arm(o *domain.Order, sink func(*domain.Event)) {
	o.Status = domain.OrderStatusTriggered
	o.TriggeredAtCycle = c.cycle
	c.emit(&domain.Event{
		Type:    domain.EventOrderTriggered,
		OwnerID: o.OwnerID,
		Symbol:  o.Symbol,
		OrderID: o.OrderID,
	}, sink)
}

// evalLimitStage re-checks an armed stop-limit order's limit condition.
// The order keeps waiting, cycle after cycle, until the limit is met or
// it expires.
func (c *Coordinator) evalLimitStage(o *domain.Order, price int64, sink func(*domain.Event)) {
	if c.expireDue(o, sink) {
		return
	}
	if c.cycle <= o.TriggeredAtCycle {
		return
	}
	if limitSatisfied(o, price) {
		c.attemptFill(o, price, sink)
	}
}

// limitSatisfied checks the limit condition for the order's side: buyers
// need the price at or below the limit, sellers at or above.
func limitSatisfied(o *domain.Order, price int64) bool {
	if o.Side.IsBuySide() {
		return price <= o.LimitPrice
	}
	return price >= o.LimitPrice
}

// expireDue expires an order whose validity window has closed, releasing
// its reservations without charging a fee.
func (c *Coordinator) expireDue(o *domain.Order, sink func(*domain.Event)) bool {
	if o.ExpiresAtCycle == 0 || c.cycle < o.ExpiresAtCycle {
		return false
	}
	c.releaseReservations(o)
	o.Status = domain.OrderStatusExpired
	o.ClosedAtCycle = c.cycle
	c.pending.Remove(o.OrderID)
	c.emit(&domain.Event{
		Type:    domain.EventOrderExpired,
		OwnerID: o.OwnerID,
		Symbol:  o.Symbol,
		OrderID: o.OrderID,
	}, sink)
	return true
}

// attemptFill validates resources at fill time and settles the order, or
// fails it with a machine-readable reason the caller can surface.
func (c *Coordinator) attemptFill(o *domain.Order, price int64, sink func(*domain.Event)) {
	acct, err := c.accounts.Get(o.OwnerID)
	if err != nil {
		slog.Warn("order owner missing at settlement",
			slog.String("order_id", o.OrderID),
			slog.String("owner_id", o.OwnerID),
		)
		c.failOrder(o, domain.FailReasonInsufficientFunds, sink)
		return
	}

	quote := PriceQuote(QuoteInput{
		Side:             o.Side,
		Quantity:         o.Quantity,
		Price:            price,
		Costs:            c.tables.Costs,
		SpreadMultiplier: c.inventory.SpreadMultiplier(o.Symbol),
	})

	switch o.Side {
	case domain.OrderSideBuy:
		c.settleBuy(o, acct, price, quote, sink)
	case domain.OrderSideSell:
		c.settleSell(o, acct, price, quote, sink)
	case domain.OrderSideShortSell:
		c.settleShortSell(o, acct, price, quote, sink)
	case domain.OrderSideBuyToCover:
		c.settleCover(o, acct, price, quote, sink)
	}
}

// settleBuy moves shares from the market maker to the owner's bucket and
// charges the quoted cost.
func (c *Coordinator) settleBuy(o *domain.Order, acct *domain.Account, price int64, quote Quote, sink func(*domain.Event)) {
	if c.ledger.AvailableForPurchase(o.Symbol) < o.Quantity {
		c.failOrder(o, domain.FailReasonInsufficientFloat, sink)
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
	acct.HoldingFor(o.Symbol).Quantity += o.Quantity
	acct.Mu.Unlock()

	c.ledger.Transfer(o.Symbol, BucketMarketMaker, BucketForKind(acct.Kind), o.Quantity)
	c.recordFill(o, price, quote, sink)
}

// settleSell returns shares to the market maker and credits the net
// proceeds.
func (c *Coordinator) settleSell(o *domain.Order, acct *domain.Account, price int64, quote Quote, sink func(*domain.Event)) {
	acct.Mu.Lock()
	h := acct.HoldingFor(o.Symbol)
	if h.Quantity < o.Quantity {
		acct.Mu.Unlock()
		c.failOrder(o, domain.FailReasonInsufficientHoldings, sink)
		return
	}
	h.Quantity -= o.Quantity
	h.ReservedQuantity -= o.ReservedShares
	if h.ReservedQuantity < 0 {
		h.ReservedQuantity = 0
	}
	o.ReservedShares = 0
	acct.CashBalance += quote.Total
	acct.Mu.Unlock()

	c.ledger.Transfer(o.Symbol, BucketForKind(acct.Kind), BucketMarketMaker, o.Quantity)
	c.recordFill(o, price, quote, sink)
}

// recordFill finalizes a successful settlement: fill record, inventory
// move, terminal status, and the fill event with the full breakdown.
func (c *Coordinator) recordFill(o *domain.Order, price int64, quote Quote, sink func(*domain.Event)) {
	rec, _ := c.ledger.Record(o.Symbol)
	c.inventory.RecordFill(o.Symbol, o.Side, o.Quantity, rec.TotalFloat)

	fill := &domain.Fill{
		FillID:     uuid.New().String(),
		OrderID:    o.OrderID,
		Symbol:     o.Symbol,
		Side:       o.Side,
		Quantity:   o.Quantity,
		Price:      price,
		SpreadCost: quote.SpreadCost,
		Slippage:   quote.Slippage,
		Fee:        quote.Fee,
		Subtotal:   quote.Subtotal,
		Total:      quote.Total,
		Cycle:      c.cycle,
	}
	o.Fill = fill
	o.Status = domain.OrderStatusFilled
	o.ClosedAtCycle = c.cycle
	c.fills.Append(fill)
	c.pending.Remove(o.OrderID)
	c.emit(&domain.Event{
		Type:    domain.EventOrderFilled,
		OwnerID: o.OwnerID,
		Symbol:  o.Symbol,
		OrderID: o.OrderID,
		Fill:    fill,
	}, sink)
}

// failOrder releases the order's reservations and parks it in the failed
// state with its reason. The sweep moves on to the next order.
func (c *Coordinator) failOrder(o *domain.Order, reason domain.FailReason, sink func(*domain.Event)) {
	c.releaseReservations(o)
	o.Status = domain.OrderStatusFailed
	o.FailReason = reason
	o.ClosedAtCycle = c.cycle
	c.pending.Remove(o.OrderID)
	c.emit(&domain.Event{
		Type:    domain.EventOrderFailed,
		OwnerID: o.OwnerID,
		Symbol:  o.Symbol,
		OrderID: o.OrderID,
		Reason:  reason,
	}, sink)
}

// releaseReservations undoes whatever Submit earmarked for the order.
func (c *Coordinator) releaseReservations(o *domain.Order) {
	if o.ReservedCash > 0 || o.ReservedShares > 0 {
		if acct, err := c.accounts.Get(o.OwnerID); err == nil {
			acct.Mu.Lock()
			acct.ReservedCash -= o.ReservedCash
			if acct.ReservedCash < 0 {
				acct.ReservedCash = 0
			}
			if h, ok := acct.Holdings[o.Symbol]; ok {
				h.ReservedQuantity -= o.ReservedShares
				if h.ReservedQuantity < 0 {
					h.ReservedQuantity = 0
				}
			}
			acct.Mu.Unlock()
		}
		o.ReservedCash = 0
		o.ReservedShares = 0
	}
	if o.ReservedCredit > 0 {
		c.credit.LineFor(o.OwnerID).ReleaseMargin(o.ReservedCredit)
		o.ReservedCredit = 0
	}
}
