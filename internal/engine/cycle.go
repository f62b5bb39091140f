package engine

import (
	"sync"

	"github.com/google/uuid"

	"github.com/efreitasn/minimarket/internal/config"
	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/store"
)

// Dispatcher receives engine events as they are emitted, for logging,
// metrics, or UI notification. Dispatch runs inside the cycle, so
// implementations must not block.
type Dispatcher interface {
	Dispatch(ev *domain.Event)
}

// Coordinator owns all engine state and drives it one cycle at a time.
// A cycle is atomic: the settlement sweep, the short-position sweep, and
// inventory reversion complete under one lock before any new submission
// or read observes the mutated state.
type Coordinator struct {
	mu     sync.Mutex
	tables config.Tables

	cycle        int64
	nextOrderSeq int64
	nextEventSeq int64

	stocks    *domain.StockRegistry
	ledger    *FloatLedger
	inventory *InventoryModel
	pending   *PendingQueue
	shorts    *shortBook

	accounts *store.AccountStore
	orders   *store.OrderStore
	fills    *store.FillStore
	events   *store.EventStore

	credit     domain.CreditRegistry
	dispatcher Dispatcher
}

// NewCoordinator creates a Coordinator over the given collaborators.
// dispatcher may be nil.
func NewCoordinator(
	tables config.Tables,
	stocks *domain.StockRegistry,
	ledger *FloatLedger,
	inventory *InventoryModel,
	accounts *store.AccountStore,
	orders *store.OrderStore,
	fills *store.FillStore,
	events *store.EventStore,
	credit domain.CreditRegistry,
	dispatcher Dispatcher,
) *Coordinator {
	return &Coordinator{
		tables:       tables,
		nextOrderSeq: 1,
		nextEventSeq: 1,
		stocks:       stocks,
		ledger:       ledger,
		inventory:    inventory,
		pending:      NewPendingQueue(),
		shorts:       newShortBook(),
		accounts:     accounts,
		orders:       orders,
		fills:        fills,
		events:       events,
		credit:       credit,
		dispatcher:   dispatcher,
	}
}

// Tick runs one full cycle: settle every pending order in insertion
// order, accrue borrow fees and re-evaluate margin health on every open
// short, mean-revert market-maker inventory, and apply any due splits.
// It returns the events emitted during the cycle.
func (c *Coordinator) Tick() []*domain.Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cycle++
	var emitted []*domain.Event
	sink := func(ev *domain.Event) { emitted = append(emitted, ev) }

	c.settleSweep(sink)
	c.shortSweep(sink)
	c.inventory.MeanRevert()
	c.splitSweep(sink)

	return emitted
}

// Cycle returns the number of completed cycles.
func (c *Coordinator) Cycle() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cycle
}

// Submit validates a trade intent against current resources, reserves
// cash, shares, or credit-line margin for it, and enqueues the resulting
// order for the next cycle. Intents from the human participant and from
// autonomous traders go through this same entry point.
func (c *Coordinator) Submit(intent domain.TradeIntent) (*domain.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stock, err := c.stocks.Get(intent.Symbol)
	if err != nil {
		return nil, err
	}
	acct, err := c.accounts.Get(intent.OwnerID)
	if err != nil {
		return nil, err
	}
	if intent.Quantity <= 0 {
		return nil, &domain.ValidationError{Message: "quantity must be a positive integer"}
	}

	o := &domain.Order{
		OrderID:        uuid.New().String(),
		Seq:            c.nextOrderSeq,
		OwnerID:        intent.OwnerID,
		Symbol:         intent.Symbol,
		Side:           intent.Side,
		Kind:           intent.Kind,
		Quantity:       intent.Quantity,
		LimitPrice:     intent.LimitPrice,
		StopPrice:      intent.StopPrice,
		CreatedAtCycle: c.cycle,
	}

	if intent.Kind == domain.OrderKindMarket {
		o.Status = domain.OrderStatusPendingDelay
	} else {
		o.Status = domain.OrderStatusPendingTrigger
		o.ExpiresAtCycle = c.cycle + c.tables.OrderValidityCycles
	}

	if err := c.reserveFor(o, acct, stock.CurrentPrice); err != nil {
		return nil, err
	}

	c.nextOrderSeq++
	c.orders.Create(o)
	c.pending.Add(o)
	return o, nil
}

// reserveFor earmarks the resources an order will draw on at settlement.
// Every reservation made here is paired with a release on fill, failure,
// expiry, or cancellation.
func (c *Coordinator) reserveFor(o *domain.Order, acct *domain.Account, price int64) error {
	switch o.Side {
	case domain.OrderSideBuy, domain.OrderSideBuyToCover:
		if o.Side == domain.OrderSideBuyToCover {
			pos := c.shorts.get(o.OwnerID, o.Symbol)
			if pos == nil {
				return domain.ErrPositionNotFound
			}
			if pos.Shares < o.Quantity {
				return domain.ErrInsufficientHoldings
			}
		}
		reserve := c.buyReservation(o, price)
		acct.Mu.Lock()
		defer acct.Mu.Unlock()
		if acct.AvailableCash() < reserve {
			return domain.ErrInsufficientCash
		}
		acct.ReservedCash += reserve
		o.ReservedCash = reserve

	case domain.OrderSideSell:
		acct.Mu.Lock()
		defer acct.Mu.Unlock()
		if acct.AvailableQuantity(o.Symbol) < o.Quantity {
			return domain.ErrInsufficientHoldings
		}
		if o.Quantity > c.maxSellableLocked(acct, o.Symbol, price) {
			return domain.ErrSellRestricted
		}
		acct.HoldingFor(o.Symbol).ReservedQuantity += o.Quantity
		o.ReservedShares = o.Quantity

	case domain.OrderSideShortSell:
		margin := domain.MulPercent(price*o.Quantity, c.tables.Shorts.InitialMarginPercent)
		reserve := BufferedEstimate(margin, c.tables.Costs)
		if err := c.credit.LineFor(o.OwnerID).ReserveMargin(reserve); err != nil {
			return domain.ErrInsufficientCredit
		}
		o.ReservedCredit = reserve

	default:
		return &domain.ValidationError{Message: "unknown order side"}
	}
	return nil
}

// buyReservation computes the cash to hold for a buy-side order. Delayed
// market orders reserve the estimated priced cost plus the drift buffer;
// limit and stop orders reserve their declared price times quantity.
func (c *Coordinator) buyReservation(o *domain.Order, price int64) int64 {
	switch o.Kind {
	case domain.OrderKindMarket:
		q := PriceQuote(QuoteInput{
			Side:             o.Side,
			Quantity:         o.Quantity,
			Price:            price,
			Costs:            c.tables.Costs,
			SpreadMultiplier: c.inventory.SpreadMultiplier(o.Symbol),
		})
		return BufferedEstimate(q.Total, c.tables.Costs)
	case domain.OrderKindStopBuy:
		return o.StopPrice * o.Quantity
	default:
		return o.LimitPrice * o.Quantity
	}
}

// Cancel cancels a still-pending order, releasing its reservations.
// Terminal orders return ErrOrderNotCancellable.
func (c *Coordinator) Cancel(orderID string) (*domain.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	o, err := c.orders.Get(orderID)
	if err != nil {
		return nil, err
	}
	if o.Status.Terminal() {
		return nil, domain.ErrOrderNotCancellable
	}

	c.releaseReservations(o)
	o.Status = domain.OrderStatusCancelled
	o.ClosedAtCycle = c.cycle
	c.pending.Remove(o.OrderID)
	c.emit(&domain.Event{
		Type:    domain.EventOrderCancelled,
		OwnerID: o.OwnerID,
		Symbol:  o.Symbol,
		OrderID: o.OrderID,
	}, nil)
	return o, nil
}

// emit stamps and records an event, forwards it to the dispatcher, and
// hands it to the per-cycle sink when one is active.
func (c *Coordinator) emit(ev *domain.Event, sink func(*domain.Event)) {
	ev.EventID = uuid.New().String()
	ev.Seq = c.nextEventSeq
	ev.Cycle = c.cycle
	c.nextEventSeq++
	c.events.Append(ev)
	if c.dispatcher != nil {
		c.dispatcher.Dispatch(ev)
	}
	if sink != nil {
		sink(ev)
	}
}

// splitSweep applies a 2-for-1 split to any stock whose price reached the
// trigger: price halves, every ledger bucket doubles, and open orders and
// short positions are restated in post-split terms.
func (c *Coordinator) splitSweep(sink func(*domain.Event)) {
	for _, s := range c.stocks.List() {
		if s.CurrentPrice < c.tables.SplitTriggerPrice {
			continue
		}
		ratio := c.tables.SplitRatio
		c.stocks.SetPrice(s.Symbol, s.CurrentPrice/ratio)
		c.ledger.ApplySplit(s.Symbol, ratio)
		c.shorts.applySplit(s.Symbol, ratio)
		for _, acct := range c.accounts.List() {
			acct.Mu.Lock()
			if h, ok := acct.Holdings[s.Symbol]; ok {
				h.Quantity *= ratio
				h.ReservedQuantity *= ratio
			}
			acct.Mu.Unlock()
		}
		c.pending.Ascend(func(o *domain.Order) bool {
			if o.Symbol != s.Symbol {
				return true
			}
			o.Quantity *= ratio
			o.ReservedShares *= ratio
			if o.LimitPrice > 0 {
				o.LimitPrice /= ratio
			}
			if o.StopPrice > 0 {
				o.StopPrice /= ratio
			}
			return true
		})
		c.emit(&domain.Event{
			Type:   domain.EventSplit,
			Symbol: s.Symbol,
			Ratio:  ratio,
		}, sink)
	}
}
