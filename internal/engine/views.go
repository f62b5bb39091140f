package engine

import (
	"github.com/efreitasn/minimarket/internal/config"
	"github.com/efreitasn/minimarket/internal/domain"
)

// FloatStatus is the read-side projection of one symbol's float health.
type FloatStatus struct {
	Record           FloatRecord
	Utilization      float64
	LowFloat         bool
	ShortInterest    int64
	SpreadMultiplier float64
}

// FloatStatus returns the float projection for a symbol.
func (c *Coordinator) FloatStatus(symbol string) (FloatStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.ledger.Record(symbol)
	if !ok {
		return FloatStatus{}, domain.ErrSymbolNotFound
	}
	return FloatStatus{
		Record:           rec,
		Utilization:      c.ledger.Utilization(symbol),
		LowFloat:         c.ledger.IsLowFloat(symbol, c.tables.LowFloatThreshold),
		ShortInterest:    c.shorts.interest[symbol],
		SpreadMultiplier: c.inventory.SpreadMultiplier(symbol),
	}, nil
}

// QuotePreview prices a hypothetical fill at the current price without
// touching any state, so callers can show the cost breakdown (and the
// buffered reservation) before submitting.
func (c *Coordinator) QuotePreview(symbol string, side domain.OrderSide, quantity int64) (Quote, int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stock, err := c.stocks.Get(symbol)
	if err != nil {
		return Quote{}, 0, err
	}
	q := PriceQuote(QuoteInput{
		Side:             side,
		Quantity:         quantity,
		Price:            stock.CurrentPrice,
		Costs:            c.tables.Costs,
		SpreadMultiplier: c.inventory.SpreadMultiplier(symbol),
	})
	buffered := q.Total
	if side.IsBuySide() {
		buffered = BufferedEstimate(q.Total, c.tables.Costs)
	}
	return q, buffered, nil
}

// Tables returns the game-balance tables the coordinator runs with.
func (c *Coordinator) Tables() config.Tables {
	return c.tables
}

// PendingCount returns the number of orders awaiting settlement.
func (c *Coordinator) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending.Len()
}
