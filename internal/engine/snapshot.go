package engine

import (
	"github.com/efreitasn/minimarket/internal/domain"
)

// Snapshot is a faithful copy of the engine's mutable state: float
// custody, pending orders, open short positions, short interest,
// market-maker inventory, and the counters that keep settlement and
// event ordering deterministic. Restoring a snapshot reproduces
// bit-identical engine state.
type Snapshot struct {
	Cycle        int64
	NextOrderSeq int64
	NextEventSeq int64

	Floats          []FloatRecord
	Orders          []domain.Order // pending orders in settlement order
	Positions       []domain.ShortPosition
	ShortInterest   map[string]int64
	InventoryLevels map[string]float64
}

// Snapshot captures the engine state between cycles.
func (c *Coordinator) Snapshot() *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := &Snapshot{
		Cycle:           c.cycle,
		NextOrderSeq:    c.nextOrderSeq,
		NextEventSeq:    c.nextEventSeq,
		Floats:          c.ledger.Records(),
		ShortInterest:   make(map[string]int64, len(c.shorts.interest)),
		InventoryLevels: c.inventory.Levels(),
	}
	for sym, n := range c.shorts.interest {
		s.ShortInterest[sym] = n
	}
	for _, o := range c.pending.Orders() {
		s.Orders = append(s.Orders, *o)
	}
	for _, pos := range c.shorts.positions {
		s.Positions = append(s.Positions, *pos)
	}
	return s
}

// Restore replaces the engine state with the snapshot's. Orders return
// to the pending queue and the order store; positions to the short book.
func (c *Coordinator) Restore(s *Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cycle = s.Cycle
	c.nextOrderSeq = s.NextOrderSeq
	c.nextEventSeq = s.NextEventSeq

	c.ledger.Restore(s.Floats)
	c.inventory.Restore(s.InventoryLevels)

	c.pending = NewPendingQueue()
	for i := range s.Orders {
		o := s.Orders[i]
		c.orders.Create(&o)
		c.pending.Add(&o)
	}

	c.shorts = newShortBook()
	for i := range s.Positions {
		pos := s.Positions[i]
		c.shorts.add(&pos)
	}
	c.shorts.interest = make(map[string]int64, len(s.ShortInterest))
	for sym, n := range s.ShortInterest {
		c.shorts.interest[sym] = n
	}
}
