package engine

import (
	"testing"

	"github.com/efreitasn/minimarket/internal/domain"
)

func TestSnapshot_RoundTripsEngineState(t *testing.T) {
	env := newTestEnv(zeroCostTables())
	env.newTestAccount("player", domain.AccountKindHuman, 10_000_000, nil)

	// Build non-trivial state: a filled buy, an open short, and a
	// still-pending limit order.
	if _, err := env.submit("player", domain.OrderSideBuy, 50); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.submit("player", domain.OrderSideShortSell, 30); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	env.coord.Tick()
	limit := int64(4500)
	pending, err := env.coord.Submit(domain.TradeIntent{
		OwnerID:    "player",
		Symbol:     "ACME",
		Side:       domain.OrderSideBuy,
		Kind:       domain.OrderKindLimit,
		Quantity:   10,
		LimitPrice: limit,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := env.coord.Snapshot()

	if snap.Cycle != 1 {
		t.Errorf("cycle = %d, want 1", snap.Cycle)
	}
	if len(snap.Orders) != 1 || snap.Orders[0].OrderID != pending.OrderID {
		t.Fatalf("snapshot orders = %+v, want just the pending limit", snap.Orders)
	}
	if len(snap.Positions) != 1 || snap.Positions[0].Shares != 30 {
		t.Fatalf("snapshot positions = %+v, want the 30-share short", snap.Positions)
	}
	if snap.ShortInterest["ACME"] != 30 {
		t.Errorf("short interest = %d, want 30", snap.ShortInterest["ACME"])
	}

	// Restore into a fresh engine and check the state carried over.
	fresh := newTestEnv(zeroCostTables())
	fresh.newTestAccount("player", domain.AccountKindHuman, 10_000_000, nil)
	fresh.coord.Restore(snap)

	if got := fresh.coord.Cycle(); got != 1 {
		t.Errorf("restored cycle = %d, want 1", got)
	}
	if got := fresh.coord.ShortInterest("ACME"); got != 30 {
		t.Errorf("restored short interest = %d, want 30", got)
	}
	positions := fresh.coord.PositionsFor("player")
	if len(positions) != 1 || positions[0].Shares != 30 || positions[0].EntryPrice != 5000 {
		t.Fatalf("restored positions = %+v", positions)
	}
	rec, ok := fresh.ledger.Record("ACME")
	if !ok {
		t.Fatal("restored ledger missing ACME")
	}
	if rec.ReservedShares != 30 {
		t.Errorf("restored reserved shares = %d, want 30", rec.ReservedShares)
	}

	restored, err := fresh.orders.Get(pending.OrderID)
	if err != nil {
		t.Fatalf("restored order lookup: %v", err)
	}
	if restored.Status != domain.OrderStatusPendingTrigger || restored.LimitPrice != limit {
		t.Errorf("restored order = %+v", restored)
	}

	// The restored engine keeps settling: drop the price so the limit
	// buy fills on the next cycle.
	fresh.stocks.SetPrice("ACME", 4400)
	fresh.coord.Tick()
	if restored.Status != domain.OrderStatusFilled {
		t.Errorf("restored order status = %s, want filled", restored.Status)
	}
}

func TestSnapshot_SeqCountersSurvive(t *testing.T) {
	env := newTestEnv(zeroCostTables())
	env.newTestAccount("player", domain.AccountKindHuman, 10_000_000, nil)

	if _, err := env.submit("player", domain.OrderSideBuy, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	env.coord.Tick()

	snap := env.coord.Snapshot()
	fresh := newTestEnv(zeroCostTables())
	fresh.newTestAccount("player", domain.AccountKindHuman, 10_000_000, nil)
	fresh.coord.Restore(snap)

	// New orders continue the sequence instead of restarting at 1,
	// which keeps settlement ordering stable across restarts.
	o, err := fresh.submit("player", domain.OrderSideBuy, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Seq != snap.NextOrderSeq {
		t.Errorf("seq = %d, want %d", o.Seq, snap.NextOrderSeq)
	}
}
