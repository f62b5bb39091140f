package snapshot

import (
	"testing"

	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/engine"
)

func testSnapshot() *engine.Snapshot {
	return &engine.Snapshot{
		Cycle:        42,
		NextOrderSeq: 7,
		NextEventSeq: 19,
		Floats: []engine.FloatRecord{
			{Symbol: "ACME", TotalFloat: 10000, MarketMakerShares: 9400, HumanShares: 400, BotShares: 200, ReservedShares: 50},
			{Symbol: "ZED", TotalFloat: 500, MarketMakerShares: 500},
		},
		Orders: []domain.Order{
			{OrderID: "o-1", Seq: 3, OwnerID: "player", Symbol: "ACME", Side: domain.OrderSideBuy, Kind: domain.OrderKindLimit, Quantity: 10, LimitPrice: 4500, Status: domain.OrderStatusPendingTrigger, ExpiresAtCycle: 50, ReservedCash: 45000},
			{OrderID: "o-2", Seq: 5, OwnerID: "bot-1", Symbol: "ZED", Side: domain.OrderSideSell, Kind: domain.OrderKindMarket, Quantity: 2, Status: domain.OrderStatusPendingDelay, ReservedShares: 2},
		},
		Positions: []domain.ShortPosition{
			{PositionID: "p-1", OwnerID: "player", Symbol: "ACME", Shares: 50, EntryPrice: 5000, LockedCollateral: 375000, State: domain.ShortStateOpen, OpenedAtCycle: 40},
		},
		ShortInterest:   map[string]int64{"ACME": 50},
		InventoryLevels: map[string]float64{"ACME": 0.95},
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	want := testSnapshot()
	if err := store.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatal("load reported no snapshot")
	}

	if got.Cycle != 42 || got.NextOrderSeq != 7 || got.NextEventSeq != 19 {
		t.Errorf("counters = %d/%d/%d, want 42/7/19", got.Cycle, got.NextOrderSeq, got.NextEventSeq)
	}
	if len(got.Floats) != 2 || got.Floats[0] != want.Floats[0] || got.Floats[1] != want.Floats[1] {
		t.Errorf("floats = %+v", got.Floats)
	}
	if len(got.Orders) != 2 {
		t.Fatalf("orders = %d, want 2", len(got.Orders))
	}
	// Orders come back in seq order regardless of how they were stored.
	if got.Orders[0].OrderID != "o-1" || got.Orders[1].OrderID != "o-2" {
		t.Errorf("order ids = %s, %s", got.Orders[0].OrderID, got.Orders[1].OrderID)
	}
	if got.Orders[0].LimitPrice != 4500 || got.Orders[0].ReservedCash != 45000 {
		t.Errorf("order o-1 = %+v", got.Orders[0])
	}
	if len(got.Positions) != 1 || got.Positions[0] != want.Positions[0] {
		t.Errorf("positions = %+v", got.Positions)
	}
	if got.ShortInterest["ACME"] != 50 {
		t.Errorf("short interest = %v", got.ShortInterest)
	}
	if got.InventoryLevels["ACME"] != 0.95 {
		t.Errorf("inventory levels = %v", got.InventoryLevels)
	}
}

func TestStore_LoadEmpty(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	_, ok, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Error("empty store reported a snapshot")
	}
}

func TestStore_SaveReplacesPreviousSnapshot(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	if err := store.Save(testSnapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}

	// A later snapshot with fewer records must fully replace the first,
	// not merge with it.
	second := &engine.Snapshot{
		Cycle:           43,
		NextOrderSeq:    8,
		NextEventSeq:    20,
		Floats:          []engine.FloatRecord{{Symbol: "ACME", TotalFloat: 10000, MarketMakerShares: 10000}},
		ShortInterest:   map[string]int64{},
		InventoryLevels: map[string]float64{},
	}
	if err := store.Save(second); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, ok, err := store.Load()
	if err != nil || !ok {
		t.Fatalf("load: %v, ok=%v", err, ok)
	}
	if got.Cycle != 43 {
		t.Errorf("cycle = %d, want 43", got.Cycle)
	}
	if len(got.Floats) != 1 {
		t.Errorf("floats = %d, want 1 after replace", len(got.Floats))
	}
	if len(got.Orders) != 0 || len(got.Positions) != 0 {
		t.Errorf("stale orders/positions survived: %d/%d", len(got.Orders), len(got.Positions))
	}
}
