package engine

import (
	"testing"

	"github.com/efreitasn/minimarket/internal/domain"
)

func newTestLedger(total int64) *FloatLedger {
	l := NewFloatLedger()
	l.Initialize([]*domain.Stock{
		{Symbol: "ACME", CurrentPrice: 5000, FloatShares: total},
	}, nil, nil)
	return l
}

func TestFloatLedger_InitializeSeedsBuckets(t *testing.T) {
	l := NewFloatLedger()
	l.Initialize([]*domain.Stock{
		{Symbol: "ACME", FloatShares: 10000},
	}, map[string]int64{"ACME": 1000}, map[string]int64{"ACME": 500})

	rec, ok := l.Record("ACME")
	if !ok {
		t.Fatal("record missing after initialize")
	}
	if rec.MarketMakerShares != 8500 {
		t.Errorf("market maker = %d, want 8500", rec.MarketMakerShares)
	}
	if rec.HumanShares != 1000 || rec.BotShares != 500 {
		t.Errorf("human/bot = %d/%d, want 1000/500", rec.HumanShares, rec.BotShares)
	}
	if rec.TotalFloat != 10000 {
		t.Errorf("total = %d, want 10000", rec.TotalFloat)
	}
}

func TestFloatLedger_InitializeClampsOverSeed(t *testing.T) {
	l := NewFloatLedger()
	// Seeded holdings exceed the declared float: the market maker is
	// clamped to zero rather than going negative.
	l.Initialize([]*domain.Stock{
		{Symbol: "ACME", FloatShares: 100},
	}, map[string]int64{"ACME": 80}, map[string]int64{"ACME": 50})

	rec, _ := l.Record("ACME")
	if rec.MarketMakerShares != 0 {
		t.Errorf("market maker = %d, want 0", rec.MarketMakerShares)
	}
	if rec.TotalFloat != 130 {
		t.Errorf("total = %d, want 130", rec.TotalFloat)
	}
}

func TestFloatLedger_TransferMovesShares(t *testing.T) {
	l := newTestLedger(10000)

	l.Transfer("ACME", BucketMarketMaker, BucketHuman, 300)
	rec, _ := l.Record("ACME")
	if rec.MarketMakerShares != 9700 || rec.HumanShares != 300 {
		t.Errorf("after transfer: mm=%d human=%d, want 9700/300", rec.MarketMakerShares, rec.HumanShares)
	}

	// Buckets must keep summing to the total.
	if rec.MarketMakerShares+rec.HumanShares+rec.BotShares != rec.TotalFloat {
		t.Error("buckets no longer sum to total float")
	}
}

func TestFloatLedger_TransferClampsOverdraw(t *testing.T) {
	l := newTestLedger(100)
	l.Transfer("ACME", BucketMarketMaker, BucketBot, 100)

	// The human bucket is empty; moving from it is a no-op.
	l.Transfer("ACME", BucketHuman, BucketBot, 50)
	rec, _ := l.Record("ACME")
	if rec.HumanShares != 0 || rec.BotShares != 100 {
		t.Errorf("human/bot = %d/%d, want 0/100", rec.HumanShares, rec.BotShares)
	}
}

func TestFloatLedger_TransferIgnoresDegenerateInputs(t *testing.T) {
	l := newTestLedger(100)
	l.Transfer("ACME", BucketMarketMaker, BucketMarketMaker, 50)
	l.Transfer("ACME", BucketMarketMaker, BucketHuman, 0)
	l.Transfer("ACME", BucketMarketMaker, BucketHuman, -5)
	l.Transfer("NOPE", BucketMarketMaker, BucketHuman, 5)

	rec, _ := l.Record("ACME")
	if rec.MarketMakerShares != 100 {
		t.Errorf("market maker = %d, want 100 untouched", rec.MarketMakerShares)
	}
}

func TestFloatLedger_ReserveAndRelease(t *testing.T) {
	l := newTestLedger(100)

	l.Reserve("ACME", 30)
	if got := l.AvailableForPurchase("ACME"); got != 70 {
		t.Errorf("available = %d, want 70", got)
	}

	// Reservations clamp at the bucket size.
	l.Reserve("ACME", 200)
	if got := l.AvailableForPurchase("ACME"); got != 0 {
		t.Errorf("available = %d, want 0 after over-reserve", got)
	}

	l.Release("ACME", 40)
	if got := l.AvailableForPurchase("ACME"); got != 40 {
		t.Errorf("available = %d, want 40", got)
	}

	// Releases clamp at zero.
	l.Release("ACME", 500)
	if got := l.AvailableForPurchase("ACME"); got != 100 {
		t.Errorf("available = %d, want 100 after over-release", got)
	}
}

func TestFloatLedger_Utilization(t *testing.T) {
	l := newTestLedger(1000)
	if got := l.Utilization("ACME"); got != 0 {
		t.Errorf("utilization = %v, want 0", got)
	}

	l.Transfer("ACME", BucketMarketMaker, BucketHuman, 600)
	l.Transfer("ACME", BucketMarketMaker, BucketBot, 300)
	if got := l.Utilization("ACME"); got != 0.9 {
		t.Errorf("utilization = %v, want 0.9", got)
	}

	if !l.IsLowFloat("ACME", 0.9) {
		t.Error("expected low-float at the threshold")
	}
	if l.IsLowFloat("ACME", 0.95) {
		t.Error("unexpected low-float below the threshold")
	}
	if got := l.Utilization("NOPE"); got != 0 {
		t.Errorf("unknown symbol utilization = %v, want 0", got)
	}
}

func TestFloatLedger_ApplySplitDoublesEverything(t *testing.T) {
	l := newTestLedger(1000)
	l.Transfer("ACME", BucketMarketMaker, BucketHuman, 100)
	l.Reserve("ACME", 50)

	l.ApplySplit("ACME", 2)
	rec, _ := l.Record("ACME")
	if rec.TotalFloat != 2000 || rec.MarketMakerShares != 1800 || rec.HumanShares != 200 || rec.ReservedShares != 100 {
		t.Errorf("after split: %+v", rec)
	}

	// Sub-2 ratios are ignored.
	l.ApplySplit("ACME", 1)
	rec, _ = l.Record("ACME")
	if rec.TotalFloat != 2000 {
		t.Errorf("total = %d, want 2000 after ignored ratio", rec.TotalFloat)
	}
}

func TestFloatLedger_RecordsAndRestore(t *testing.T) {
	l := NewFloatLedger()
	l.Initialize([]*domain.Stock{
		{Symbol: "ZED", FloatShares: 10},
		{Symbol: "ACME", FloatShares: 20},
	}, nil, nil)

	records := l.Records()
	if len(records) != 2 || records[0].Symbol != "ACME" || records[1].Symbol != "ZED" {
		t.Fatalf("Records() = %+v, want sorted by symbol", records)
	}

	fresh := NewFloatLedger()
	fresh.Restore(records)
	rec, ok := fresh.Record("ZED")
	if !ok || rec.TotalFloat != 10 {
		t.Errorf("restored ZED = %+v, ok=%v", rec, ok)
	}
}
