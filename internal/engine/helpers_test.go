package engine

import (
	"time"

	"github.com/efreitasn/minimarket/internal/config"
	"github.com/efreitasn/minimarket/internal/creditline"
	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/store"
)

// testEnv bundles a coordinator with its collaborators so tests can
// inspect state from every side.
type testEnv struct {
	coord    *Coordinator
	stocks   *domain.StockRegistry
	ledger   *FloatLedger
	accounts *store.AccountStore
	orders   *store.OrderStore
	fills    *store.FillStore
	events   *store.EventStore
	credit   *creditline.Registry
}

// zeroCostTables returns real-life tables with every trading cost zeroed
// so settlement math is exact: cost of a fill is price times quantity.
func zeroCostTables() config.Tables {
	t := config.TablesFor(config.GameModeRealLife)
	t.Costs.SpreadPercent = 0
	t.Costs.SlippagePerShare = 0
	t.Costs.MaxSlippagePercent = 0
	t.Costs.FeePercent = 0
	t.Costs.MinimumFee = 0
	t.Costs.CashBufferPercent = 0
	t.Shorts.BaseBorrowFeePerCycle = 0
	return t
}

// newTestEnv creates a coordinator over a single stock, ACME at $50.00
// with a float of 10000 shares.
func newTestEnv(tables config.Tables) *testEnv {
	stocks := domain.NewStockRegistry()
	stocks.Register(&domain.Stock{
		Symbol:       "ACME",
		Name:         "Acme Industrial Holdings",
		CurrentPrice: 5000,
		FloatShares:  10000,
	})

	ledger := NewFloatLedger()
	ledger.Initialize(stocks.List(), nil, nil)

	env := &testEnv{
		stocks:   stocks,
		ledger:   ledger,
		accounts: store.NewAccountStore(),
		orders:   store.NewOrderStore(),
		fills:    store.NewFillStore(),
		events:   store.NewEventStore(),
		credit:   creditline.NewRegistry(100_000_000, 1_000_000_000),
	}
	env.coord = NewCoordinator(
		tables,
		stocks,
		ledger,
		NewInventoryModel(tables.InventoryReversion),
		env.accounts,
		env.orders,
		env.fills,
		env.events,
		env.credit,
		nil,
	)
	return env
}

// newTestAccount creates an account with the given cash and holdings.
// Held shares are moved out of the market-maker bucket so the ledger
// stays consistent with the account books.
func (env *testEnv) newTestAccount(id string, kind domain.AccountKind, cash int64, holdings map[string]int64) *domain.Account {
	h := make(map[string]*domain.Holding, len(holdings))
	for sym, qty := range holdings {
		h[sym] = &domain.Holding{Quantity: qty}
		env.ledger.Transfer(sym, BucketMarketMaker, BucketForKind(kind), qty)
	}
	a := &domain.Account{
		AccountID:   id,
		Kind:        kind,
		CashBalance: cash,
		Holdings:    h,
		CreatedAt:   time.Now(),
	}
	_ = env.accounts.Create(a)
	return a
}

// submit is a shorthand for Submit with a market-kind intent.
func (env *testEnv) submit(ownerID string, side domain.OrderSide, qty int64) (*domain.Order, error) {
	return env.coord.Submit(domain.TradeIntent{
		OwnerID:  ownerID,
		Symbol:   "ACME",
		Side:     side,
		Kind:     domain.OrderKindMarket,
		Quantity: qty,
	})
}

// eventsOfType filters a tick's events.
func eventsOfType(events []*domain.Event, typ domain.EventType) []*domain.Event {
	var out []*domain.Event
	for _, e := range events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}
