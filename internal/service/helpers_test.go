package service

import (
	"time"

	"github.com/efreitasn/minimarket/internal/config"
	"github.com/efreitasn/minimarket/internal/creditline"
	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/engine"
	"github.com/efreitasn/minimarket/internal/store"
)

// testServices wires every service over one coordinator, the way main
// does, with a single ACME stock at $50.00.
type testServices struct {
	accounts  *AccountService
	orders    *OrderService
	stocks    *StockService
	positions *PositionService

	coord      *engine.Coordinator
	stockReg   *domain.StockRegistry
	acctStore  *store.AccountStore
	orderStore *store.OrderStore
}

func newTestServices() *testServices {
	tables := config.TablesFor(config.GameModeRealLife)

	stocks := domain.NewStockRegistry()
	stocks.Register(&domain.Stock{
		Symbol:       "ACME",
		Name:         "Acme Industrial Holdings",
		CurrentPrice: 5000,
		FloatShares:  10000,
	})

	ledger := engine.NewFloatLedger()
	ledger.Initialize(stocks.List(), nil, nil)

	accounts := store.NewAccountStore()
	orders := store.NewOrderStore()
	fills := store.NewFillStore()
	events := store.NewEventStore()
	credit := creditline.NewRegistry(100_000_000, 1_000_000_000)

	coord := engine.NewCoordinator(
		tables,
		stocks,
		ledger,
		engine.NewInventoryModel(tables.InventoryReversion),
		accounts,
		orders,
		fills,
		events,
		credit,
		nil,
	)

	return &testServices{
		accounts:   NewAccountService(accounts, credit),
		orders:     NewOrderService(coord, orders),
		stocks:     NewStockService(stocks, coord, fills),
		positions:  NewPositionService(coord, stocks),
		coord:      coord,
		stockReg:   stocks,
		acctStore:  accounts,
		orderStore: orders,
	}
}

func (ts *testServices) seedAccount(id string, cash int64) *domain.Account {
	a := &domain.Account{
		AccountID:   id,
		Kind:        domain.AccountKindHuman,
		CashBalance: cash,
		Holdings:    make(map[string]*domain.Holding),
		CreatedAt:   time.Now(),
	}
	_ = ts.acctStore.Create(a)
	return a
}

func floatPtr(f float64) *float64 { return &f }
