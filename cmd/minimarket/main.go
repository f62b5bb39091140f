package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/efreitasn/minimarket/internal/bots"
	"github.com/efreitasn/minimarket/internal/config"
	"github.com/efreitasn/minimarket/internal/creditline"
	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/engine"
	"github.com/efreitasn/minimarket/internal/handler"
	"github.com/efreitasn/minimarket/internal/metrics"
	"github.com/efreitasn/minimarket/internal/notify"
	"github.com/efreitasn/minimarket/internal/service"
	"github.com/efreitasn/minimarket/internal/snapshot"
	"github.com/efreitasn/minimarket/internal/store"
	"github.com/joho/godotenv"
)

// seedStock is one catalog entry. Prices are dollars; the float-share
// count derives from market cap.
type seedStock struct {
	symbol string
	name   string
	price  float64
	mcapB  float64
}

// catalog is the fixed set of tradable stocks.
var catalog = []seedStock{
	{"AAPL", "Apple Inc.", 189.50, 2950.0},
	{"MSFT", "Microsoft Corporation", 415.20, 3090.0},
	{"GOOG", "Alphabet Inc.", 172.80, 2140.0},
	{"AMZN", "Amazon.com Inc.", 182.40, 1900.0},
	{"NVDA", "NVIDIA Corporation", 122.60, 3010.0},
	{"META", "Meta Platforms Inc.", 505.10, 1280.0},
	{"TSLA", "Tesla Inc.", 248.30, 790.0},
	{"JPM", "JPMorgan Chase & Co.", 208.70, 600.0},
	{"ACME", "Acme Industrial Holdings", 42.15, 18.0},
	{"ZAP", "Zap Energy Systems", 12.80, 3.5},
}

const (
	humanAccountID = "player"
	humanStartCash = 100_000.00
	botStartCash   = 250_000.00
	creditLineBase = 2_500_000  // cents, $25k
	creditLineMax  = 50_000_000 // cents, $500k
	walkVolatility = 0.01
)

func main() {
	healthcheck := flag.Bool("healthcheck", false, "Run health check against running server")
	flag.Parse()

	// Handle -healthcheck flag: HTTP GET to localhost:PORT/healthz, exit 0/1.
	if *healthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", port))
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up slog logger with configured level.
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	tables := config.TablesFor(cfg.Mode)

	// Instantiate stores.
	accountStore := store.NewAccountStore()
	orderStore := store.NewOrderStore()
	fillStore := store.NewFillStore()
	eventStore := store.NewEventStore()

	// Domain.
	stocks := domain.NewStockRegistry()
	for _, s := range catalog {
		price, err := domain.DollarsToCents(s.price)
		if err != nil {
			logger.Error("invalid catalog price", slog.String("symbol", s.symbol))
			os.Exit(1)
		}
		stocks.Register(&domain.Stock{
			Symbol:            s.symbol,
			Name:              s.name,
			CurrentPrice:      price,
			MarketCapBillions: s.mcapB,
			FloatShares:       domain.SeedFloatShares(s.mcapB, price),
		})
	}

	// Credit lines.
	credit := creditline.NewRegistry(creditLineBase, creditLineMax)

	// Engine.
	ledger := engine.NewFloatLedger()
	ledger.Initialize(stocks.List(), nil, nil)
	inventory := engine.NewInventoryModel(tables.InventoryReversion)

	dispatcher := notify.Fanout{
		&notify.LogDispatcher{Logger: logger},
		&notify.MetricsDispatcher{},
	}

	coord := engine.NewCoordinator(
		tables,
		stocks,
		ledger,
		inventory,
		accountStore,
		orderStore,
		fillStore,
		eventStore,
		credit,
		dispatcher,
	)

	// Services.
	accountSvc := service.NewAccountService(accountStore, credit)
	orderSvc := service.NewOrderService(coord, orderStore)
	stockSvc := service.NewStockService(stocks, coord, fillStore)
	positionSvc := service.NewPositionService(coord, stocks)

	// Seed the human account and the autonomous traders.
	if _, err := accountSvc.Register(service.RegisterAccountRequest{
		AccountID:   humanAccountID,
		Kind:        domain.AccountKindHuman,
		InitialCash: humanStartCash,
	}); err != nil {
		logger.Error("failed to seed player account", slog.String("error", err.Error()))
		os.Exit(1)
	}

	symbols := make([]string, len(catalog))
	for i, s := range catalog {
		symbols[i] = s.symbol
	}

	traders := make([]*bots.Trader, cfg.BotCount)
	for i := range traders {
		id := fmt.Sprintf("bot-%02d", i+1)
		if _, err := accountSvc.Register(service.RegisterAccountRequest{
			AccountID:   id,
			Kind:        domain.AccountKindBot,
			InitialCash: botStartCash,
		}); err != nil {
			logger.Error("failed to seed bot account", slog.String("error", err.Error()))
			os.Exit(1)
		}
		traders[i] = bots.NewTrader(id, int64(i+1))
	}
	pool := bots.NewPool(traders, orderSvc, symbols, logger)

	// Snapshot persistence (optional).
	var snapStore *snapshot.Store
	if cfg.SnapshotDir != "" {
		snapStore, err = snapshot.Open(filepath.Join(cfg.SnapshotDir, "state"))
		if err != nil {
			logger.Error("failed to open snapshot store", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer snapStore.Close()

		snap, found, err := snapStore.Load()
		if err != nil {
			logger.Error("failed to load snapshot", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if found {
			coord.Restore(snap)
			logger.Info("state restored from snapshot", slog.Int64("cycle", snap.Cycle))
		}
	}

	walker := engine.NewPriceWalker(time.Now().UnixNano(), walkVolatility)

	// Router.
	eventH := handler.NewEventHandler(eventStore)
	router := handler.NewRouter(accountSvc, orderSvc, stockSvc, positionSvc, eventH, coord, logger)

	// Run the cycle loop.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go runCycles(ctx, cfg.TickInterval, coord, walker, stocks, accountStore, credit, tables, pool, logger)

	// Configure HTTP server.
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start HTTP server in a goroutine.
	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("mode", string(cfg.Mode)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	// Graceful shutdown: stop HTTP server, stop the cycle loop, then
	// persist a final snapshot.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
	cancel()

	if snapStore != nil {
		if err := snapStore.Save(coord.Snapshot()); err != nil {
			logger.Error("failed to save snapshot", slog.String("error", err.Error()))
		} else {
			logger.Info("state snapshot saved", slog.Int64("cycle", coord.Cycle()))
		}
	}

	logger.Info("server stopped")
}

// runCycles advances the simulation on a fixed ticker until ctx is done.
// Each tick moves prices, lets bots trade, revalues credit lines, runs
// the settlement cycle, and refreshes gauges.
func runCycles(
	ctx context.Context,
	interval time.Duration,
	coord *engine.Coordinator,
	walker *engine.PriceWalker,
	stocks *domain.StockRegistry,
	accounts *store.AccountStore,
	credit *creditline.Registry,
	tables config.Tables,
	pool *bots.Pool,
	logger *slog.Logger,
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			walker.Step(stocks)
			pool.Step()
			revalueCreditLines(accounts, stocks, credit, tables.CollateralRatio)

			events := coord.Tick()
			cycle := coord.Cycle()
			metrics.Cycle.Set(float64(cycle))
			for _, s := range stocks.List() {
				fs, err := coord.FloatStatus(s.Symbol)
				if err != nil {
					continue
				}
				ratio := 0.0
				if fs.Record.TotalFloat > 0 {
					ratio = float64(fs.ShortInterest) / float64(fs.Record.TotalFloat)
				}
				metrics.ShortInterestRatio.WithLabelValues(s.Symbol).Set(ratio)
				metrics.SpreadMultiplier.WithLabelValues(s.Symbol).Set(fs.SpreadMultiplier)
			}

			logger.Debug("cycle complete",
				slog.Int64("cycle", cycle),
				slog.Int("events", len(events)),
			)
		}
	}
}

// revalueCreditLines refreshes every account's collateral credit values
// from current holdings and prices. Runs before settlement so short
// margins see up-to-date availability.
func revalueCreditLines(
	accounts *store.AccountStore,
	stocks *domain.StockRegistry,
	credit *creditline.Registry,
	collateralRatio float64,
) {
	for _, acct := range accounts.List() {
		line := credit.Line(acct.AccountID)
		acct.Mu.Lock()
		for sym, h := range acct.Holdings {
			value := stocks.Price(sym) * h.Quantity
			line.Revalue(sym, domain.MulPercent(value, collateralRatio))
		}
		acct.Mu.Unlock()
	}
}
