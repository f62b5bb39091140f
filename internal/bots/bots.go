// Package bots runs the autonomous traders. Each trader submits ordinary
// trade intents through the same order service humans use; the engine
// never distinguishes the origin.
package bots

import (
	"log/slog"
	"math/rand"

	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/service"
)

// Trader is one autonomous participant. It holds no market state of its
// own; every decision re-reads prices through the quote endpoint the
// engine already exposes.
type Trader struct {
	accountID string
	rng       *rand.Rand
}

// NewTrader creates a trader bound to an existing account.
func NewTrader(accountID string, seed int64) *Trader {
	return &Trader{
		accountID: accountID,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// Pool drives a set of traders once per cycle.
type Pool struct {
	traders  []*Trader
	orderSvc *service.OrderService
	symbols  []string
	logger   *slog.Logger

	// tradeChance is the per-trader probability of acting in a cycle.
	tradeChance float64
}

// NewPool creates a pool of traders over the given symbols.
func NewPool(traders []*Trader, orderSvc *service.OrderService, symbols []string, logger *slog.Logger) *Pool {
	return &Pool{
		traders:     traders,
		orderSvc:    orderSvc,
		symbols:     symbols,
		logger:      logger,
		tradeChance: 0.3,
	}
}

// Step gives every trader one chance to act. Submission failures are
// expected (insufficient cash, sell restrictions) and only logged at
// debug level.
func (p *Pool) Step() {
	for _, t := range p.traders {
		if t.rng.Float64() >= p.tradeChance {
			continue
		}
		req := t.decide(p.symbols)
		if _, err := p.orderSvc.Submit(req); err != nil {
			p.logger.Debug("bot order rejected",
				slog.String("account_id", t.accountID),
				slog.String("symbol", req.Symbol),
				slog.String("side", string(req.Side)),
				slog.String("error", err.Error()),
			)
		}
	}
}

// decide picks a random side, symbol, and small quantity. Buys dominate
// so bots accumulate holdings they can later sell.
func (t *Trader) decide(symbols []string) service.SubmitOrderRequest {
	symbol := symbols[t.rng.Intn(len(symbols))]
	quantity := int64(1 + t.rng.Intn(20))

	side := domain.OrderSideBuy
	switch r := t.rng.Float64(); {
	case r < 0.55:
		// buy
	case r < 0.90:
		side = domain.OrderSideSell
	case r < 0.95:
		side = domain.OrderSideShortSell
	default:
		side = domain.OrderSideBuyToCover
	}

	return service.SubmitOrderRequest{
		OwnerID:  t.accountID,
		Symbol:   symbol,
		Side:     side,
		Kind:     domain.OrderKindMarket,
		Quantity: quantity,
	}
}
