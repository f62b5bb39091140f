package engine

import (
	"math/rand"

	"github.com/efreitasn/minimarket/internal/domain"
)

// PriceWalker drives per-cycle price movement as a bounded random walk.
// Each step moves every symbol by a fraction drawn from
// [-volatility, +volatility], floored at one cent.
type PriceWalker struct {
	rng        *rand.Rand
	volatility float64
}

// NewPriceWalker creates a walker with the given per-cycle volatility.
func NewPriceWalker(seed int64, volatility float64) *PriceWalker {
	return &PriceWalker{
		rng:        rand.New(rand.NewSource(seed)),
		volatility: volatility,
	}
}

// Step advances every registered stock's price by one random-walk step.
func (w *PriceWalker) Step(stocks *domain.StockRegistry) {
	for _, s := range stocks.List() {
		frac := (w.rng.Float64()*2 - 1) * w.volatility
		next := s.CurrentPrice + domain.RoundCents(float64(s.CurrentPrice)*frac)
		if next < 1 {
			next = 1
		}
		stocks.SetPrice(s.Symbol, next)
	}
}
