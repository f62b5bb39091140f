package domain

import (
	"math"
	"sort"
	"sync"
)

// Stock describes a traded symbol. CurrentPrice is mutated by the external
// price source between cycles; everything else is fixed at registration
// (splits adjust price and float through the coordinator).
type Stock struct {
	Symbol            string
	Name              string
	CurrentPrice      int64 // cents
	MarketCapBillions float64
	FloatShares       int64
}

// SeedFloatShares derives a float-share count for a stock that has no
// explicit one: 20% of shares outstanding, scaled down by 1000 to keep
// simulation quantities manageable.
func SeedFloatShares(marketCapBillions float64, price int64) int64 {
	if price <= 0 || marketCapBillions <= 0 {
		return 0
	}
	sharesOutstanding := marketCapBillions * 1e9 / CentsToDollars(price)
	return int64(math.Floor(sharesOutstanding * 0.20 / 1000))
}

// StockRegistry tracks traded symbols and their current prices in a
// thread-safe manner. Prices are written by the tick driver and read by
// the settlement engine and the HTTP layer.
type StockRegistry struct {
	mu     sync.RWMutex
	stocks map[string]*Stock
}

// NewStockRegistry creates an empty StockRegistry.
func NewStockRegistry() *StockRegistry {
	return &StockRegistry{
		stocks: make(map[string]*Stock),
	}
}

// Register adds a stock. When FloatShares is zero the seeding heuristic
// fills it in from market cap and price.
func (r *StockRegistry) Register(s *Stock) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.FloatShares == 0 {
		s.FloatShares = SeedFloatShares(s.MarketCapBillions, s.CurrentPrice)
	}
	r.stocks[s.Symbol] = s
}

// Get returns the stock for symbol, or ErrSymbolNotFound.
func (r *StockRegistry) Get(symbol string) (*Stock, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.stocks[symbol]
	if !ok {
		return nil, ErrSymbolNotFound
	}
	return s, nil
}

// Exists returns true if the symbol has been registered.
func (r *StockRegistry) Exists(symbol string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.stocks[symbol]
	return ok
}

// Price returns the current price for symbol, or 0 if unknown.
func (r *StockRegistry) Price(symbol string) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.stocks[symbol]
	if !ok {
		return 0
	}
	return s.CurrentPrice
}

// SetPrice updates the current price for symbol. Unknown symbols are
// ignored so a bad entry cannot break the tick driver.
func (r *StockRegistry) SetPrice(symbol string, price int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.stocks[symbol]; ok {
		s.CurrentPrice = price
	}
}

// List returns all registered stocks sorted by symbol.
func (r *StockRegistry) List() []*Stock {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Stock, 0, len(r.stocks))
	for _, s := range r.stocks {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}
