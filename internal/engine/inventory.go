package engine

import (
	"sort"
	"sync"

	"github.com/efreitasn/minimarket/internal/domain"
)

// InventoryModel tracks the market maker's per-symbol inventory level as
// a ratio around 1.0. Fills push the level away from baseline (buys drain
// inventory, sells replenish it) and each cycle it mean-reverts toward
// 1.0. The level drives the spread multiplier the pricing engine consumes.
type InventoryModel struct {
	mu        sync.RWMutex
	levels    map[string]float64
	reversion float64
}

// Spread-multiplier clamps: a drained market maker charges up to 3× the
// baseline spread, an overstocked one as little as 0.5×.
const (
	minSpreadMultiplier = 0.5
	maxSpreadMultiplier = 3.0
	minInventoryLevel   = 1.0 / maxSpreadMultiplier
	maxInventoryLevel   = 1.0 / minSpreadMultiplier
)

// NewInventoryModel creates a model with the given per-cycle mean
// reversion rate.
func NewInventoryModel(reversion float64) *InventoryModel {
	return &InventoryModel{
		levels:    make(map[string]float64),
		reversion: reversion,
	}
}

// Level returns the inventory level for symbol, 1.0 when untouched.
func (m *InventoryModel) Level(symbol string) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if lvl, ok := m.levels[symbol]; ok {
		return lvl
	}
	return 1.0
}

// SpreadMultiplier maps the inventory level to the 0.5×–3.0× spread
// scalar: multiplier = 1/level, so low inventory widens the spread.
func (m *InventoryModel) SpreadMultiplier(symbol string) float64 {
	mult := 1.0 / m.Level(symbol)
	if mult < minSpreadMultiplier {
		return minSpreadMultiplier
	}
	if mult > maxSpreadMultiplier {
		return maxSpreadMultiplier
	}
	return mult
}

// RecordFill moves the level after a fill: trader buys drain the market
// maker's inventory, sells (and short sales) replenish it. The move is
// proportional to the order's share of the symbol's float.
func (m *InventoryModel) RecordFill(symbol string, side domain.OrderSide, quantity, totalFloat int64) {
	if quantity <= 0 || totalFloat <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	lvl, ok := m.levels[symbol]
	if !ok {
		lvl = 1.0
	}
	delta := float64(quantity) / float64(totalFloat)
	if side.IsBuySide() {
		lvl -= delta
	} else {
		lvl += delta
	}
	m.levels[symbol] = clampLevel(lvl)
}

// MeanRevert pulls every level toward 1.0 by the configured rate. Called
// once per cycle by the coordinator.
func (m *InventoryModel) MeanRevert() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for sym, lvl := range m.levels {
		m.levels[sym] = clampLevel(lvl + (1.0-lvl)*m.reversion)
	}
}

// Levels returns a copy of all tracked levels sorted by symbol.
func (m *InventoryModel) Levels() map[string]float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]float64, len(m.levels))
	for sym, lvl := range m.levels {
		out[sym] = lvl
	}
	return out
}

// Symbols returns tracked symbols in sorted order.
func (m *InventoryModel) Symbols() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.levels))
	for sym := range m.levels {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// Restore replaces the tracked levels.
func (m *InventoryModel) Restore(levels map[string]float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levels = make(map[string]float64, len(levels))
	for sym, lvl := range levels {
		m.levels[sym] = lvl
	}
}

func clampLevel(lvl float64) float64 {
	if lvl < minInventoryLevel {
		return minInventoryLevel
	}
	if lvl > maxInventoryLevel {
		return maxInventoryLevel
	}
	return lvl
}
