package store

import (
	"sync"

	"github.com/efreitasn/minimarket/internal/domain"
)

// FillStore is a thread-safe in-memory store for executed fills,
// keyed by symbol. Fills are append-only and chronological.
type FillStore struct {
	mu    sync.RWMutex
	fills map[string][]*domain.Fill // symbol → fills (chronological)
}

// NewFillStore creates an empty FillStore.
func NewFillStore() *FillStore {
	return &FillStore{
		fills: make(map[string][]*domain.Fill),
	}
}

// Append adds a fill to the symbol's chronological list.
func (s *FillStore) Append(f *domain.Fill) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fills[f.Symbol] = append(s.fills[f.Symbol], f)
}

// Recent returns up to n most recent fills for a symbol, newest first.
func (s *FillStore) Recent(symbol string, n int) []*domain.Fill {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fills := s.fills[symbol]
	if n > len(fills) {
		n = len(fills)
	}
	out := make([]*domain.Fill, 0, n)
	for i := len(fills) - 1; i >= len(fills)-n; i-- {
		out = append(out, fills[i])
	}
	return out
}
