// Package creditline provides the in-memory reference implementation of
// the credit/loan boundary the engine consumes. The engine itself only
// ever sees the domain.CreditLine interface.
package creditline

import (
	"sync"

	"github.com/efreitasn/minimarket/internal/domain"
)

// Line is a collateral-backed credit line: a base amount plus credit
// extended against the owner's stock holdings, revalued by the caller as
// prices move. Reservations model margin locked for short positions.
type Line struct {
	mu         sync.Mutex
	base       int64
	collateral map[string]int64 // symbol → collateral credit value
	reserved   int64
	maxLine    int64
}

// NewLine creates a credit line with the given base credit and hard cap.
func NewLine(base, maxLine int64) *Line {
	return &Line{
		base:       base,
		maxLine:    maxLine,
		collateral: make(map[string]int64),
	}
}

// Revalue replaces the collateral credit value recorded for a symbol.
// Called by the application layer whenever holdings or prices change.
func (l *Line) Revalue(symbol string, creditValue int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if creditValue <= 0 {
		delete(l.collateral, symbol)
		return
	}
	l.collateral[symbol] = creditValue
}

// Info returns a read-only view of the line.
func (l *Line) Info() domain.CreditLineInfo {
	l.mu.Lock()
	defer l.mu.Unlock()

	limit := l.limitLocked()
	breakdown := make(map[string]int64, len(l.collateral))
	for sym, v := range l.collateral {
		breakdown[sym] = v
	}
	return domain.CreditLineInfo{
		AvailableCredit:       limit - l.reserved,
		RecommendedCreditLine: limit,
		MaxCreditLine:         l.maxLine,
		CollateralBreakdown:   breakdown,
	}
}

// ReserveMargin locks credit for a short position. It fails when the
// available credit cannot cover the amount.
func (l *Line) ReserveMargin(amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if amount <= 0 {
		return nil
	}
	if l.limitLocked()-l.reserved < amount {
		return domain.ErrInsufficientCredit
	}
	l.reserved += amount
	return nil
}

// ReleaseMargin returns previously reserved credit, clamped at zero.
func (l *Line) ReleaseMargin(amount int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.reserved -= amount
	if l.reserved < 0 {
		l.reserved = 0
	}
}

func (l *Line) limitLocked() int64 {
	limit := l.base
	for _, v := range l.collateral {
		limit += v
	}
	if limit > l.maxLine {
		limit = l.maxLine
	}
	return limit
}

// Registry resolves a credit line per account, creating one with the
// configured defaults on first use.
type Registry struct {
	mu      sync.Mutex
	lines   map[string]*Line
	base    int64
	maxLine int64
}

// NewRegistry creates a Registry that seeds each account's line with the
// given base credit and cap.
func NewRegistry(base, maxLine int64) *Registry {
	return &Registry{
		lines:   make(map[string]*Line),
		base:    base,
		maxLine: maxLine,
	}
}

// LineFor returns the account's credit line, creating it if needed.
func (r *Registry) LineFor(ownerID string) domain.CreditLine {
	return r.Line(ownerID)
}

// Line is like LineFor but returns the concrete type, for callers that
// need Revalue.
func (r *Registry) Line(ownerID string) *Line {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.lines[ownerID]
	if !ok {
		l = NewLine(r.base, r.maxLine)
		r.lines[ownerID] = l
	}
	return l
}
