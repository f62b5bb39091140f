package service

import (
	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/engine"
)

// PositionView is one short position enriched with mark-to-market fields.
type PositionView struct {
	PositionID          string
	Symbol              string
	Shares              int64
	EntryPrice          int64
	CurrentPrice        int64
	UnrealizedPL        int64
	LockedCollateral    int64
	CashCollateral      int64
	EffectiveCollateral int64
	RequiredCollateral  int64
	BorrowFeesPaid      int64
	State               domain.ShortState
	MarginCallStarted   int64 // cycle, 0 while healthy
}

// PositionService handles short-position queries and collateral top-ups.
type PositionService struct {
	coord  *engine.Coordinator
	stocks *domain.StockRegistry
}

// NewPositionService creates a new PositionService with the given
// dependencies.
func NewPositionService(coord *engine.Coordinator, stocks *domain.StockRegistry) *PositionService {
	return &PositionService{
		coord:  coord,
		stocks: stocks,
	}
}

// ListByOwner returns the owner's open short positions, marked to the
// current price.
func (s *PositionService) ListByOwner(ownerID string) ([]PositionView, error) {
	if !accountIDRegex.MatchString(ownerID) {
		return nil, &domain.ValidationError{
			Message: "owner_id must match ^[a-zA-Z0-9_-]{1,64}$",
		}
	}

	maintenance := s.coord.Tables().Shorts.MaintenanceMarginPercent
	positions := s.coord.PositionsFor(ownerID)
	out := make([]PositionView, len(positions))
	for i, p := range positions {
		price := s.stocks.Price(p.Symbol)
		out[i] = PositionView{
			PositionID:          p.PositionID,
			Symbol:              p.Symbol,
			Shares:              p.Shares,
			EntryPrice:          p.EntryPrice,
			CurrentPrice:        price,
			UnrealizedPL:        p.UnrealizedPL(price),
			LockedCollateral:    p.LockedCollateral,
			CashCollateral:      p.CashCollateral,
			EffectiveCollateral: p.EffectiveCollateral(price),
			RequiredCollateral:  domain.MulPercent(p.Value(price), maintenance),
			BorrowFeesPaid:      p.BorrowFeesPaid,
			State:               p.State,
			MarginCallStarted:   p.MarginCallStartedAtCycle,
		}
	}
	return out, nil
}

// TopUp adds cash collateral to an open short position. Amount is in
// dollars.
func (s *PositionService) TopUp(ownerID, symbol string, amount float64) (*PositionView, error) {
	if !accountIDRegex.MatchString(ownerID) {
		return nil, &domain.ValidationError{
			Message: "owner_id must match ^[a-zA-Z0-9_-]{1,64}$",
		}
	}
	if !symbolRegex.MatchString(symbol) {
		return nil, &domain.ValidationError{
			Message: "symbol must match ^[A-Z]{1,10}$",
		}
	}
	if amount <= 0 {
		return nil, &domain.ValidationError{
			Message: "amount must be > 0",
		}
	}
	cents, err := domain.DollarsToCents(amount)
	if err != nil {
		return nil, &domain.ValidationError{
			Message: "amount must have at most 2 decimal places",
		}
	}
	pos, err := s.coord.TopUpCollateral(ownerID, symbol, cents)
	if err != nil {
		return nil, err
	}
	price := s.stocks.Price(symbol)
	maintenance := s.coord.Tables().Shorts.MaintenanceMarginPercent
	view := PositionView{
		PositionID:          pos.PositionID,
		Symbol:              pos.Symbol,
		Shares:              pos.Shares,
		EntryPrice:          pos.EntryPrice,
		CurrentPrice:        price,
		UnrealizedPL:        pos.UnrealizedPL(price),
		LockedCollateral:    pos.LockedCollateral,
		CashCollateral:      pos.CashCollateral,
		EffectiveCollateral: pos.EffectiveCollateral(price),
		RequiredCollateral:  domain.MulPercent(pos.Value(price), maintenance),
		BorrowFeesPaid:      pos.BorrowFeesPaid,
		State:               pos.State,
		MarginCallStarted:   pos.MarginCallStartedAtCycle,
	}
	return &view, nil
}

// MaxSellable returns how many shares of a symbol the owner may sell
// given collateral locked by open shorts.
func (s *PositionService) MaxSellable(ownerID, symbol string) (int64, error) {
	if !s.stocks.Exists(symbol) {
		return 0, domain.ErrSymbolNotFound
	}
	return s.coord.MaxSellableShares(ownerID, symbol)
}
