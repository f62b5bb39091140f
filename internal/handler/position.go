package handler

import (
	"net/http"

	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/service"
	"github.com/go-chi/chi/v5"
)

// PositionHandler handles HTTP requests for short-position endpoints.
type PositionHandler struct {
	positionSvc *service.PositionService
}

// NewPositionHandler creates a new PositionHandler.
func NewPositionHandler(positionSvc *service.PositionService) *PositionHandler {
	return &PositionHandler{positionSvc: positionSvc}
}

// positionResponse is one short position in the listing, marked to the
// current price. Money fields are dollars.
type positionResponse struct {
	PositionID          string  `json:"position_id"`
	Symbol              string  `json:"symbol"`
	Shares              int64   `json:"shares"`
	EntryPrice          float64 `json:"entry_price"`
	CurrentPrice        float64 `json:"current_price"`
	UnrealizedPL        float64 `json:"unrealized_pl"`
	LockedCollateral    float64 `json:"locked_collateral"`
	CashCollateral      float64 `json:"cash_collateral"`
	EffectiveCollateral float64 `json:"effective_collateral"`
	RequiredCollateral  float64 `json:"required_collateral"`
	BorrowFeesPaid      float64 `json:"borrow_fees_paid"`
	State               string  `json:"state"`
	MarginCallStarted   *int64  `json:"margin_call_started_at_cycle"`
}

// topUpRequest is the JSON request body for collateral top-ups.
type topUpRequest struct {
	Symbol string  `json:"symbol"`
	Amount float64 `json:"amount"`
}

// maxSellableResponse is the JSON response for the max-sellable query.
type maxSellableResponse struct {
	AccountID string `json:"account_id"`
	Symbol    string `json:"symbol"`
	MaxShares int64  `json:"max_shares"`
}

// ListPositions handles GET /accounts/{account_id}/positions.
func (h *PositionHandler) ListPositions(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "account_id")

	positions, err := h.positionSvc.ListByOwner(accountID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	out := make([]positionResponse, len(positions))
	for i, p := range positions {
		out[i] = positionResponse{
			PositionID:          p.PositionID,
			Symbol:              p.Symbol,
			Shares:              p.Shares,
			EntryPrice:          domain.CentsToDollars(p.EntryPrice),
			CurrentPrice:        domain.CentsToDollars(p.CurrentPrice),
			UnrealizedPL:        domain.CentsToDollars(p.UnrealizedPL),
			LockedCollateral:    domain.CentsToDollars(p.LockedCollateral),
			CashCollateral:      domain.CentsToDollars(p.CashCollateral),
			EffectiveCollateral: domain.CentsToDollars(p.EffectiveCollateral),
			RequiredCollateral:  domain.CentsToDollars(p.RequiredCollateral),
			BorrowFeesPaid:      domain.CentsToDollars(p.BorrowFeesPaid),
			State:               string(p.State),
		}
		if p.MarginCallStarted > 0 {
			c := p.MarginCallStarted
			out[i].MarginCallStarted = &c
		}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"positions": out})
}

// TopUp handles POST /accounts/{account_id}/positions/topup.
func (h *PositionHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "account_id")

	var req topUpRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	pos, err := h.positionSvc.TopUp(accountID, req.Symbol, req.Amount)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"position_id":          pos.PositionID,
		"symbol":               pos.Symbol,
		"locked_collateral":    domain.CentsToDollars(pos.LockedCollateral),
		"cash_collateral":      domain.CentsToDollars(pos.CashCollateral),
		"effective_collateral": domain.CentsToDollars(pos.EffectiveCollateral),
		"state":                string(pos.State),
	})
}

// MaxSellable handles GET /accounts/{account_id}/max-sellable?symbol=AAPL.
func (h *PositionHandler) MaxSellable(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "account_id")

	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "validation_error", "symbol query parameter is required")
		return
	}

	maxShares, err := h.positionSvc.MaxSellable(accountID, symbol)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, maxSellableResponse{
		AccountID: accountID,
		Symbol:    symbol,
		MaxShares: maxShares,
	})
}
