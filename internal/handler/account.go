package handler

import (
	"net/http"

	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/service"
	"github.com/go-chi/chi/v5"
)

// AccountHandler handles HTTP requests for account endpoints.
type AccountHandler struct {
	accountSvc *service.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountSvc *service.AccountService) *AccountHandler {
	return &AccountHandler{accountSvc: accountSvc}
}

// registerAccountRequest is the JSON request body for POST /accounts.
type registerAccountRequest struct {
	AccountID   string  `json:"account_id"`
	Kind        string  `json:"kind"`
	InitialCash float64 `json:"initial_cash"`
}

// accountResponse is the JSON response for POST /accounts (201 Created).
type accountResponse struct {
	AccountID   string  `json:"account_id"`
	Kind        string  `json:"kind"`
	CashBalance float64 `json:"cash_balance"`
	CreatedAt   string  `json:"created_at"`
}

// balanceResponse is the JSON response for GET /accounts/{account_id}/balance.
type balanceResponse struct {
	AccountID     string                   `json:"account_id"`
	Kind          string                   `json:"kind"`
	CashBalance   float64                  `json:"cash_balance"`
	ReservedCash  float64                  `json:"reserved_cash"`
	AvailableCash float64                  `json:"available_cash"`
	Holdings      []holdingBalanceResponse `json:"holdings"`
	Credit        creditLineResponse       `json:"credit_line"`
	UpdatedAt     string                   `json:"updated_at"`
}

// holdingBalanceResponse is a single holding in the balance response.
type holdingBalanceResponse struct {
	Symbol            string `json:"symbol"`
	Quantity          int64  `json:"quantity"`
	ReservedQuantity  int64  `json:"reserved_quantity"`
	AvailableQuantity int64  `json:"available_quantity"`
}

// creditLineResponse is the credit-line section of the balance response.
type creditLineResponse struct {
	AvailableCredit       float64            `json:"available_credit"`
	RecommendedCreditLine float64            `json:"recommended_credit_line"`
	MaxCreditLine         float64            `json:"max_credit_line"`
	CollateralBreakdown   map[string]float64 `json:"collateral_breakdown"`
}

// Register handles POST /accounts.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerAccountRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	acct, err := h.accountSvc.Register(service.RegisterAccountRequest{
		AccountID:   req.AccountID,
		Kind:        domain.AccountKind(req.Kind),
		InitialCash: req.InitialCash,
	})
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, accountResponse{
		AccountID:   acct.AccountID,
		Kind:        string(acct.Kind),
		CashBalance: domain.CentsToDollars(acct.CashBalance),
		CreatedAt:   acct.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	})
}

// GetBalance handles GET /accounts/{account_id}/balance.
func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "account_id")

	bal, err := h.accountSvc.GetBalance(accountID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	holdings := make([]holdingBalanceResponse, len(bal.Holdings))
	for i, hb := range bal.Holdings {
		holdings[i] = holdingBalanceResponse{
			Symbol:            hb.Symbol,
			Quantity:          hb.Quantity,
			ReservedQuantity:  hb.ReservedQuantity,
			AvailableQuantity: hb.AvailableQuantity,
		}
	}

	WriteJSON(w, http.StatusOK, balanceResponse{
		AccountID:     bal.AccountID,
		Kind:          string(bal.Kind),
		CashBalance:   domain.CentsToDollars(bal.CashBalance),
		ReservedCash:  domain.CentsToDollars(bal.ReservedCash),
		AvailableCash: domain.CentsToDollars(bal.AvailableCash),
		Holdings:      holdings,
		Credit:        buildCreditLineResponse(bal.Credit),
		UpdatedAt:     bal.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	})
}

// buildCreditLineResponse converts a credit-line view to the response
// shape, cents to dollars.
func buildCreditLineResponse(info domain.CreditLineInfo) creditLineResponse {
	breakdown := make(map[string]float64, len(info.CollateralBreakdown))
	for sym, v := range info.CollateralBreakdown {
		breakdown[sym] = domain.CentsToDollars(v)
	}
	return creditLineResponse{
		AvailableCredit:       domain.CentsToDollars(info.AvailableCredit),
		RecommendedCreditLine: domain.CentsToDollars(info.RecommendedCreditLine),
		MaxCreditLine:         domain.CentsToDollars(info.MaxCreditLine),
		CollateralBreakdown:   breakdown,
	}
}
