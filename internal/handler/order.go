package handler

import (
	"net/http"
	"strconv"

	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/service"
	"github.com/go-chi/chi/v5"
)

// OrderHandler handles HTTP requests for order endpoints.
type OrderHandler struct {
	orderSvc *service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderSvc *service.OrderService) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

// submitOrderRequest is the JSON request body for POST /orders.
type submitOrderRequest struct {
	OwnerID    string   `json:"owner_id"`
	Symbol     string   `json:"symbol"`
	Side       string   `json:"side"`
	Kind       string   `json:"kind"`
	Quantity   int64    `json:"quantity"`
	LimitPrice *float64 `json:"limit_price"`
	StopPrice  *float64 `json:"stop_price"`
}

// orderResponse is the JSON response for a single order. Prices are
// dollars; cycle fields that have not happened yet are null.
type orderResponse struct {
	OrderID          string        `json:"order_id"`
	OwnerID          string        `json:"owner_id"`
	Symbol           string        `json:"symbol"`
	Side             string        `json:"side"`
	Kind             string        `json:"kind"`
	Quantity         int64         `json:"quantity"`
	LimitPrice       *float64      `json:"limit_price"`
	StopPrice        *float64      `json:"stop_price"`
	Status           string        `json:"status"`
	FailReason       *string       `json:"fail_reason"`
	CreatedAtCycle   int64         `json:"created_at_cycle"`
	TriggeredAtCycle *int64        `json:"triggered_at_cycle"`
	ExpiresAtCycle   *int64        `json:"expires_at_cycle"`
	ClosedAtCycle    *int64        `json:"closed_at_cycle"`
	Fill             *fillResponse `json:"fill"`
}

// fillResponse is the settlement breakdown attached to a filled order.
type fillResponse struct {
	FillID     string  `json:"fill_id"`
	Price      float64 `json:"price"`
	Quantity   int64   `json:"quantity"`
	SpreadCost float64 `json:"spread_cost"`
	Slippage   float64 `json:"slippage"`
	Fee        float64 `json:"fee"`
	Subtotal   float64 `json:"subtotal"`
	Total      float64 `json:"total"`
	Cycle      int64   `json:"cycle"`
}

// orderListResponse is the JSON response for GET /accounts/{account_id}/orders.
type orderListResponse struct {
	Orders []orderResponse `json:"orders"`
	Total  int             `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}

// SubmitOrder handles POST /orders.
func (h *OrderHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req submitOrderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	order, err := h.orderSvc.Submit(service.SubmitOrderRequest{
		OwnerID:    req.OwnerID,
		Symbol:     req.Symbol,
		Side:       domain.OrderSide(req.Side),
		Kind:       domain.OrderKind(req.Kind),
		Quantity:   req.Quantity,
		LimitPrice: req.LimitPrice,
		StopPrice:  req.StopPrice,
	})
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, buildOrderResponse(order))
}

// GetOrder handles GET /orders/{order_id}.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")

	order, err := h.orderSvc.Get(orderID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildOrderResponse(order))
}

// CancelOrder handles DELETE /orders/{order_id}. The owner comes from
// the X-Owner-ID header; there is no authentication beyond that.
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")
	ownerID := r.Header.Get("X-Owner-ID")
	if ownerID == "" {
		WriteError(w, http.StatusBadRequest, "invalid_request", "X-Owner-ID header is required")
		return
	}

	order, err := h.orderSvc.Cancel(orderID, ownerID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildOrderResponse(order))
}

// ListOrders handles GET /accounts/{account_id}/orders.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "account_id")

	var status *domain.OrderStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := domain.OrderStatus(s)
		status = &st
	}

	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		v, err := strconv.Atoi(p)
		if err != nil || v < 1 {
			WriteError(w, http.StatusBadRequest, "validation_error", "page must be a positive integer")
			return
		}
		page = v
	}

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		v, err := strconv.Atoi(l)
		if err != nil || v < 1 || v > 100 {
			WriteError(w, http.StatusBadRequest, "validation_error", "limit must be between 1 and 100")
			return
		}
		limit = v
	}

	orders, total, err := h.orderSvc.ListByOwner(accountID, status, page, limit)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	items := make([]orderResponse, len(orders))
	for i, o := range orders {
		items[i] = buildOrderResponse(o)
	}

	WriteJSON(w, http.StatusOK, orderListResponse{
		Orders: items,
		Total:  total,
		Page:   page,
		Limit:  limit,
	})
}

// buildOrderResponse converts a domain order to the response shape.
func buildOrderResponse(o *domain.Order) orderResponse {
	resp := orderResponse{
		OrderID:        o.OrderID,
		OwnerID:        o.OwnerID,
		Symbol:         o.Symbol,
		Side:           string(o.Side),
		Kind:           string(o.Kind),
		Quantity:       o.Quantity,
		Status:         string(o.Status),
		CreatedAtCycle: o.CreatedAtCycle,
	}

	if o.LimitPrice > 0 {
		v := domain.CentsToDollars(o.LimitPrice)
		resp.LimitPrice = &v
	}
	if o.StopPrice > 0 {
		v := domain.CentsToDollars(o.StopPrice)
		resp.StopPrice = &v
	}
	if o.FailReason != "" {
		s := string(o.FailReason)
		resp.FailReason = &s
	}
	if o.TriggeredAtCycle > 0 {
		c := o.TriggeredAtCycle
		resp.TriggeredAtCycle = &c
	}
	if o.ExpiresAtCycle > 0 {
		c := o.ExpiresAtCycle
		resp.ExpiresAtCycle = &c
	}
	if o.ClosedAtCycle > 0 {
		c := o.ClosedAtCycle
		resp.ClosedAtCycle = &c
	}
	if o.Fill != nil {
		resp.Fill = buildFillResponse(o.Fill)
	}
	return resp
}

// buildFillResponse converts a domain fill to the response shape.
func buildFillResponse(f *domain.Fill) *fillResponse {
	return &fillResponse{
		FillID:     f.FillID,
		Price:      domain.CentsToDollars(f.Price),
		Quantity:   f.Quantity,
		SpreadCost: domain.CentsToDollars(f.SpreadCost),
		Slippage:   domain.CentsToDollars(f.Slippage),
		Fee:        domain.CentsToDollars(f.Fee),
		Subtotal:   domain.CentsToDollars(f.Subtotal),
		Total:      domain.CentsToDollars(f.Total),
		Cycle:      f.Cycle,
	}
}
