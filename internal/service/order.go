package service

import (
	"fmt"

	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/engine"
	"github.com/efreitasn/minimarket/internal/store"
)

// ValidOrderStatuses lists all valid order status values for filtering.
var ValidOrderStatuses = map[domain.OrderStatus]bool{
	domain.OrderStatusPendingDelay:   true,
	domain.OrderStatusPendingTrigger: true,
	domain.OrderStatusTriggered:      true,
	domain.OrderStatusFilled:         true,
	domain.OrderStatusCancelled:      true,
	domain.OrderStatusExpired:        true,
	domain.OrderStatusFailed:         true,
}

var validSides = map[domain.OrderSide]bool{
	domain.OrderSideBuy:        true,
	domain.OrderSideSell:       true,
	domain.OrderSideShortSell:  true,
	domain.OrderSideBuyToCover: true,
}

var validKinds = map[domain.OrderKind]bool{
	domain.OrderKindMarket:        true,
	domain.OrderKindLimit:         true,
	domain.OrderKindStopBuy:       true,
	domain.OrderKindStopLoss:      true,
	domain.OrderKindStopBuyLimit:  true,
	domain.OrderKindStopLossLimit: true,
}

// SubmitOrderRequest represents the input for order submission. Prices
// are dollars and converted to cents during validation.
type SubmitOrderRequest struct {
	OwnerID    string
	Symbol     string
	Side       domain.OrderSide
	Kind       domain.OrderKind
	Quantity   int64
	LimitPrice *float64 // required iff the kind has a limit stage
	StopPrice  *float64 // required iff the kind has a stop stage
}

// OrderService handles order submission, retrieval, cancellation, and
// listing. It validates the request shape; the coordinator validates
// resources and owns every status transition.
type OrderService struct {
	coord  *engine.Coordinator
	orders *store.OrderStore
}

// NewOrderService creates a new OrderService with the given dependencies.
func NewOrderService(coord *engine.Coordinator, orders *store.OrderStore) *OrderService {
	return &OrderService{
		coord:  coord,
		orders: orders,
	}
}

// Submit validates the request and hands the resulting trade intent to
// the coordinator. Bot intents and human submissions both come through
// here.
func (s *OrderService) Submit(req SubmitOrderRequest) (*domain.Order, error) {
	if !accountIDRegex.MatchString(req.OwnerID) {
		return nil, &domain.ValidationError{
			Message: "owner_id must match ^[a-zA-Z0-9_-]{1,64}$",
		}
	}
	if !symbolRegex.MatchString(req.Symbol) {
		return nil, &domain.ValidationError{
			Message: "symbol must match ^[A-Z]{1,10}$",
		}
	}
	if !validSides[req.Side] {
		return nil, &domain.ValidationError{
			Message: "side must be one of: buy, sell, short_sell, buy_to_cover",
		}
	}
	if !validKinds[req.Kind] {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("unknown order kind: %s", req.Kind),
		}
	}
	if req.Quantity <= 0 {
		return nil, &domain.ValidationError{
			Message: "quantity must be a positive integer",
		}
	}
	if err := validateSideKind(req.Side, req.Kind); err != nil {
		return nil, err
	}

	intent := domain.TradeIntent{
		OwnerID:  req.OwnerID,
		Symbol:   req.Symbol,
		Side:     req.Side,
		Kind:     req.Kind,
		Quantity: req.Quantity,
	}

	limitPrice, err := pricePtrToCents(req.LimitPrice, "limit_price", req.Kind.NeedsLimitPrice())
	if err != nil {
		return nil, err
	}
	intent.LimitPrice = limitPrice

	stopPrice, err := pricePtrToCents(req.StopPrice, "stop_price", req.Kind.NeedsStopPrice())
	if err != nil {
		return nil, err
	}
	intent.StopPrice = stopPrice

	return s.coord.Submit(intent)
}

// validateSideKind enforces which sides each order kind admits: stop
// buys are buy-side, stop losses sell-side, and short sells and covers
// settle on the market path only.
func validateSideKind(side domain.OrderSide, kind domain.OrderKind) error {
	switch kind {
	case domain.OrderKindStopBuy, domain.OrderKindStopBuyLimit:
		if side != domain.OrderSideBuy {
			return &domain.ValidationError{
				Message: fmt.Sprintf("%s orders must have side 'buy'", kind),
			}
		}
	case domain.OrderKindStopLoss, domain.OrderKindStopLossLimit:
		if side != domain.OrderSideSell {
			return &domain.ValidationError{
				Message: fmt.Sprintf("%s orders must have side 'sell'", kind),
			}
		}
	}
	if (side == domain.OrderSideShortSell || side == domain.OrderSideBuyToCover) &&
		kind != domain.OrderKindMarket {
		return &domain.ValidationError{
			Message: fmt.Sprintf("side %s admits only market orders", side),
		}
	}
	return nil
}

// pricePtrToCents validates presence and precision of an optional dollar
// price and converts it to cents.
func pricePtrToCents(p *float64, field string, required bool) (int64, error) {
	if p == nil {
		if required {
			return 0, &domain.ValidationError{
				Message: fmt.Sprintf("%s is required for this order kind", field),
			}
		}
		return 0, nil
	}
	if !required {
		return 0, &domain.ValidationError{
			Message: fmt.Sprintf("%s must be omitted for this order kind", field),
		}
	}
	if *p <= 0 {
		return 0, &domain.ValidationError{
			Message: fmt.Sprintf("%s must be > 0", field),
		}
	}
	cents, err := domain.DollarsToCents(*p)
	if err != nil {
		return 0, &domain.ValidationError{
			Message: fmt.Sprintf("%s must have at most 2 decimal places", field),
		}
	}
	return cents, nil
}

// Get retrieves an order by ID.
func (s *OrderService) Get(orderID string) (*domain.Order, error) {
	return s.orders.Get(orderID)
}

// Cancel cancels a still-pending order owned by ownerID.
func (s *OrderService) Cancel(orderID, ownerID string) (*domain.Order, error) {
	o, err := s.orders.Get(orderID)
	if err != nil {
		return nil, err
	}
	if o.OwnerID != ownerID {
		return nil, domain.ErrOrderNotFound
	}
	return s.coord.Cancel(orderID)
}

// ListByOwner returns the owner's orders, newest first, optionally
// filtered by status.
func (s *OrderService) ListByOwner(ownerID string, status *domain.OrderStatus, page, limit int) ([]*domain.Order, int, error) {
	if status != nil && !ValidOrderStatuses[*status] {
		return nil, 0, &domain.ValidationError{
			Message: fmt.Sprintf("unknown order status: %s", *status),
		}
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	orders, total := s.orders.ListByOwner(ownerID, status, page, limit)
	return orders, total, nil
}
