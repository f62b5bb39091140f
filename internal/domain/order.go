package domain

// OrderSide indicates the direction of an order relative to the trader's
// position: ordinary buys/sells move owned shares, short_sell opens a
// borrowed position and buy_to_cover closes one.
type OrderSide string

const (
	OrderSideBuy        OrderSide = "buy"
	OrderSideSell       OrderSide = "sell"
	OrderSideShortSell  OrderSide = "short_sell"
	OrderSideBuyToCover OrderSide = "buy_to_cover"
)

// IsBuySide reports whether the side takes cash out of the account at fill
// time (buys and covers). Sells and short sales bring proceeds in.
func (s OrderSide) IsBuySide() bool {
	return s == OrderSideBuy || s == OrderSideBuyToCover
}

// OrderKind distinguishes the trigger behaviour of an order. Market orders
// settle after a fixed delay; the limit/stop family waits on a price
// condition. The two *_limit stop kinds are two-stage: the stop condition
// arms them, the limit condition fills them on a later cycle.
type OrderKind string

const (
	OrderKindMarket        OrderKind = "market"
	OrderKindLimit         OrderKind = "limit"
	OrderKindStopBuy       OrderKind = "stop_buy"
	OrderKindStopLoss      OrderKind = "stop_loss"
	OrderKindStopBuyLimit  OrderKind = "stop_buy_limit"
	OrderKindStopLossLimit OrderKind = "stop_loss_limit"
)

// NeedsLimitPrice reports whether the kind carries a limit price.
func (k OrderKind) NeedsLimitPrice() bool {
	return k == OrderKindLimit || k == OrderKindStopBuyLimit || k == OrderKindStopLossLimit
}

// NeedsStopPrice reports whether the kind carries a stop price.
func (k OrderKind) NeedsStopPrice() bool {
	switch k {
	case OrderKindStopBuy, OrderKindStopLoss, OrderKindStopBuyLimit, OrderKindStopLossLimit:
		return true
	}
	return false
}

// TwoStage reports whether the kind arms on the stop condition first and
// fills on the limit condition on a subsequent cycle.
func (k OrderKind) TwoStage() bool {
	return k == OrderKindStopBuyLimit || k == OrderKindStopLossLimit
}

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPendingDelay   OrderStatus = "pending_delay"
	OrderStatusPendingTrigger OrderStatus = "pending_trigger"
	OrderStatusTriggered      OrderStatus = "triggered"
	OrderStatusFilled         OrderStatus = "filled"
	OrderStatusCancelled      OrderStatus = "cancelled"
	OrderStatusExpired        OrderStatus = "expired"
	OrderStatusFailed         OrderStatus = "failed"
)

// Terminal reports whether the status is final. Terminal orders are never
// re-evaluated by the settlement sweep and cannot be cancelled.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusFilled, OrderStatusCancelled, OrderStatusExpired, OrderStatusFailed:
		return true
	}
	return false
}

// FailReason is the machine-readable reason attached to a failed order so
// callers can surface it with recovery actions.
type FailReason string

const (
	FailReasonNone                 FailReason = ""
	FailReasonInsufficientFunds    FailReason = "insufficient_funds"
	FailReasonInsufficientHoldings FailReason = "insufficient_holdings"
	FailReasonInsufficientFloat    FailReason = "insufficient_float"
	FailReasonShortCapExceeded     FailReason = "short_cap_exceeded"
	FailReasonInsufficientCredit   FailReason = "insufficient_credit"
)

// Order is a submitted trade intent being tracked through its lifecycle.
// It is owned exclusively by the settlement engine; other collaborators
// read it but never mutate it.
type Order struct {
	OrderID string
	Seq     int64 // insertion order; settlement sweeps evaluate ascending Seq
	OwnerID string
	Symbol  string
	Side    OrderSide
	Kind    OrderKind

	Quantity   int64
	LimitPrice int64 // cents, 0 when the kind has no limit price
	StopPrice  int64 // cents, 0 when the kind has no stop price

	CreatedAtCycle   int64
	TriggeredAtCycle int64 // 0 until a two-stage stop arms
	ExpiresAtCycle   int64 // 0 for market-family orders (they never expire)
	ClosedAtCycle    int64 // cycle a terminal status was reached

	Status     OrderStatus
	FailReason FailReason

	// Resources earmarked at submission, released or consumed at settlement.
	ReservedCash   int64 // cash held on the owner's account
	ReservedShares int64 // shares held on the owner's holding
	ReservedCredit int64 // margin held on the owner's credit line (short sells)

	Fill *Fill // set when Status == filled
}

// Active reports whether the order still sits in the pending queue.
func (o *Order) Active() bool {
	return !o.Status.Terminal()
}
