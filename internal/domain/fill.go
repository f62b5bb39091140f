package domain

// Fill is the priced-execution breakdown attached to a filled order. All
// monetary fields are cents. Total is the net cash movement: cash out for
// buy-side fills, net proceeds in for sell-side fills.
type Fill struct {
	FillID   string
	OrderID  string
	Symbol   string
	Side     OrderSide
	Quantity int64
	Price    int64 // per-share market price at the settlement cycle

	SpreadCost int64 // market-maker spread, always adverse
	Slippage   int64 // size-dependent execution penalty, always adverse
	Fee        int64 // transaction fee, never rebated
	Subtotal   int64 // price×quantity adjusted by spread and slippage
	Total      int64 // subtotal plus fee (buy) or minus fee (sell)

	Cycle int64
}
