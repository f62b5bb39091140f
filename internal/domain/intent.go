package domain

// TradeIntent is a side-effect-free request to trade. Human submissions
// and autonomous-trader decisions produce the same shape and flow through
// the same pipeline; the engine never special-cases by origin.
type TradeIntent struct {
	OwnerID    string
	Symbol     string
	Side       OrderSide
	Kind       OrderKind
	Quantity   int64
	LimitPrice int64 // cents, required iff Kind.NeedsLimitPrice()
	StopPrice  int64 // cents, required iff Kind.NeedsStopPrice()
}
