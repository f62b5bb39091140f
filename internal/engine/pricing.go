package engine

import (
	"github.com/efreitasn/minimarket/internal/config"
	"github.com/efreitasn/minimarket/internal/domain"
)

// QuoteInput is everything the pricing engine needs to price a fill. The
// spread multiplier comes from the market-maker inventory model; the cost
// table from the active game mode.
type QuoteInput struct {
	Side             domain.OrderSide
	Quantity         int64
	Price            int64 // current per-share price, cents
	Costs            config.TradingCosts
	SpreadMultiplier float64
}

// Quote is a priced-fill breakdown. All values are cents. Total is the
// cash the trader pays (buy side) or receives (sell side); sell proceeds
// can go negative when the fee exceeds a tiny subtotal.
type Quote struct {
	SpreadCost int64
	Slippage   int64
	Fee        int64
	Subtotal   int64
	Total      int64
}

// PriceQuote computes the execution breakdown for a fill. It is pure: the
// caller applies the resulting cash and share movement.
//
// Spread and slippage are always adverse to the trader: they raise a
// buyer's cost and lower a seller's proceeds. The fee is charged on top
// of the adjusted subtotal and never rebated.
func PriceQuote(in QuoteInput) Quote {
	var q Quote
	if in.Quantity <= 0 {
		q.Fee = in.Costs.MinimumFee
		if !in.Side.IsBuySide() {
			q.Total = -q.Fee
		} else {
			q.Total = q.Fee
		}
		return q
	}

	price := float64(in.Price)
	n := float64(in.Quantity)

	q.SpreadCost = domain.RoundCents(price * in.Costs.SpreadPercent * in.SpreadMultiplier / 2 * n)
	q.Slippage = domain.RoundCents(slippagePerShare(price, n, in.Costs) * n)

	base := in.Price * in.Quantity
	if in.Side.IsBuySide() {
		q.Subtotal = base + q.SpreadCost + q.Slippage
	} else {
		q.Subtotal = base - q.SpreadCost - q.Slippage
		if q.Subtotal < 0 {
			q.Subtotal = 0
		}
	}

	q.Fee = domain.MulPercent(q.Subtotal, in.Costs.FeePercent)
	if q.Fee < in.Costs.MinimumFee {
		q.Fee = in.Costs.MinimumFee
	}

	if in.Side.IsBuySide() {
		q.Total = q.Subtotal + q.Fee
	} else {
		q.Total = q.Subtotal - q.Fee
	}
	return q
}

// slippagePerShare models progressively worse fills for larger orders on
// a triangular-number curve: price × slippagePerShare × (n(n−1)/2) / n²,
// capped at price × maxSlippagePercent.
func slippagePerShare(price, n float64, costs config.TradingCosts) float64 {
	raw := price * costs.SlippagePerShare * (n * (n - 1) / 2) / (n * n)
	ceiling := price * costs.MaxSlippagePercent
	if raw > ceiling {
		return ceiling
	}
	return raw
}

// BufferedEstimate returns the cash to reserve for a delayed order: the
// estimated amount plus the configured buffer against price drift over
// the settlement delay. The unused portion is released at settlement.
func BufferedEstimate(amount int64, costs config.TradingCosts) int64 {
	if amount <= 0 {
		return 0
	}
	return amount + domain.MulPercent(amount, costs.CashBufferPercent)
}
