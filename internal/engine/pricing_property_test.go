package engine

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/efreitasn/minimarket/internal/config"
	"github.com/efreitasn/minimarket/internal/domain"
)

func drawQuoteInput(t *rapid.T, side domain.OrderSide) QuoteInput {
	mode := config.GameModeRealLife
	if rapid.Bool().Draw(t, "hardLife") {
		mode = config.GameModeHardLife
	}
	return QuoteInput{
		Side:             side,
		Quantity:         rapid.Int64Range(1, 100_000).Draw(t, "quantity"),
		Price:            rapid.Int64Range(1, 200_000).Draw(t, "price"),
		Costs:            config.TablesFor(mode).Costs,
		SpreadMultiplier: rapid.Float64Range(1, 3).Draw(t, "spreadMultiplier"),
	}
}

func TestProperty_QuoteCostsAreAdverse(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := drawQuoteInput(t, domain.OrderSideBuy)
		q := PriceQuote(in)
		base := in.Price * in.Quantity

		if q.SpreadCost < 0 || q.Slippage < 0 {
			t.Fatalf("negative cost component: %+v", q)
		}
		if q.Subtotal < base {
			t.Fatalf("buy subtotal %d below base %d", q.Subtotal, base)
		}

		in.Side = domain.OrderSideSell
		q = PriceQuote(in)
		if q.Subtotal > base {
			t.Fatalf("sell subtotal %d above base %d", q.Subtotal, base)
		}
		if q.Subtotal < 0 {
			t.Fatalf("sell subtotal went negative: %d", q.Subtotal)
		}
	})
}

func TestProperty_QuoteTotalsAddUp(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := drawQuoteInput(t, domain.OrderSideBuy)
		q := PriceQuote(in)
		if q.Total != q.Subtotal+q.Fee {
			t.Fatalf("buy total %d != subtotal %d + fee %d", q.Total, q.Subtotal, q.Fee)
		}

		in.Side = domain.OrderSideSell
		q = PriceQuote(in)
		if q.Total != q.Subtotal-q.Fee {
			t.Fatalf("sell total %d != subtotal %d - fee %d", q.Total, q.Subtotal, q.Fee)
		}
	})
}

func TestProperty_FeeNeverBelowMinimum(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := drawQuoteInput(t, domain.OrderSideBuy)
		q := PriceQuote(in)
		if q.Fee < in.Costs.MinimumFee {
			t.Fatalf("fee %d below minimum %d", q.Fee, in.Costs.MinimumFee)
		}
	})
}

func TestProperty_SlippageRespectsCeiling(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := drawQuoteInput(t, domain.OrderSideBuy)
		q := PriceQuote(in)

		// Per-share slippage is capped at price × MaxSlippagePercent, so
		// the order-level slippage is bounded by quantity times the cap.
		// Allow one cent for rounding.
		ceiling := domain.RoundCents(float64(in.Price)*in.Costs.MaxSlippagePercent*float64(in.Quantity)) + 1
		if q.Slippage > ceiling {
			t.Fatalf("slippage %d above ceiling %d", q.Slippage, ceiling)
		}
	})
}

func TestProperty_SlippageMonotonicInQuantity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := drawQuoteInput(t, domain.OrderSideBuy)
		smaller := in
		smaller.Quantity = rapid.Int64Range(1, in.Quantity).Draw(t, "smaller")

		big := PriceQuote(in)
		small := PriceQuote(smaller)
		if small.Slippage > big.Slippage {
			t.Fatalf("slippage fell from %d to %d as quantity grew %d → %d",
				small.Slippage, big.Slippage, smaller.Quantity, in.Quantity)
		}
	})
}

func TestProperty_BufferedEstimateNeverBelowAmount(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		costs := config.TablesFor(config.GameModeRealLife).Costs
		amount := rapid.Int64Range(1, 1_000_000_000).Draw(t, "amount")
		if got := BufferedEstimate(amount, costs); got < amount {
			t.Fatalf("BufferedEstimate(%d) = %d shrank the amount", amount, got)
		}
	})
}
