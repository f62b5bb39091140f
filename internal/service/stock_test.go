package service

import (
	"errors"
	"testing"

	"github.com/efreitasn/minimarket/internal/domain"
)

func TestStockService_ListAndPrice(t *testing.T) {
	ts := newTestServices()

	stocks := ts.stocks.List()
	if len(stocks) != 1 || stocks[0].Symbol != "ACME" || stocks[0].CurrentPrice != 5000 {
		t.Fatalf("List() = %+v", stocks)
	}

	price, err := ts.stocks.GetPrice("ACME")
	if err != nil || price != 5000 {
		t.Errorf("GetPrice() = %d, %v, want 5000", price, err)
	}
	if _, err := ts.stocks.GetPrice("NOPE"); err != domain.ErrSymbolNotFound {
		t.Errorf("GetPrice() error = %v, want ErrSymbolNotFound", err)
	}
}

func TestStockService_GetQuote(t *testing.T) {
	ts := newTestServices()

	q, err := ts.stocks.GetQuote("ACME", domain.OrderSideBuy, 10)
	if err != nil {
		t.Fatalf("GetQuote() error = %v", err)
	}
	if q.PricePerShare != 5000 || q.Quantity != 10 {
		t.Errorf("quote = %+v", q)
	}
	if q.Total != q.Subtotal+q.Fee {
		t.Errorf("total %d != subtotal %d + fee %d", q.Total, q.Subtotal, q.Fee)
	}
	// The buffered total is what a market buy would actually reserve.
	if q.BufferedTotal <= q.Total {
		t.Errorf("buffered total %d not above total %d", q.BufferedTotal, q.Total)
	}

	tests := []struct {
		name   string
		symbol string
		side   domain.OrderSide
		qty    int64
	}{
		{"lowercase symbol", "acme", domain.OrderSideBuy, 10},
		{"bad side", "ACME", "hold", 10},
		{"zero quantity", "ACME", domain.OrderSideBuy, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.stocks.GetQuote(tt.symbol, tt.side, tt.qty)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("GetQuote() error = %v, want ValidationError", err)
			}
		})
	}

	if _, err := ts.stocks.GetQuote("NOPE", domain.OrderSideBuy, 10); err != domain.ErrSymbolNotFound {
		t.Errorf("GetQuote() error = %v, want ErrSymbolNotFound", err)
	}
}

func TestStockService_GetFloat(t *testing.T) {
	ts := newTestServices()

	f, err := ts.stocks.GetFloat("ACME")
	if err != nil {
		t.Fatalf("GetFloat() error = %v", err)
	}
	if f.TotalFloat != 10000 || f.MarketMakerShares != 10000 {
		t.Errorf("float = %+v", f)
	}
	if f.SpreadMultiplier != 1.0 {
		t.Errorf("spread multiplier = %v, want 1.0", f.SpreadMultiplier)
	}

	if _, err := ts.stocks.GetFloat("NOPE"); err != domain.ErrSymbolNotFound {
		t.Errorf("GetFloat() error = %v, want ErrSymbolNotFound", err)
	}
}

func TestStockService_RecentFills(t *testing.T) {
	ts := newTestServices()
	ts.seedAccount("player", 100_000_000)

	if _, err := ts.orders.Submit(validSubmit("player")); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	ts.coord.Tick()

	fills, err := ts.stocks.RecentFills("ACME", 10)
	if err != nil {
		t.Fatalf("RecentFills() error = %v", err)
	}
	if len(fills) != 1 || fills[0].Quantity != 10 {
		t.Errorf("fills = %+v", fills)
	}

	// Out-of-range n falls back to the default window.
	if _, err := ts.stocks.RecentFills("ACME", 0); err != nil {
		t.Errorf("RecentFills(0) error = %v", err)
	}
	if _, err := ts.stocks.RecentFills("NOPE", 10); err != domain.ErrSymbolNotFound {
		t.Errorf("RecentFills() error = %v, want ErrSymbolNotFound", err)
	}
}
