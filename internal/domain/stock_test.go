package domain

import "testing"

func TestSeedFloatShares(t *testing.T) {
	tests := []struct {
		name  string
		mcapB float64
		price int64 // cents
		want  int64
	}{
		// 1B mcap at $100: 10M shares outstanding, 20% float, /1000 = 2000.
		{"one billion at $100", 1.0, 10000, 2000},
		{"three trillion at $200", 3000.0, 20000, 3_000_000},
		{"zero price", 1.0, 0, 0},
		{"zero mcap", 0, 10000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SeedFloatShares(tt.mcapB, tt.price); got != tt.want {
				t.Errorf("SeedFloatShares(%v, %d) = %d, want %d", tt.mcapB, tt.price, got, tt.want)
			}
		})
	}
}

func TestStockRegistry(t *testing.T) {
	r := NewStockRegistry()
	r.Register(&Stock{Symbol: "AAPL", CurrentPrice: 15000, FloatShares: 1000})

	if !r.Exists("AAPL") {
		t.Error("expected AAPL to exist")
	}
	if r.Exists("MSFT") {
		t.Error("did not expect MSFT to exist")
	}
	if _, err := r.Get("MSFT"); err != ErrSymbolNotFound {
		t.Errorf("expected ErrSymbolNotFound, got %v", err)
	}

	r.SetPrice("AAPL", 16000)
	if got := r.Price("AAPL"); got != 16000 {
		t.Errorf("Price() = %d, want 16000", got)
	}

	if got := len(r.List()); got != 1 {
		t.Errorf("List() length = %d, want 1", got)
	}
}
