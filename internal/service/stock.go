package service

import (
	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/engine"
	"github.com/efreitasn/minimarket/internal/store"
)

// StockInfo is the listing entry for one stock.
type StockInfo struct {
	Symbol            string
	Name              string
	CurrentPrice      int64 // cents
	MarketCapBillions float64
	FloatShares       int64
}

// QuoteResponse is the priced cost breakdown for a hypothetical order.
// All values are cents; BufferedTotal is what a buy-side submission would
// actually reserve.
type QuoteResponse struct {
	Symbol        string
	Side          domain.OrderSide
	Quantity      int64
	PricePerShare int64
	SpreadCost    int64
	Slippage      int64
	Fee           int64
	Subtotal      int64
	Total         int64
	BufferedTotal int64
}

// FloatResponse reports share custody and float health for one symbol.
type FloatResponse struct {
	Symbol            string
	TotalFloat        int64
	MarketMakerShares int64
	HumanShares       int64
	BotShares         int64
	ReservedShares    int64
	Utilization       float64
	LowFloat          bool
	ShortInterest     int64
	SpreadMultiplier  float64
}

// StockService handles stock listing, price, quote, float, and fill
// history queries. All engine reads go through coordinator projections.
type StockService struct {
	stocks *domain.StockRegistry
	coord  *engine.Coordinator
	fills  *store.FillStore
}

// NewStockService creates a new StockService with the given dependencies.
func NewStockService(stocks *domain.StockRegistry, coord *engine.Coordinator, fills *store.FillStore) *StockService {
	return &StockService{
		stocks: stocks,
		coord:  coord,
		fills:  fills,
	}
}

// List returns every registered stock, sorted by symbol.
func (s *StockService) List() []StockInfo {
	stocks := s.stocks.List()
	out := make([]StockInfo, len(stocks))
	for i, st := range stocks {
		out[i] = StockInfo{
			Symbol:            st.Symbol,
			Name:              st.Name,
			CurrentPrice:      st.CurrentPrice,
			MarketCapBillions: st.MarketCapBillions,
			FloatShares:       st.FloatShares,
		}
	}
	return out
}

// GetPrice returns the current per-share price in cents.
func (s *StockService) GetPrice(symbol string) (int64, error) {
	st, err := s.stocks.Get(symbol)
	if err != nil {
		return 0, err
	}
	return st.CurrentPrice, nil
}

// GetQuote prices a hypothetical fill at the current price without
// placing an order.
func (s *StockService) GetQuote(symbol string, side domain.OrderSide, quantity int64) (*QuoteResponse, error) {
	if !symbolRegex.MatchString(symbol) {
		return nil, &domain.ValidationError{
			Message: "symbol must match ^[A-Z]{1,10}$",
		}
	}
	if !validSides[side] {
		return nil, &domain.ValidationError{
			Message: "side must be one of: buy, sell, short_sell, buy_to_cover",
		}
	}
	if quantity <= 0 {
		return nil, &domain.ValidationError{
			Message: "quantity must be a positive integer",
		}
	}

	price, err := s.GetPrice(symbol)
	if err != nil {
		return nil, err
	}
	q, buffered, err := s.coord.QuotePreview(symbol, side, quantity)
	if err != nil {
		return nil, err
	}
	return &QuoteResponse{
		Symbol:        symbol,
		Side:          side,
		Quantity:      quantity,
		PricePerShare: price,
		SpreadCost:    q.SpreadCost,
		Slippage:      q.Slippage,
		Fee:           q.Fee,
		Subtotal:      q.Subtotal,
		Total:         q.Total,
		BufferedTotal: buffered,
	}, nil
}

// GetFloat returns the float-ledger projection for a symbol.
func (s *StockService) GetFloat(symbol string) (*FloatResponse, error) {
	fs, err := s.coord.FloatStatus(symbol)
	if err != nil {
		return nil, err
	}
	return &FloatResponse{
		Symbol:            fs.Record.Symbol,
		TotalFloat:        fs.Record.TotalFloat,
		MarketMakerShares: fs.Record.MarketMakerShares,
		HumanShares:       fs.Record.HumanShares,
		BotShares:         fs.Record.BotShares,
		ReservedShares:    fs.Record.ReservedShares,
		Utilization:       fs.Utilization,
		LowFloat:          fs.LowFloat,
		ShortInterest:     fs.ShortInterest,
		SpreadMultiplier:  fs.SpreadMultiplier,
	}, nil
}

// RecentFills returns the n most recent fills for a symbol, newest first.
func (s *StockService) RecentFills(symbol string, n int) ([]*domain.Fill, error) {
	if !s.stocks.Exists(symbol) {
		return nil, domain.ErrSymbolNotFound
	}
	if n < 1 || n > 100 {
		n = 20
	}
	return s.fills.Recent(symbol, n), nil
}
