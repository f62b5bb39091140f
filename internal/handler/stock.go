package handler

import (
	"net/http"
	"strconv"

	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/service"
	"github.com/go-chi/chi/v5"
)

// StockHandler handles HTTP requests for stock endpoints.
type StockHandler struct {
	stockSvc *service.StockService
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockSvc *service.StockService) *StockHandler {
	return &StockHandler{stockSvc: stockSvc}
}

// stockResponse is one entry in the GET /stocks listing.
type stockResponse struct {
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	CurrentPrice      float64 `json:"current_price"`
	MarketCapBillions float64 `json:"market_cap_billions"`
	FloatShares       int64   `json:"float_shares"`
}

// priceResponse is the JSON response for GET /stocks/{symbol}/price.
type priceResponse struct {
	Symbol       string  `json:"symbol"`
	CurrentPrice float64 `json:"current_price"`
}

// quoteResponse is the JSON response for GET /stocks/{symbol}/quote.
type quoteResponse struct {
	Symbol        string  `json:"symbol"`
	Side          string  `json:"side"`
	Quantity      int64   `json:"quantity"`
	PricePerShare float64 `json:"price_per_share"`
	SpreadCost    float64 `json:"spread_cost"`
	Slippage      float64 `json:"slippage"`
	Fee           float64 `json:"fee"`
	Subtotal      float64 `json:"subtotal"`
	Total         float64 `json:"total"`
	BufferedTotal float64 `json:"buffered_total"`
}

// floatResponse is the JSON response for GET /stocks/{symbol}/float.
type floatResponse struct {
	Symbol            string  `json:"symbol"`
	TotalFloat        int64   `json:"total_float"`
	MarketMakerShares int64   `json:"market_maker_shares"`
	HumanShares       int64   `json:"human_shares"`
	BotShares         int64   `json:"bot_shares"`
	ReservedShares    int64   `json:"reserved_shares"`
	Utilization       float64 `json:"utilization"`
	LowFloat          bool    `json:"low_float"`
	ShortInterest     int64   `json:"short_interest"`
	SpreadMultiplier  float64 `json:"spread_multiplier"`
}

// fillListResponse is the JSON response for GET /stocks/{symbol}/fills.
type fillListResponse struct {
	Symbol string         `json:"symbol"`
	Fills  []fillResponse `json:"fills"`
}

// List handles GET /stocks.
func (h *StockHandler) List(w http.ResponseWriter, r *http.Request) {
	stocks := h.stockSvc.List()
	out := make([]stockResponse, len(stocks))
	for i, s := range stocks {
		out[i] = stockResponse{
			Symbol:            s.Symbol,
			Name:              s.Name,
			CurrentPrice:      domain.CentsToDollars(s.CurrentPrice),
			MarketCapBillions: s.MarketCapBillions,
			FloatShares:       s.FloatShares,
		}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"stocks": out})
}

// GetPrice handles GET /stocks/{symbol}/price.
func (h *StockHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	price, err := h.stockSvc.GetPrice(symbol)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, priceResponse{
		Symbol:       symbol,
		CurrentPrice: domain.CentsToDollars(price),
	})
}

// GetQuote handles GET /stocks/{symbol}/quote?side=buy&quantity=100.
func (h *StockHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	side := r.URL.Query().Get("side")
	if side == "" {
		WriteError(w, http.StatusBadRequest, "validation_error", "side query parameter is required")
		return
	}

	qtyStr := r.URL.Query().Get("quantity")
	quantity, err := strconv.ParseInt(qtyStr, 10, 64)
	if err != nil || quantity <= 0 {
		WriteError(w, http.StatusBadRequest, "validation_error", "quantity must be a positive integer")
		return
	}

	q, err := h.stockSvc.GetQuote(symbol, domain.OrderSide(side), quantity)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, quoteResponse{
		Symbol:        q.Symbol,
		Side:          string(q.Side),
		Quantity:      q.Quantity,
		PricePerShare: domain.CentsToDollars(q.PricePerShare),
		SpreadCost:    domain.CentsToDollars(q.SpreadCost),
		Slippage:      domain.CentsToDollars(q.Slippage),
		Fee:           domain.CentsToDollars(q.Fee),
		Subtotal:      domain.CentsToDollars(q.Subtotal),
		Total:         domain.CentsToDollars(q.Total),
		BufferedTotal: domain.CentsToDollars(q.BufferedTotal),
	})
}

// GetFloat handles GET /stocks/{symbol}/float.
func (h *StockHandler) GetFloat(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	fs, err := h.stockSvc.GetFloat(symbol)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, floatResponse{
		Symbol:            fs.Symbol,
		TotalFloat:        fs.TotalFloat,
		MarketMakerShares: fs.MarketMakerShares,
		HumanShares:       fs.HumanShares,
		BotShares:         fs.BotShares,
		ReservedShares:    fs.ReservedShares,
		Utilization:       fs.Utilization,
		LowFloat:          fs.LowFloat,
		ShortInterest:     fs.ShortInterest,
		SpreadMultiplier:  fs.SpreadMultiplier,
	})
}

// GetFills handles GET /stocks/{symbol}/fills?limit=20.
func (h *StockHandler) GetFills(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		v, err := strconv.Atoi(l)
		if err != nil || v < 1 || v > 100 {
			WriteError(w, http.StatusBadRequest, "validation_error", "limit must be between 1 and 100")
			return
		}
		limit = v
	}

	fills, err := h.stockSvc.RecentFills(symbol, limit)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	out := make([]fillResponse, len(fills))
	for i, f := range fills {
		out[i] = *buildFillResponse(f)
	}
	WriteJSON(w, http.StatusOK, fillListResponse{Symbol: symbol, Fills: out})
}
