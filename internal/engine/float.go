package engine

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/efreitasn/minimarket/internal/domain"
)

// Bucket identifies a custody bucket within a symbol's float.
type Bucket string

const (
	BucketMarketMaker Bucket = "market_maker"
	BucketHuman       Bucket = "human"
	BucketBot         Bucket = "bot"
)

// BucketForKind maps an account kind to its custody bucket.
func BucketForKind(kind domain.AccountKind) Bucket {
	if kind == domain.AccountKindHuman {
		return BucketHuman
	}
	return BucketBot
}

// FloatRecord tracks the custody of one symbol's shares. At rest the three
// buckets always sum to TotalFloat; ReservedShares is a sub-accounting
// annotation on the market-maker bucket (in-flight borrows), never a
// separate pool.
type FloatRecord struct {
	Symbol            string
	TotalFloat        int64
	MarketMakerShares int64
	HumanShares       int64
	BotShares         int64
	ReservedShares    int64
}

// FloatLedger tracks share custody across all symbols. Mutations happen
// only inside a cycle (settlement and short sweeps), reads can come from
// anywhere, so access is guarded.
type FloatLedger struct {
	mu      sync.RWMutex
	records map[string]*FloatRecord
}

// NewFloatLedger creates an empty ledger.
func NewFloatLedger() *FloatLedger {
	return &FloatLedger{
		records: make(map[string]*FloatRecord),
	}
}

// Initialize seeds each stock's buckets. The market maker holds whatever
// the human and bot starting holdings leave over; inconsistent inputs are
// clamped to zero and logged rather than rejected.
func (l *FloatLedger) Initialize(stocks []*domain.Stock, humanHoldings, botHoldings map[string]int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, s := range stocks {
		human := humanHoldings[s.Symbol]
		bot := botHoldings[s.Symbol]
		mm := s.FloatShares - human - bot
		if mm < 0 {
			slog.Warn("float seed exceeds total, clamping market maker to zero",
				slog.String("symbol", s.Symbol),
				slog.Int64("total", s.FloatShares),
				slog.Int64("human", human),
				slog.Int64("bot", bot),
			)
			mm = 0
		}
		l.records[s.Symbol] = &FloatRecord{
			Symbol:            s.Symbol,
			TotalFloat:        mm + human + bot,
			MarketMakerShares: mm,
			HumanShares:       human,
			BotShares:         bot,
		}
	}
}

// Transfer moves shares between two buckets. Unknown symbols, non-positive
// quantities and same-bucket transfers are silently ignored. The source
// bucket is clamped at zero; callers must pre-check availability, the
// clamp only guards the ledger against upstream defects.
func (l *FloatLedger) Transfer(symbol string, from, to Bucket, shares int64) {
	if shares <= 0 || from == to {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[symbol]
	if !ok {
		return
	}

	src := rec.bucket(from)
	if *src < shares {
		slog.Warn("float transfer would overdraw bucket, clamping",
			slog.String("symbol", symbol),
			slog.String("from", string(from)),
			slog.Int64("have", *src),
			slog.Int64("want", shares),
		)
		shares = *src
	}
	*src -= shares
	*rec.bucket(to) += shares
}

// Reserve earmarks shares from the market-maker bucket for an in-flight
// order or short borrow. Reservations never exceed the bucket.
func (l *FloatLedger) Reserve(symbol string, shares int64) {
	if shares <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[symbol]
	if !ok {
		return
	}
	rec.ReservedShares += shares
	if rec.ReservedShares > rec.MarketMakerShares {
		slog.Warn("float reservation exceeds market-maker bucket, clamping",
			slog.String("symbol", symbol),
			slog.Int64("reserved", rec.ReservedShares),
			slog.Int64("bucket", rec.MarketMakerShares),
		)
		rec.ReservedShares = rec.MarketMakerShares
	}
}

// Release returns earmarked shares, clamped at zero.
func (l *FloatLedger) Release(symbol string, shares int64) {
	if shares <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[symbol]
	if !ok {
		return
	}
	rec.ReservedShares -= shares
	if rec.ReservedShares < 0 {
		slog.Warn("float release below zero, clamping",
			slog.String("symbol", symbol),
		)
		rec.ReservedShares = 0
	}
}

// ApplySplit multiplies every bucket, including reservations, by ratio.
// Ratios below 2 are ignored.
func (l *FloatLedger) ApplySplit(symbol string, ratio int64) {
	if ratio < 2 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[symbol]
	if !ok {
		return
	}
	rec.TotalFloat *= ratio
	rec.MarketMakerShares *= ratio
	rec.HumanShares *= ratio
	rec.BotShares *= ratio
	rec.ReservedShares *= ratio
}

// AvailableForPurchase returns the shares the market maker can sell:
// its bucket minus what is already earmarked.
func (l *FloatLedger) AvailableForPurchase(symbol string) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rec, ok := l.records[symbol]
	if !ok {
		return 0
	}
	return rec.MarketMakerShares - rec.ReservedShares
}

// Utilization returns the fraction of the float held outside the market
// maker, or 0 for an unknown symbol or zero float.
func (l *FloatLedger) Utilization(symbol string) float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rec, ok := l.records[symbol]
	if !ok || rec.TotalFloat == 0 {
		return 0
	}
	return float64(rec.HumanShares+rec.BotShares) / float64(rec.TotalFloat)
}

// IsLowFloat reports whether utilization has reached the warning
// threshold.
func (l *FloatLedger) IsLowFloat(symbol string, threshold float64) bool {
	return l.Utilization(symbol) >= threshold
}

// Record returns a copy of the symbol's float record.
func (l *FloatLedger) Record(symbol string) (FloatRecord, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rec, ok := l.records[symbol]
	if !ok {
		return FloatRecord{}, false
	}
	return *rec, true
}

// Records returns copies of every float record sorted by symbol, for
// snapshots and projections.
func (l *FloatLedger) Records() []FloatRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]FloatRecord, 0, len(l.records))
	for _, rec := range l.records {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Restore replaces the ledger contents with the given records.
func (l *FloatLedger) Restore(records []FloatRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = make(map[string]*FloatRecord, len(records))
	for i := range records {
		rec := records[i]
		l.records[rec.Symbol] = &rec
	}
}

func (r *FloatRecord) bucket(b Bucket) *int64 {
	switch b {
	case BucketMarketMaker:
		return &r.MarketMakerShares
	case BucketHuman:
		return &r.HumanShares
	default:
		return &r.BotShares
	}
}
