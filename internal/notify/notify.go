// Package notify fans engine events out to logging and metrics. Every
// dispatcher runs synchronously inside the cycle, so none of them may
// block.
package notify

import (
	"log/slog"

	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/metrics"
)

// Dispatcher mirrors the engine's event sink.
type Dispatcher interface {
	Dispatch(ev *domain.Event)
}

// Fanout forwards each event to every registered dispatcher in order.
type Fanout []Dispatcher

// Dispatch implements Dispatcher.
func (f Fanout) Dispatch(ev *domain.Event) {
	for _, d := range f {
		d.Dispatch(ev)
	}
}

// LogDispatcher writes each event to slog.
type LogDispatcher struct {
	Logger *slog.Logger
}

// Dispatch implements Dispatcher.
func (d *LogDispatcher) Dispatch(ev *domain.Event) {
	attrs := []any{
		slog.Int64("cycle", ev.Cycle),
		slog.String("type", string(ev.Type)),
		slog.String("symbol", ev.Symbol),
		slog.String("owner", ev.OwnerID),
	}
	switch ev.Type {
	case domain.EventOrderFailed:
		attrs = append(attrs, slog.String("reason", string(ev.Reason)))
	case domain.EventOrderFilled:
		if ev.Fill != nil {
			attrs = append(attrs,
				slog.Int64("quantity", ev.Fill.Quantity),
				slog.Float64("price", domain.CentsToDollars(ev.Fill.Price)),
				slog.Float64("total", domain.CentsToDollars(ev.Fill.Total)),
			)
		}
	case domain.EventShortClosed:
		attrs = append(attrs,
			slog.Float64("gross_pl", domain.CentsToDollars(ev.GrossPL)),
			slog.Float64("net_pl", domain.CentsToDollars(ev.NetPL)),
			slog.Bool("forced", ev.Forced),
		)
	}
	d.Logger.Info("engine event", attrs...)
}

// MetricsDispatcher updates Prometheus counters from events.
type MetricsDispatcher struct{}

// Dispatch implements Dispatcher.
func (MetricsDispatcher) Dispatch(ev *domain.Event) {
	switch ev.Type {
	case domain.EventOrderFilled:
		if ev.Fill != nil {
			metrics.Fills.WithLabelValues(string(ev.Fill.Side)).Inc()
		}
	case domain.EventOrderFailed:
		metrics.OrdersFailed.WithLabelValues(string(ev.Reason)).Inc()
	case domain.EventOrderExpired:
		metrics.OrdersExpired.Inc()
	case domain.EventMarginCall:
		metrics.MarginCalls.Inc()
	case domain.EventForcedCover:
		metrics.ForcedCovers.Inc()
	case domain.EventSplit:
		metrics.Splits.Inc()
	}
}
