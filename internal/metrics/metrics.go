// Package metrics exposes the simulation's Prometheus metrics, served by
// the HTTP layer at /metrics in text exposition format.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	Fills = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sim_fills_total",
			Help: "Orders filled, by side",
		},
		[]string{"side"},
	)

	OrdersFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sim_orders_failed_total",
			Help: "Orders failed at settlement, by reason",
		},
		[]string{"reason"},
	)

	OrdersExpired = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sim_orders_expired_total",
			Help: "Limit/stop orders expired unfilled",
		},
	)

	MarginCalls = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sim_margin_calls_total",
			Help: "Margin calls entered",
		},
	)

	ForcedCovers = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sim_forced_covers_total",
			Help: "Short positions force-covered after the grace period",
		},
	)

	Splits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sim_splits_total",
			Help: "Stock splits applied",
		},
	)

	Cycle = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sim_cycle",
			Help: "Completed simulation cycles",
		},
	)

	ShortInterestRatio = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sim_short_interest_ratio",
			Help: "Shorted shares over total float, by symbol",
		},
		[]string{"symbol"},
	)

	SpreadMultiplier = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sim_spread_multiplier",
			Help: "Market-maker spread multiplier, by symbol",
		},
		[]string{"symbol"},
	)
)

func init() {
	prometheus.MustRegister(
		Fills,
		OrdersFailed,
		OrdersExpired,
		MarginCalls,
		ForcedCovers,
		Splits,
		Cycle,
		ShortInterestRatio,
		SpreadMultiplier,
	)
}
