// Package metrics exposes Prometheus counters and histograms for the
// matching engine, collected via an engine.Observer hook rather than
// threaded through pkg/clob itself.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abdoElHodaky/tradsys-clob/pkg/clob"
)

// Collector records per-market order and fill counts. It implements
// engine.Observer.
type Collector struct {
	ordersPlaced  *prometheus.CounterVec
	fillsTotal    *prometheus.CounterVec
	fillQtyLots   *prometheus.CounterVec
	rejected      *prometheus.CounterVec
	matchesPerOrd *prometheus.HistogramVec
}

// NewCollector registers a fresh set of metrics on the default registry.
func NewCollector() *Collector {
	return &Collector{
		ordersPlaced: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clob_orders_placed_total",
				Help: "Total number of PlaceOrder calls, by market and outcome.",
			},
			[]string{"symbol", "outcome"},
		),
		fillsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clob_fills_total",
				Help: "Total number of individual maker fills, by market.",
			},
			[]string{"symbol"},
		),
		fillQtyLots: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clob_fill_qty_lots_total",
				Help: "Total base lots filled, by market.",
			},
			[]string{"symbol"},
		),
		rejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clob_orders_rejected_total",
				Help: "Total number of rejected orders, by market.",
			},
			[]string{"symbol"},
		),
		matchesPerOrd: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "clob_matches_per_order",
				Help:    "Number of maker fills produced by a single PlaceOrder call.",
				Buckets: prometheus.LinearBuckets(0, 1, 10),
			},
			[]string{"symbol"},
		),
	}
}

// OnPlaceOrder implements engine.Observer.
func (c *Collector) OnPlaceOrder(symbol string, result clob.PlaceOrderResult) {
	c.ordersPlaced.WithLabelValues(symbol, result.Outcome.String()).Inc()
	c.matchesPerOrd.WithLabelValues(symbol).Observe(float64(len(result.Matches)))
	if result.Outcome == clob.Rejected {
		c.rejected.WithLabelValues(symbol).Inc()
	}
	if len(result.Matches) > 0 {
		c.fillsTotal.WithLabelValues(symbol).Add(float64(len(result.Matches)))
	}
	if result.FillQtyLots > 0 {
		c.fillQtyLots.WithLabelValues(symbol).Add(float64(result.FillQtyLots))
	}
}

// Handler returns the gin handler serving the default Prometheus registry.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
