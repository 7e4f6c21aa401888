// Package metrics exposes Prometheus collectors for the engine's
// operational health: feed reconnects and parse errors, and quote/execution
// latency. These are additive observability, not part of the Quote
// record's fixed layout. Server serves them at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	FeedReconnects = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mmcore_feed_reconnects_total",
			Help: "Count of reconnect attempts per feed stream.",
		},
		[]string{"stream"}, // ticker|depth
	)

	FeedParseErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mmcore_feed_parse_errors_total",
			Help: "Count of messages dropped due to a parse failure, per stream.",
		},
		[]string{"stream"},
	)

	QuoteLatencyUs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mmcore_quote_latency_microseconds",
			Help:    "Wall-clock latency of get_current_quote snapshot calls.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 16),
		},
	)

	ExecutionLatencyUs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mmcore_execution_latency_microseconds",
			Help:    "Wall-clock latency of portfolio execute_buy/execute_sell calls.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 16),
		},
		[]string{"side"}, // BUY|SELL
	)
)

func init() {
	prometheus.MustRegister(FeedReconnects, FeedParseErrors)
	prometheus.MustRegister(QuoteLatencyUs, ExecutionLatencyUs)
}

// Timer measures elapsed wall time; ElapsedMicros reports it in
// microseconds. Callers observe the value into a collector themselves.
type Timer struct {
	start time.Time
}

// NewTimer starts a new latency timer.
func NewTimer() Timer {
	return Timer{start: time.Now()}
}

// ElapsedMicros returns elapsed wall time in microseconds since NewTimer.
func (t Timer) ElapsedMicros() uint64 {
	return uint64(time.Since(t.start).Microseconds())
}
