package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	tradesParsed    *prometheus.CounterVec
	tradesPublished prometheus.Counter
	tradesDropped   *prometheus.CounterVec
	candlesSealed   prometheus.Counter
	subscribers     prometheus.Gauge
	errorsTotal     *prometheus.CounterVec
	latency         *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		tradesParsed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tapefeed_trades_parsed_total",
				Help: "Total number of trades parsed from raw transactions",
			},
			[]string{"strategy", "side"},
		),
		tradesPublished: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "tapefeed_trades_published_total",
				Help: "Total number of trades published to the hub",
			},
		),
		tradesDropped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tapefeed_trades_dropped_total",
				Help: "Total number of raw records dropped before publish",
			},
			[]string{"reason"},
		),
		candlesSealed: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "tapefeed_candles_sealed_total",
				Help: "Total number of candles sealed",
			},
		),
		subscribers: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "tapefeed_stream_subscribers",
				Help: "Current number of live stream subscribers",
			},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tapefeed_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tapefeed_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordTradeParsed records a successfully parsed trade.
func (r *Recorder) RecordTradeParsed(strategy, side string) {
	r.tradesParsed.WithLabelValues(strategy, side).Inc()
}

// RecordTradePublished records a trade delivered to the hub.
func (r *Recorder) RecordTradePublished() {
	r.tradesPublished.Inc()
}

// RecordTradeDropped records a raw record that yielded no trade.
func (r *Recorder) RecordTradeDropped(reason string) {
	r.tradesDropped.WithLabelValues(reason).Inc()
}

// RecordCandleSealed records a sealed candle.
func (r *Recorder) RecordCandleSealed() {
	r.candlesSealed.Inc()
}

// SetSubscriberCount records the current live subscriber count.
func (r *Recorder) SetSubscriberCount(n int) {
	r.subscribers.Set(float64(n))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
