package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	requestsTotal   *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	combinedSignal  *prometheus.GaugeVec
	upstreamLatency *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		requestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketpulse_requests_total",
				Help: "Total number of pulse requests by outcome",
			},
			[]string{"outcome"},
		),
		cacheLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketpulse_cache_lookups_total",
				Help: "Total number of cache lookups",
			},
			[]string{"result"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		combinedSignal: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "marketpulse_combined_signal",
				Help: "Last combined momentum+sentiment signal for a ticker",
			},
			[]string{"ticker"},
		),
		upstreamLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketpulse_upstream_duration_seconds",
				Help:    "Duration of upstream calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
	}
}

// RecordRequest records a completed pulse request by outcome.
func (r *Recorder) RecordRequest(outcome string) {
	r.requestsTotal.WithLabelValues(outcome).Inc()
}

// RecordCacheLookup records a cache hit or miss.
func (r *Recorder) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(result).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordCombinedSignal records the last combined signal for a ticker.
func (r *Recorder) RecordCombinedSignal(ticker string, value float64) {
	r.combinedSignal.WithLabelValues(ticker).Set(value)
}

// RecordUpstreamLatency records upstream call latency in seconds.
func (r *Recorder) RecordUpstreamLatency(source string, seconds float64) {
	r.upstreamLatency.WithLabelValues(source).Observe(seconds)
}
