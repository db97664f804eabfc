package summarizer

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for RecordResult.
const (
	ResultSuccess     = "success"
	ResultUnavailable = "unavailable"
	ResultMalformed   = "malformed"
	ResultEmpty       = "empty"
)

// SummaryMetricsRecorder records digest summarization metrics. Tests inject a
// fake; production uses PrometheusSummaryMetrics.
type SummaryMetricsRecorder interface {
	// RecordDuration records the wall time of one model call.
	RecordDuration(provider string, duration time.Duration)

	// RecordResult counts one Summarize outcome.
	RecordResult(provider, result string)

	// RecordItems records how many articles went into one prompt.
	RecordItems(provider string, count int)
}

// PrometheusSummaryMetrics implements SummaryMetricsRecorder with Prometheus.
type PrometheusSummaryMetrics struct {
	duration *prometheus.HistogramVec
	results  *prometheus.CounterVec
	items    *prometheus.HistogramVec
}

var (
	prometheusMetricsInstance *PrometheusSummaryMetrics
	prometheusMetricsOnce     sync.Once
)

func getOrCreateHistogramVec(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(opts, labels)
	if err := prometheus.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.HistogramVec)
		}
		return promauto.NewHistogramVec(opts, labels)
	}
	return h
}

func getOrCreateCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labels)
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
		return promauto.NewCounterVec(opts, labels)
	}
	return c
}

// NewPrometheusSummaryMetrics returns the process-wide recorder, registering
// its collectors on first use.
func NewPrometheusSummaryMetrics() *PrometheusSummaryMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusSummaryMetrics{
			duration: getOrCreateHistogramVec(prometheus.HistogramOpts{
				Name:    "digest_summarization_duration_seconds",
				Help:    "Time taken by one digest summarization call",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
			}, []string{"provider"}),
			results: getOrCreateCounterVec(prometheus.CounterOpts{
				Name: "digest_summarizations_total",
				Help: "Digest summarization outcomes",
			}, []string{"provider", "result"}),
			items: getOrCreateHistogramVec(prometheus.HistogramOpts{
				Name:    "digest_summarization_items",
				Help:    "Articles included in one digest prompt",
				Buckets: []float64{1, 5, 10, 15},
			}, []string{"provider"}),
		}
	})
	return prometheusMetricsInstance
}

func (p *PrometheusSummaryMetrics) RecordDuration(provider string, duration time.Duration) {
	p.duration.WithLabelValues(provider).Observe(duration.Seconds())
}

func (p *PrometheusSummaryMetrics) RecordResult(provider, result string) {
	p.results.WithLabelValues(provider, result).Inc()
}

func (p *PrometheusSummaryMetrics) RecordItems(provider string, count int) {
	p.items.WithLabelValues(provider).Observe(float64(count))
}
