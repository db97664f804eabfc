package worker

import (
	"hynews/internal/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WorkerMetrics embeds the worker's configuration metrics and adds the
// warm-up job metrics:
//   - worker_warmup_runs_total{status}
//   - worker_warmup_duration_seconds
//   - worker_warmup_digests_total{source,result}
//   - worker_warmup_last_success_timestamp
type WorkerMetrics struct {
	*config.ConfigMetrics

	RunsTotal            *prometheus.CounterVec
	DurationSeconds      prometheus.Histogram
	DigestsTotal         *prometheus.CounterVec
	LastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics registers the worker metrics with reg.
func NewWorkerMetrics(reg prometheus.Registerer) *WorkerMetrics {
	factory := promauto.With(reg)
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics(reg, "worker"),

		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_warmup_runs_total",
			Help: "Total number of digest warm-up runs by status",
		}, []string{"status"}),

		DurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_warmup_duration_seconds",
			Help:    "Duration of digest warm-up runs in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),

		DigestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_warmup_digests_total",
			Help: "Total number of digests warmed by source and result",
		}, []string{"source", "result"}),

		LastSuccessTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "worker_warmup_last_success_timestamp",
			Help: "Unix timestamp of the last warm-up run with no failures",
		}),
	}
}

func (m *WorkerMetrics) RecordRun(status string, seconds float64) {
	m.RunsTotal.WithLabelValues(status).Inc()
	m.DurationSeconds.Observe(seconds)
}

func (m *WorkerMetrics) RecordDigest(source, result string) {
	m.DigestsTotal.WithLabelValues(source, result).Inc()
}

func (m *WorkerMetrics) RecordLastSuccess() {
	m.LastSuccessTimestamp.SetToCurrentTime()
}
