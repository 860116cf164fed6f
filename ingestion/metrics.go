package ingestion

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds the Prometheus collectors updated by a run.
// All collectors live on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	AdapterRuns      *prometheus.CounterVec
	RecordsFetched   *prometheus.CounterVec
	RecordsCollected prometheus.Counter
	RowsUpserted     prometheus.Counter
	ChunkFailures    prometheus.Counter
	RunDuration      prometheus.Gauge
	LastSuccess      prometheus.Gauge
}

// NewMetrics creates collectors under namespace on a fresh registry.
func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		AdapterRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "adapter_runs_total",
				Help:      "Adapter fetches by outcome",
			},
			[]string{"adapter", "outcome"},
		),
		RecordsFetched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "records_fetched_total",
				Help:      "Records returned by successful adapter fetches",
			},
			[]string{"adapter"},
		),
		RecordsCollected: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "records_collected_total",
				Help:      "Unique records after aggregation",
			},
		),
		RowsUpserted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_upserted_total",
				Help:      "Rows reported upserted by the store",
			},
		),
		ChunkFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "chunk_failures_total",
				Help:      "Chunks the store rejected",
			},
		),
		RunDuration: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of the last run",
			},
		),
		LastSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_success_timestamp_seconds",
				Help:      "Unix time of the last run that persisted without error",
			},
		),
	}

	registry.MustRegister(
		m.AdapterRuns,
		m.RecordsFetched,
		m.RecordsCollected,
		m.RowsUpserted,
		m.ChunkFailures,
		m.RunDuration,
		m.LastSuccess,
	)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Push sends the current values to a Pushgateway under job.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	return push.New(url, job).Gatherer(m.registry).PushContext(ctx)
}

// The observe helpers tolerate a nil receiver so callers need no guard.

func (m *Metrics) observeAdapter(adapter string, records int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.AdapterRuns.WithLabelValues(adapter, "failure").Inc()
		return
	}
	m.AdapterRuns.WithLabelValues(adapter, "success").Inc()
	m.RecordsFetched.WithLabelValues(adapter).Add(float64(records))
}

func (m *Metrics) observeCollected(n int) {
	if m == nil {
		return
	}
	m.RecordsCollected.Add(float64(n))
}

func (m *Metrics) observeChunk(upserted int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.ChunkFailures.Inc()
		return
	}
	m.RowsUpserted.Add(float64(upserted))
}

func (m *Metrics) observeRun(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.RunDuration.Set(d.Seconds())
	if err == nil {
		m.LastSuccess.SetToCurrentTime()
	}
}
