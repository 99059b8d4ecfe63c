package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Failure reasons recorded by IncrementFailure.
const (
	ReasonConfig    = "config"
	ReasonKeyLoad   = "key_load"
	ReasonExhausted = "exhausted"
	ReasonSeal      = "seal"
	ReasonWrite     = "write"
	ReasonCanceled  = "canceled"
)

// Metrics provides observability for assign runs. Each instance owns its
// registry, so runs in the same process never share counters.
type Metrics struct {
	registry *prometheus.Registry

	// Attempts the sampler needed in the last run
	SamplingAttempts prometheus.Gauge

	// Records sealed and written
	RecordsSealed prometheus.Counter

	// Wall time of a full assign run
	AssignDuration prometheus.Histogram

	// Failed runs by reason
	AssignFailures *prometheus.CounterVec
}

// New creates a new Metrics instance with all assign metrics registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		SamplingAttempts: factory.NewGauge(prometheus.GaugeOpts{
			Name: "kringle_sampling_attempts",
			Help: "Permutations the sampler drew before finding a valid pairing",
		}),

		RecordsSealed: factory.NewCounter(prometheus.CounterOpts{
			Name: "kringle_records_sealed_total",
			Help: "Total assignment records sealed and committed",
		}),

		AssignDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "kringle_assign_duration_seconds",
			Help:    "Duration of an assign run including key loading and sealing",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		AssignFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kringle_assign_failures_total",
			Help: "Total failed assign runs by reason",
		}, []string{"reason"}), // reason: "config", "key_load", "exhausted", "seal", "write", "canceled"
	}
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// SetSamplingAttempts records how many permutations the sampler drew.
func (m *Metrics) SetSamplingAttempts(attempts int) {
	if m != nil {
		m.SamplingAttempts.Set(float64(attempts))
	}
}

// AddRecordsSealed records committed assignment records.
func (m *Metrics) AddRecordsSealed(n int) {
	if m != nil {
		m.RecordsSealed.Add(float64(n))
	}
}

// ObserveAssignDuration records the total run duration.
func (m *Metrics) ObserveAssignDuration(d time.Duration) {
	if m != nil {
		m.AssignDuration.Observe(d.Seconds())
	}
}

// IncrementFailure records a failed run.
func (m *Metrics) IncrementFailure(reason string) {
	if m != nil {
		m.AssignFailures.WithLabelValues(reason).Inc()
	}
}

// WriteTextfile writes every metric in the Prometheus text format to path,
// for pickup by the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics file %s: %w", path, err)
	}
	return nil
}
