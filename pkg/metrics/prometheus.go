package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements the pipeline Metrics interface using Prometheus.
type Recorder struct {
	signals        *prometheus.CounterVec
	detectorErrors *prometheus.CounterVec
	providerErrors *prometheus.CounterVec
	latency        *prometheus.HistogramVec
}

var (
	recorder     *Recorder
	recorderOnce sync.Once
)

// New returns the process-wide recorder. Collectors register once with the
// default registry, so repeated calls share them.
func New() *Recorder {
	recorderOnce.Do(func() {
		recorder = &Recorder{
			signals: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "sharkscan_signals_total",
					Help: "Signal outcomes by status",
				},
				[]string{"status"},
			),
			detectorErrors: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "sharkscan_detector_errors_total",
					Help: "Detector failures by strategy",
				},
				[]string{"strategy"},
			),
			providerErrors: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "sharkscan_provider_errors_total",
					Help: "Market data fetch failures by provider",
				},
				[]string{"provider"},
			),
			latency: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "sharkscan_pipeline_duration_seconds",
					Help:    "Duration of pipeline stages in seconds",
					Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
				},
				[]string{"stage"},
			),
		}
	})
	return recorder
}

func (r *Recorder) RecordSignal(status string) {
	r.signals.WithLabelValues(status).Inc()
}

func (r *Recorder) RecordDetectorError(strategy string) {
	r.detectorErrors.WithLabelValues(strategy).Inc()
}

func (r *Recorder) RecordProviderError(provider string) {
	r.providerErrors.WithLabelValues(provider).Inc()
}

// RecordLatency observes a stage duration in seconds.
func (r *Recorder) RecordLatency(stage string, seconds float64) {
	r.latency.WithLabelValues(stage).Observe(seconds)
}
