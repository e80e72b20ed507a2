// Package metrics exports generation runs in the Prometheus text format.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/nestris-org/botfit/internal/botgen"
)

const defaultNamespace = "botfit"

var trophyBuckets = []float64{10, 20, 40, 80, 160, 320, 640, 1280, 2560}

// Option applies a configuration option to the Recorder.
type Option func(*Recorder)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(r *Recorder) {
		if namespace != "" {
			r.namespace = namespace
		}
	}
}

// WithRegistry uses the given registry instead of a private one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(r *Recorder) {
		if registry != nil {
			r.registry = registry
		}
	}
}

// Recorder holds the gauges describing one generation run.
type Recorder struct {
	namespace string
	registry  *prometheus.Registry

	records     prometheus.Gauge
	testMSE     prometheus.Gauge
	trainRows   prometheus.Gauge
	testRows    prometheus.Gauge
	candidates  *prometheus.GaugeVec
	bots        prometheus.Gauge
	trophies    prometheus.Histogram
	duration    prometheus.Gauge
	lastSuccess prometheus.Gauge
}

// NewRecorder registers the generation metrics.
func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{namespace: defaultNamespace}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = prometheus.NewRegistry()
	}

	auto := promauto.With(r.registry)
	r.records = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace, Subsystem: "generate", Name: "records",
		Help: "Simulation result records loaded.",
	})
	r.testMSE = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace, Subsystem: "model", Name: "test_mse",
		Help: "Mean squared error of the fitted model on the held-out rows.",
	})
	r.trainRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace, Subsystem: "model", Name: "train_rows",
		Help: "Rows used to fit the model.",
	})
	r.testRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace, Subsystem: "model", Name: "test_rows",
		Help: "Rows held out for evaluation.",
	})
	r.candidates = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: r.namespace, Subsystem: "generate", Name: "candidates",
		Help: "Grid candidates per pipeline outcome.",
	}, []string{"outcome"})
	r.bots = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace, Subsystem: "generate", Name: "bots",
		Help: "Bots emitted after thinning.",
	})
	r.trophies = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: r.namespace, Subsystem: "generate", Name: "bot_trophies",
		Help:    "Trophy values of emitted bots.",
		Buckets: trophyBuckets,
	})
	r.duration = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace, Subsystem: "generate", Name: "duration_seconds",
		Help: "Wall time of the generation run.",
	})
	r.lastSuccess = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace, Subsystem: "generate", Name: "last_success_timestamp_seconds",
		Help: "Unix time of the last successful run.",
	})
	return r
}

// Registry returns the registry the recorder writes to.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Observe records the outcome of a generation run.
func (r *Recorder) Observe(s botgen.Summary, elapsed time.Duration) {
	r.records.Set(float64(s.Records))
	if s.Model != nil {
		r.testMSE.Set(s.Model.MSE)
		r.trainRows.Set(float64(s.Model.TrainSize))
		r.testRows.Set(float64(s.Model.TestSize))
	}
	r.candidates.WithLabelValues("total").Set(float64(s.Candidates))
	r.candidates.WithLabelValues("filtered").Set(float64(s.Filtered))
	r.candidates.WithLabelValues("non_positive").Set(float64(s.NonPositive))
	r.candidates.WithLabelValues("skipped").Set(float64(s.Skipped))
	r.candidates.WithLabelValues("synthesized").Set(float64(s.Synthesized))
	r.candidates.WithLabelValues("removed").Set(float64(s.Removed))
	r.bots.Set(float64(len(s.Bots)))
	for _, b := range s.Bots {
		r.trophies.Observe(float64(b.Trophies))
	}
	r.duration.Set(elapsed.Seconds())
	r.lastSuccess.SetToCurrentTime()
}

// WriteFile writes the registry in the text exposition format to path.
func (r *Recorder) WriteFile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create metrics dir: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
