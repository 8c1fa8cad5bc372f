// Package metrics counts pipeline stage outcomes and prediction results and
// exports them in the Prometheus text format for a node exporter textfile
// collector.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder collects metrics for one process run. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	registry    *prometheus.Registry
	stages      *prometheus.CounterVec
	predictions *prometheus.CounterVec
	confidence  prometheus.Histogram
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		stages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vms",
			Name:      "feature_stage_total",
			Help:      "Feature transform stage outcomes by stage and status.",
		}, []string{"stage", "status"}),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vms",
			Name:      "predictions_total",
			Help:      "Prediction attempts by method and result.",
		}, []string{"method", "result"}),
		confidence: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vms",
			Name:      "prediction_confidence",
			Help:      "Confidence of successful predictions.",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		}),
	}
	r.registry.MustRegister(r.stages, r.predictions, r.confidence)
	return r
}

// ObserveStage counts one transform stage outcome.
func (r *Recorder) ObserveStage(stage, status string) {
	if r == nil {
		return
	}
	r.stages.WithLabelValues(stage, status).Inc()
}

// ObservePrediction counts a successful prediction.
func (r *Recorder) ObservePrediction(method string, confidence float64) {
	if r == nil {
		return
	}
	r.predictions.WithLabelValues(method, "success").Inc()
	r.confidence.Observe(confidence)
}

// ObserveFailure counts a failed prediction by error kind.
func (r *Recorder) ObserveFailure(method, kind string) {
	if r == nil {
		return
	}
	r.predictions.WithLabelValues(method, kind).Inc()
}

// WriteTextfile writes all metrics to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
