package stylize

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"stylerd/internal/style"
)

var (
	inferenceDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stylerd",
			Subsystem: "inference",
			Name:      "duration_seconds",
			Help:      "Duration of the stylize pipeline in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"model"},
	)

	inferenceTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stylerd",
			Subsystem: "inference",
			Name:      "total",
			Help:      "Stylize requests by model and outcome",
		},
		[]string{"model", "outcome"},
	)

	inferenceInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "stylerd",
			Subsystem: "inference",
			Name:      "inflight",
			Help:      "Forward passes currently running",
		},
	)
)

func init() {
	prometheus.MustRegister(inferenceDuration, inferenceTotal, inferenceInflight)
}

// Outcome labels for stylerd_inference_total.
const (
	outcomeOK           = "ok"
	outcomeInvalidImage = "invalid_image"
	outcomeUnknownModel = "unknown_model"
	outcomeTooBusy      = "too_busy"
	outcomeCanceled     = "canceled"
	outcomeTimeout      = "timeout"
	outcomeUnavailable  = "unavailable"
	outcomeError        = "error"
)

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case IsInvalidImage(err):
		return outcomeInvalidImage
	case IsUnknownModel(err):
		return outcomeUnknownModel
	case IsTooBusy(err):
		return outcomeTooBusy
	case IsDependencyUnavailable(err):
		return outcomeUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return outcomeTimeout
	case errors.Is(err, context.Canceled):
		return outcomeCanceled
	default:
		return outcomeError
	}
}

// unresolvedModel is the model label for requests whose model name did not
// resolve. Client-supplied names never become label values.
const unresolvedModel = "unknown"

func observeUnresolved(err error) {
	inferenceTotal.WithLabelValues(unresolvedModel, outcomeOf(err)).Inc()
}

func observeInference(v style.Variant, err error, took time.Duration) {
	inferenceTotal.WithLabelValues(v.String(), outcomeOf(err)).Inc()
	if err == nil {
		inferenceDuration.WithLabelValues(v.String()).Observe(took.Seconds())
	}
}
