package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ValidationsTotal counts completed validations by outcome.
	//
	// Example usage:
	// metrics.ValidationsTotal.WithLabelValues("valid").Inc()
	ValidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "captcha_validations_total",
			Help: "Number of captcha validations by outcome.",
		},
		[]string{"outcome"},
	)

	// VerifyDuration is a histogram that tracks the latency of calls to the
	// verification endpoint.
	VerifyDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "captcha_verify_duration_seconds",
			Help:    "A histogram of siteverify request latencies.",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"status"},
	)

	// RemoteErrorCodesTotal counts error codes returned by the verification
	// endpoint.
	//
	// Example usage:
	// metrics.RemoteErrorCodesTotal.WithLabelValues("timeout-or-duplicate").Inc()
	RemoteErrorCodesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "captcha_remote_error_codes_total",
			Help: "Number of error codes returned by the verification endpoint.",
		},
		[]string{"code"},
	)
)
