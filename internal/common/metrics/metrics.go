// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GenerationsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_completed_total",
			Help: "Total number of documents generated successfully",
		},
		[]string{"document_type"},
	)

	GenerationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_failed_total",
			Help: "Total number of generation requests that failed",
		},
		[]string{"document_type", "error_code"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "generation_stage_duration_seconds",
			Help: "Duration of each pipeline stage in seconds",
		},
		[]string{"stage"},
	)

	RendersActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "renderer_instances_active",
			Help: "Number of live rendering-engine instances",
		},
	)

	DeliveryWarnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_warnings_total",
			Help: "Non-fatal email/callback delivery failures",
		},
		[]string{"channel"},
	)
)
