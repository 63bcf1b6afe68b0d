package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request status labels.
const (
	StatusOK         = "ok"
	StatusInvalid    = "invalid"
	StatusTooLarge   = "too_large"
	StatusFailed     = "failed"
	StatusTimeout    = "timeout"
	StatusNotAllowed = "method_not_allowed"
)

var (
	TranslateRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "doctranslate_requests_total",
		Help: "The total number of translate requests by outcome",
	}, []string{"status"})

	TranslateRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "doctranslate_request_duration_seconds",
		Help:    "Duration of translate requests end to end",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120, 300},
	})

	DocumentBytes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "doctranslate_document_bytes",
		Help:    "Size of uploaded documents",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
	}, []string{"content_type"})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "doctranslate_stage_duration_seconds",
		Help:    "Duration of pipeline stages",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	StageFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "doctranslate_stage_failures_total",
		Help: "Pipeline stage failures by stage and reason",
	}, []string{"stage", "reason"})

	ExtractionPolls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "doctranslate_extraction_polls_total",
		Help: "Total number of document analysis status polls",
	})

	LLMRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "doctranslate_llm_request_duration_seconds",
		Help:    "Duration of LLM requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider", "model"})

	GenerationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "doctranslate_generation_failures_total",
		Help: "Failed summary or description generations",
	}, []string{"field"})

	ViewRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "doctranslate_view_requests_total",
		Help: "Document view page requests by outcome",
	}, []string{"status"})
)
