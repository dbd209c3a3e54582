// Package metrics declares the Prometheus collectors exported by the engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MarkupRenders counts render calls by resolved template and outcome (ok, fallback, error)
	MarkupRenders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "markup_renders_total",
			Help: "Total number of resume markup renders",
		},
		[]string{"template", "outcome"},
	)

	MarkupRenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "markup_render_duration_seconds",
			Help:    "Duration of resume markup rendering in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// TemplateCacheLookups counts resolver cache hits and misses
	TemplateCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "template_cache_lookups_total",
			Help: "Template cache lookups by result",
		},
		[]string{"result"},
	)

	MatchScores = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_scores_total",
			Help: "Match scores computed by mode and confidence",
		},
		[]string{"mode", "confidence"},
	)

	// AIFailures counts classified AI collaborator failures
	AIFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_failures_total",
			Help: "AI collaborator failures by operation and classified reason",
		},
		[]string{"operation", "reason"},
	)

	JobAnalyses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_analyses_total",
			Help: "Job analyses by requirement source",
		},
		[]string{"source"},
	)

	// HTTPRequests counts API requests by route pattern and status code
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)
