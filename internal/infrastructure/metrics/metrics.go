package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Chat-API Metrics
var (
	// Exchange counters
	ExchangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "verse",
			Subsystem: "chat_api",
			Name:      "exchanges_total",
			Help:      "Total conversation exchanges, by outcome",
		},
		[]string{"status"},
	)

	ThreadsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "verse",
			Subsystem: "chat_api",
			Name:      "threads_created_total",
			Help:      "Total threads created",
		},
	)

	// Token counters
	TokensPromptTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "verse",
			Subsystem: "chat_api",
			Name:      "tokens_prompt_total",
			Help:      "Total prompt tokens consumed",
		},
		[]string{"model"},
	)

	TokensCompletionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "verse",
			Subsystem: "chat_api",
			Name:      "tokens_completion_total",
			Help:      "Total completion tokens generated",
		},
		[]string{"model"},
	)

	// Provider call outcomes
	ProviderErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "verse",
			Subsystem: "chat_api",
			Name:      "provider_errors_total",
			Help:      "Total provider call failures, by classified error",
		},
		[]string{"model", "error_type"},
	)

	ProviderRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "verse",
			Subsystem: "chat_api",
			Name:      "provider_retries_total",
			Help:      "Total retried provider attempts",
		},
		[]string{"model"},
	)

	ProviderCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "verse",
			Subsystem: "chat_api",
			Name:      "provider_call_duration_seconds",
			Help:      "Wall-clock duration of provider generate calls, retries included",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"model", "status"},
	)
)
