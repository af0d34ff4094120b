package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_agent_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "ai_agent_request_duration_seconds",
			Help: "HTTP request duration in seconds",
		},
		[]string{"method", "endpoint"},
	)

	MessagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_agent_messages_processed_total",
			Help: "Messages processed, by the rule that handled them",
		},
		[]string{"handler"},
	)

	ProviderFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_agent_provider_fallbacks_total",
			Help: "Provider sources that failed and fell through",
		},
		[]string{"provider", "source"},
	)

	HistorySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ai_agent_history_size",
			Help: "Number of turns currently held in the history buffer",
		},
	)
)
