package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Chat-API Metrics
var (
	// Turn counters
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "playgolf",
			Subsystem: "chat_api",
			Name:      "turns_total",
			Help:      "Total chat turns processed",
		},
		[]string{"backend", "outcome"},
	)

	// Model invocation counters
	ModelCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "playgolf",
			Subsystem: "chat_api",
			Name:      "model_calls_total",
			Help:      "Total model invocations across all turns",
		},
		[]string{"backend", "status"},
	)

	// Turn duration histogram
	TurnDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "playgolf",
			Subsystem: "chat_api",
			Name:      "turn_duration_seconds",
			Help:      "End-to-end turn duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"backend"},
	)

	// Tool call counters
	ToolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "playgolf",
			Subsystem: "chat_api",
			Name:      "tool_calls_total",
			Help:      "Total tool invocations requested by the model",
		},
		[]string{"tool_name", "status"},
	)

	// Tool duration histogram
	ToolDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "playgolf",
			Subsystem: "chat_api",
			Name:      "tool_duration_seconds",
			Help:      "Tool execution duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"tool_name"},
	)

	// Booking counters
	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "playgolf",
			Subsystem: "chat_api",
			Name:      "bookings_total",
			Help:      "Tee-time bookings attempted through the chat flow",
		},
		[]string{"status"},
	)
)
