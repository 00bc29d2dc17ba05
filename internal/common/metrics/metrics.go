package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChatRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concierge_chat_requests_total",
			Help: "Total number of chat requests by response status",
		},
		[]string{"status"},
	)

	DialogTurns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concierge_dialog_turns_total",
			Help: "Total number of dialog turns by intent and action",
		},
		[]string{"intent", "action"},
	)

	SlotValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concierge_slot_validation_failures_total",
			Help: "Total number of slot validation failures by slot",
		},
		[]string{"slot"},
	)

	RequestsEnqueued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "concierge_requests_enqueued_total",
			Help: "Total number of dining requests sent to the queue",
		},
	)

	MessagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concierge_messages_processed_total",
			Help: "Total number of queue messages by processing outcome",
		},
		[]string{"outcome"},
	)

	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concierge_emails_sent_total",
			Help: "Total number of suggestion emails by delivery status",
		},
		[]string{"status"},
	)

	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "concierge_search_duration_seconds",
			Help: "Duration of search index queries in seconds",
		},
	)

	HydrationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "concierge_hydration_duration_seconds",
			Help: "Duration of restaurant record hydration in seconds",
		},
	)
)
