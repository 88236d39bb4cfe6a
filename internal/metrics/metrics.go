// Package metrics defines Prometheus collectors for the integration core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Webhook ingestion metrics.
var (
	WebhooksReceivedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhooks_received_total",
			Help: "Total number of inbound webhook deliveries accepted",
		},
		[]string{"integration"},
	)

	WebhooksRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhooks_rejected_total",
			Help: "Total number of inbound webhook deliveries rejected during authentication",
		},
		[]string{"integration", "reason"},
	)

	WebhookProcessingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webhook_processing_duration_seconds",
			Help:    "Webhook ingestion pipeline duration in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"integration"},
	)
)

// Event bus metrics.
var (
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_events_published_total",
			Help: "Total number of integration events published on the bus",
		},
		[]string{"type"},
	)

	SubscriberPanicsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "event_subscriber_panics_total",
			Help: "Total number of event subscriber panics recovered by the bus",
		},
	)
)

// Action dispatch metrics.
var (
	ActionsDispatchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_actions_dispatched_total",
			Help: "Total number of outbound actions dispatched to provider handlers",
		},
		[]string{"integration", "status"},
	)

	ActionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "integration_action_duration_seconds",
			Help:    "Provider action handler duration in seconds",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 10, 30},
		},
		[]string{"integration"},
	)
)

// Lifecycle metrics.
var (
	ConnectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_connections_total",
			Help: "Total number of integration lifecycle transitions",
		},
		[]string{"integration", "transition"},
	)
)
