package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nible_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nible_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Notification metrics, labeled by notification type
	// (request_accepted, request_picked_up, new_message)
	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nible_notifications_sent_total",
			Help: "Notifications delivered to FCM",
		},
		[]string{"type"},
	)

	NotificationsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nible_notifications_skipped_total",
			Help: "Notifications skipped because the recipient has no token",
		},
		[]string{"type"},
	)

	NotificationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nible_notification_failures_total",
			Help: "Notification sends that failed",
		},
		[]string{"type"},
	)

	// Status sync metrics
	SyncCommits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nible_sync_commits_total",
			Help: "Atomic status-sync batch commits",
		},
	)

	ConversationsSynced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nible_conversations_synced_total",
			Help: "Conversations whose requestStatus was rewritten",
		},
	)

	// Infrastructure metrics
	StoreLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nible_store_latency_seconds",
			Help:    "Document store operation latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1},
		},
		[]string{"backend", "op"},
	)
)
