// Package metrics defines the Prometheus collectors shared across the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Poller metrics
var (
	// WatchedKeywords tracks the number of keywords currently under watch.
	WatchedKeywords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "poller_watched_keywords",
			Help: "Number of keywords currently polled for new videos",
		},
	)

	// PollsTotal tracks completed gateway polls by outcome.
	PollsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poller_polls_total",
			Help: "Completed search gateway polls by status (ok/error)",
		},
		[]string{"status"},
	)

	// PollDuration tracks search gateway call latency in seconds.
	PollDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "poller_poll_duration_seconds",
			Help:    "Search gateway poll duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	// SkippedTicksTotal counts ticks skipped because a poll was still in flight.
	SkippedTicksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "poller_skipped_ticks_total",
			Help: "Poll ticks skipped because the previous poll had not completed",
		},
	)

	// DuplicatesSuppressed counts videos dropped by the seen cache.
	DuplicatesSuppressed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "poller_duplicates_suppressed_total",
			Help: "Videos suppressed because their id was already delivered for the keyword",
		},
	)
)

// Hub metrics
var (
	// ConnectedClients tracks the number of open live connections.
	ConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hub_connected_clients",
			Help: "Number of open live connections",
		},
	)

	// VideosBroadcastTotal counts video notifications delivered to clients.
	VideosBroadcastTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_videos_broadcast_total",
			Help: "Video notifications handed to per-connection writers",
		},
	)

	// HeartbeatsTotal counts heartbeat fan-outs.
	HeartbeatsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_heartbeats_total",
			Help: "Heartbeat messages fanned out to all connections",
		},
	)

	// SlowClientsEvicted counts clients dropped because their send buffer filled.
	SlowClientsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_slow_clients_evicted_total",
			Help: "Clients evicted because their send buffer was full",
		},
	)

	// HubStopTimeoutsTotal counts forced hub shutdowns.
	HubStopTimeoutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_stop_timeouts_total",
			Help: "Hub shutdowns that exceeded the graceful stop timeout",
		},
	)
)

// WebSocket writer metrics
var (
	// MessageSendDuration tracks per-message write latency in seconds.
	MessageSendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "websocket_message_send_duration_seconds",
			Help:    "WebSocket message send duration in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1},
		},
	)

	// PingFailures counts failed keepalive pings.
	PingFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_ping_failures_total",
			Help: "WebSocket keepalive pings that failed to send",
		},
	)

	// IdleDisconnects counts connections closed for inactivity.
	IdleDisconnects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_idle_disconnects_total",
			Help: "WebSocket connections closed due to idle timeout",
		},
	)
)

// Gateway metrics
var (
	// GatewayRequestsTotal tracks YouTube API requests by endpoint and status.
	GatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "youtube_gateway_requests_total",
			Help: "YouTube API requests by endpoint and status (ok/error)",
		},
		[]string{"endpoint", "status"},
	)
)

// HTTP metrics
var (
	// HTTPErrorsTotal tracks HTTP errors by type.
	HTTPErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total HTTP errors by error type",
		},
		[]string{"type"},
	)
)
