// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

// Package metrics holds the Prometheus instrumentation for the detection
// engine, the request gate, alert transports and the admin API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Event Metrics
	SecurityEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "security_events_total",
			Help: "Total number of security events recorded",
		},
		[]string{"type", "severity", "result"},
	)

	EventStoreSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "security_event_store_size",
			Help: "Number of events currently retained in the rolling window",
		},
	)

	// Rule Metrics
	RuleMatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "security_rule_matches_total",
			Help: "Total number of rule matches",
		},
		[]string{"rule", "action"},
	)

	// Block Registry Metrics
	BlocksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "security_blocks_total",
			Help: "Total number of addresses added to the block set",
		},
		[]string{"source"}, // "rule", "failed_login", "admin"
	)

	UnblocksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "security_unblocks_total",
			Help: "Total number of addresses removed from the block set",
		},
	)

	BlockedAddresses = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "security_blocked_addresses",
			Help: "Current number of blocked addresses",
		},
	)

	BlockStoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "security_block_store_errors_total",
			Help: "Total number of block persistence failures",
		},
		[]string{"operation"},
	)

	// Risk Metrics
	RiskEvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "security_risk_evaluations_total",
			Help: "Total number of risk evaluations",
		},
		[]string{"level", "cached"},
	)

	// Request Gate Metrics
	GateRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "security_gate_rejections_total",
			Help: "Total number of requests rejected by the request gate",
		},
		[]string{"reason"}, // "blocked", "sql_injection", "rate_limited"
	)

	// Notification Metrics
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "security_notifications_total",
			Help: "Total number of alert notifications attempted",
		},
		[]string{"notifier", "result"}, // result: "success", "failure"
	)

	NotificationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "security_notification_duration_seconds",
			Help:    "Alert notification delivery duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"notifier"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Auth Metrics
	AuthFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_failures_total",
			Help: "Total number of rejected bearer tokens",
		},
		[]string{"reason"}, // "missing", "invalid"
	)

	AuthzDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_decisions_total",
			Help: "Total number of authorization decisions",
		},
		[]string{"decision"}, // "allow", "deny", "error"
	)

	// WebSocket Metrics
	StreamClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "security_stream_clients",
			Help: "Current number of connected live event stream clients",
		},
	)

	StreamDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "security_stream_dropped_total",
			Help: "Total number of stream messages dropped for slow clients",
		},
	)

	// Application Info
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordSecurityEvent counts one recorded event.
func RecordSecurityEvent(eventType, severity, result string) {
	SecurityEventsTotal.WithLabelValues(eventType, severity, result).Inc()
}

// SetEventStoreSize updates the retained event gauge.
func SetEventStoreSize(n int) {
	EventStoreSize.Set(float64(n))
}

// RecordRuleMatch counts a rule firing.
func RecordRuleMatch(rule, action string) {
	RuleMatchesTotal.WithLabelValues(rule, action).Inc()
}

// RecordBlock counts a newly blocked address.
func RecordBlock(source string) {
	BlocksTotal.WithLabelValues(source).Inc()
}

// RecordUnblock counts a removed block.
func RecordUnblock() {
	UnblocksTotal.Inc()
}

// SetBlockedAddresses updates the blocked address gauge.
func SetBlockedAddresses(n int) {
	BlockedAddresses.Set(float64(n))
}

// RecordBlockStoreError counts a failed persistence call.
func RecordBlockStoreError(operation string) {
	BlockStoreErrors.WithLabelValues(operation).Inc()
}

// RecordRiskEvaluation counts a risk lookup.
func RecordRiskEvaluation(level string, cached bool) {
	RiskEvaluationsTotal.WithLabelValues(level, strconv.FormatBool(cached)).Inc()
}

// RecordGateRejection counts a request rejected before reaching a handler.
func RecordGateRejection(reason string) {
	GateRejectionsTotal.WithLabelValues(reason).Inc()
}

// RecordNotification records one alert delivery attempt.
func RecordNotification(notifier string, err error, duration time.Duration) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	NotificationsTotal.WithLabelValues(notifier, result).Inc()
	NotificationDuration.WithLabelValues(notifier).Observe(duration.Seconds())
}

// SetCircuitBreakerState sets the breaker gauge (0=closed, 1=half-open, 2=open).
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordCircuitBreakerTransition counts a breaker state change.
func RecordCircuitBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// TrackStreamClient adjusts the connected stream client gauge.
func TrackStreamClient(connected bool) {
	if connected {
		StreamClients.Inc()
	} else {
		StreamClients.Dec()
	}
}

// RecordStreamDrop counts a message dropped for a slow stream client.
func RecordStreamDrop() {
	StreamDropped.Inc()
}

// RecordAuthFailure counts a rejected credential.
func RecordAuthFailure(reason string) {
	AuthFailuresTotal.WithLabelValues(reason).Inc()
}

// RecordAuthzDecision counts an authorization decision.
func RecordAuthzDecision(decision string) {
	AuthzDecisionsTotal.WithLabelValues(decision).Inc()
}
