// Package observability exposes Prometheus metrics for the application.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkup_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// ConnectionRequests counts connection-request operations by outcome
	// (sent, accepted, rejected).
	ConnectionRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkup_connection_requests_total",
		Help: "Total number of connection request operations by outcome",
	}, []string{"outcome"})

	// MessagesSent counts messages written to the store.
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linkup_messages_sent_total",
		Help: "Total number of chat messages persisted",
	})
)
