// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

package gateway

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Status labels for dispatch metrics.
const (
	StatusOK            = "ok"
	StatusUnknown       = "unknown_operation"
	StatusMalformed     = "malformed"
	StatusNoSession     = "no_session"
	StatusLockContended = "lock_contended"
	StatusError         = "error"
	StatusPanic         = "panic"
)

// unknownOperationLabel keeps unregistered names out of label cardinality.
const unknownOperationLabel = "_unknown"

// Requests is the counter for dispatched requests.
// Use RegisterMetrics to register this with a Prometheus registry.
var Requests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gamegate_requests_total",
		Help: "Total number of dispatched requests by operation, status and result code",
	},
	[]string{"operation", "status", "result"},
)

// RequestDuration is the histogram for dispatch duration.
// Use RegisterMetrics to register this with a Prometheus registry.
var RequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "gamegate_request_duration_seconds",
		Help:    "Request dispatch duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// LockContentions is the counter for requests rejected because the session
// lock was held.
var LockContentions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gamegate_session_lock_contentions_total",
		Help: "Total number of session-scoped requests rejected on a held lock",
	},
	[]string{"operation"},
)

// RegisterMetrics registers gateway metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Requests)
	reg.MustRegister(RequestDuration)
	reg.MustRegister(LockContentions)
}

// metricsRecorder tracks metrics for a single dispatch.
type metricsRecorder struct {
	startTime time.Time
	operation string
	status    string
}

func newMetricsRecorder(operation string) *metricsRecorder {
	return &metricsRecorder{startTime: time.Now(), operation: operation}
}

func (m *metricsRecorder) setStatus(status string) {
	m.status = status
}

func (m *metricsRecorder) record(out Outcome) {
	op := m.operation
	if m.status == StatusUnknown {
		op = unknownOperationLabel
	}
	Requests.WithLabelValues(op, m.status, strconv.Itoa(out.Code.Int())).Inc()
	RequestDuration.WithLabelValues(op).Observe(time.Since(m.startTime).Seconds())
}
