package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// LockConflicts 同一 Key 并发请求被拒绝次数
	LockConflicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iqnet_lock_conflicts_total",
			Help: "Interaction requests rejected because the same actor/target key was busy.",
		},
		[]string{"op"},
	)

	LedgerEntries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iqnet_ledger_entries_total",
			Help: "Point ledger entries appended.",
		},
		[]string{"context"},
	)

	// Notifications action: created | toggled_off | retracted
	Notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iqnet_notifications_total",
			Help: "Notification store mutations.",
		},
		[]string{"type", "action"},
	)

	// Pushes result: sent | unbound | error
	Pushes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iqnet_push_total",
			Help: "Real-time push attempts.",
		},
		[]string{"event", "result"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPLatency, LockConflicts, LedgerEntries, Notifications, Pushes)
}
