package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	SnapshotRequestCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "snapshot_request_count",
			Help: "Total number of full data snapshot reads",
		},
	)

	SyncGroupFailureCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_group_failure_count",
			Help: "Total number of entity group persistence failures during sync",
		},
		[]string{"group"},
	)

	SyncRequestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_request_count",
			Help: "Total number of sync writes by path",
		},
		[]string{"path", "status"}, // path: tasks, full; status: success, failed, rejected
	)
)

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func RecordSyncGroupFailure(group string) {
	SyncGroupFailureCount.WithLabelValues(group).Inc()
}

func RecordSyncRequest(path, status string) {
	SyncRequestCount.WithLabelValues(path, status).Inc()
}
