package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	afcRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "afcctl",
			Subsystem: "afc",
			Name:      "requests_total",
			Help:      "Total AFC requests by operation.",
		},
		[]string{"op", "success"},
	)
	afcDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "afcctl",
			Subsystem: "afc",
			Name:      "request_duration_seconds",
			Help:      "AFC request round-trip duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op", "success"},
	)
	afcBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "afcctl",
			Subsystem: "afc",
			Name:      "file_bytes_total",
			Help:      "File content bytes moved through FILE_READ/FILE_WRITE.",
		},
		[]string{"direction"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(afcRequests, afcDuration, afcBytes)
	})
}

func RecordRequest(op string, success bool, duration time.Duration) {
	s := strconv.FormatBool(success)
	afcRequests.WithLabelValues(op, s).Inc()
	afcDuration.WithLabelValues(op, s).Observe(duration.Seconds())
}

func RecordBytes(direction string, n int) {
	afcBytes.WithLabelValues(direction).Add(float64(n))
}
