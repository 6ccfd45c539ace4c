package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const subsystem = "oracle"

var (
	requestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "Count of route evaluations by transport and outcome.",
		},
		[]string{"transport", "outcome"},
	)
	requestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Route evaluation latency in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
		[]string{"transport"},
	)
	routePoints = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Subsystem: subsystem,
			Name:      "route_points",
			Help:      "Number of points per evaluated route.",
			Buckets:   prometheus.LinearBuckets(0, 2, 8),
		},
	)
)

var registerMetrics sync.Once

// Register adds the oracle instruments to reg. Only the first call has effect.
func Register(reg prometheus.Registerer) {
	registerMetrics.Do(func() {
		reg.MustRegister(requestCounter)
		reg.MustRegister(requestLatency)
		reg.MustRegister(routePoints)
	})
}

// RecordOracleRequest records one evaluation served by the oracle daemon.
func RecordOracleRequest(transport, outcome string, points int, elapsed time.Duration) {
	requestCounter.WithLabelValues(transport, outcome).Inc()
	requestLatency.WithLabelValues(transport).Observe(elapsed.Seconds())
	routePoints.Observe(float64(points))
}

// RecordOracleRejected counts a request refused before evaluation, e.g. by rate limiting.
func RecordOracleRejected(transport, reason string) {
	requestCounter.WithLabelValues(transport, reason).Inc()
}
