// Package metrics holds collectors for the binary artifact endpoints.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	ArtifactLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "steeldash",
			Subsystem: "artifacts",
			Name:      "latency_seconds",
			Help:      "Time to produce chart images and workbook exports",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	ArtifactErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "steeldash",
			Subsystem: "artifacts",
			Name:      "errors_total",
			Help:      "Failed chart images and workbook exports",
		},
		[]string{"kind"},
	)

	ArtifactThrottled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "steeldash",
			Subsystem: "artifacts",
			Name:      "throttled_total",
			Help:      "Chart requests rejected by the rate limiter",
		},
	)
)

// Register adds the collectors to the default registry once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(ArtifactLatency, ArtifactErrors, ArtifactThrottled)
	})
}
