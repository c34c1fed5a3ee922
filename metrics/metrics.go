// Package metrics holds the Prometheus collectors of the process.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application collectors, exposed by Handler.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "minipay",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "minipay",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "minipay",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method"},
	)

	storeOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "minipay",
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Total number of document store operations.",
		},
		[]string{"collection", "operation", "success"},
	)

	storeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "minipay",
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Duration of document store operations, persistence included.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14), // 100us to ~1.6s
		},
		[]string{"operation"},
	)

	snapshotWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "minipay",
			Subsystem: "store",
			Name:      "snapshot_writes_total",
			Help:      "Snapshot file rewrites.",
		},
		[]string{"success"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		storeOperations,
		storeDuration,
		snapshotWrites,
	)
}

// Handler exposes Registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RequestStarted increments the in-flight gauge and returns the function that
// records the outcome.
func RequestStarted(method string) func(status int) {
	start := time.Now()
	httpInFlight.Inc()
	return func(status int) {
		httpInFlight.Dec()
		httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	}
}

func ObserveStoreOperation(collection, operation string, started time.Time, err error) {
	storeOperations.WithLabelValues(collection, operation, strconv.FormatBool(err == nil)).Inc()
	storeDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

func ObserveSnapshotWrite(err error) {
	snapshotWrites.WithLabelValues(strconv.FormatBool(err == nil)).Inc()
}
