// Package metrics provides Prometheus metrics recording for internal packages.
// This package exists to avoid import cycles between the provider and store packages.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// connAcquireTotal tracks connection acquisitions per provider variant
	connAcquireTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poolbench_conn_acquires_total",
			Help: "Total number of connection acquisitions",
		},
		[]string{"provider"},
	)

	// connAcquireErrors tracks failed connection acquisitions
	connAcquireErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poolbench_conn_acquire_errors_total",
			Help: "Total number of failed connection acquisitions",
		},
		[]string{"provider"},
	)

	// connAcquireWait tracks time spent waiting for a connection in seconds
	connAcquireWait = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poolbench_conn_acquire_wait_seconds",
			Help:    "Time spent acquiring a connection in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"provider"},
	)

	// connDialTotal tracks physical connections opened per provider variant
	connDialTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poolbench_conn_dials_total",
			Help: "Total number of physical connections opened",
		},
		[]string{"provider"},
	)

	// opDuration tracks CRUD operation duration in seconds
	opDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poolbench_operation_duration_seconds",
			Help:    "CRUD operation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"operation"},
	)

	// opErrors tracks CRUD operation errors
	opErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poolbench_operation_errors_total",
			Help: "Total number of failed CRUD operations",
		},
		[]string{"operation"},
	)
)

// RecordAcquire records a successful connection acquisition and its wait time
func RecordAcquire(provider string, wait time.Duration) {
	connAcquireTotal.WithLabelValues(provider).Inc()
	connAcquireWait.WithLabelValues(provider).Observe(wait.Seconds())
}

// RecordAcquireError records a failed connection acquisition
func RecordAcquireError(provider string) {
	connAcquireErrors.WithLabelValues(provider).Inc()
}

// RecordDial records a physical connection being opened
func RecordDial(provider string) {
	connDialTotal.WithLabelValues(provider).Inc()
}

// RecordOperation records a CRUD operation result
func RecordOperation(operation string, duration time.Duration, err error) {
	opDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		opErrors.WithLabelValues(operation).Inc()
	}
}
