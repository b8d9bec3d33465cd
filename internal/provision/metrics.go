package provision

import "github.com/prometheus/client_golang/prometheus"

var (
	provisionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "teuthology",
			Subsystem: "provision",
			Name:      "nodes_total",
			Help:      "Total number of node provisioning attempts by result",
		},
		[]string{"result"},
	)

	provisionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "teuthology",
			Subsystem: "provision",
			Name:      "duration_seconds",
			Help:      "Duration of successful node provisioning in seconds",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~68min
		},
	)

	destroyTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "teuthology",
			Subsystem: "provision",
			Name:      "nodes_destroyed_total",
			Help:      "Total number of node destroy attempts by result",
		},
		[]string{"result"},
	)

	volumeRollbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "teuthology",
			Subsystem: "provision",
			Name:      "volume_rollbacks_total",
			Help:      "Number of compensating volume teardowns after partial attach failures",
		},
	)
)

func init() {
	prometheus.MustRegister(
		provisionTotal,
		provisionDuration,
		destroyTotal,
		volumeRollbacksTotal,
	)
}
