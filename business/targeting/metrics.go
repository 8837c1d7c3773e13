package targeting

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	LaunchScansTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "targeting_launch_scans_total",
			Help: "Count of campaign launch scans executed.",
		},
	)

	LaunchUsersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "targeting_launch_users_total",
			Help: "Per-user launch outcomes by result and campaign segment.",
		},
		[]string{"result", "segment"},
	)

	ClassifierLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "targeting_classifier_latency_seconds",
			Help:    "Latency of single-user classifier calls during a launch scan",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(LaunchScansTotal, LaunchUsersTotal, ClassifierLatency)
}
