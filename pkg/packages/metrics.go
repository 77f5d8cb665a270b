package packages

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	planDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "boutpkg_plan_duration_seconds",
			Help:    "Duration of build plan construction in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5},
		},
	)

	planSteps = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "boutpkg_plan_steps",
			Help:    "Number of packages in successful build plans",
			Buckets: prometheus.LinearBuckets(1, 1, 8),
		},
	)
)
