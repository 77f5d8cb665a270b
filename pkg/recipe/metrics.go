package recipe

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	resolveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "boutpkg_resolve_duration_seconds",
			Help:    "Duration of package resolutions in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		},
		[]string{"package"},
	)

	resolveTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boutpkg_resolve_total",
			Help: "Total number of package resolutions by outcome code",
		},
		[]string{"package", "code"},
	)
)
