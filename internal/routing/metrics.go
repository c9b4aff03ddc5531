package routing

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resolution outcome label values.
const (
	outcomeMatch    = "match"
	outcomeNotFound = "not_found"
)

// metrics contains Prometheus metrics for the resolver.
type metrics struct {
	resolutions     *prometheus.CounterVec
	resolveDuration prometheus.Histogram
	candidateCount  prometheus.Histogram
	routesLoaded    prometheus.Gauge
	compileErrors   prometheus.Counter
}

var (
	metricsInstance *metrics
	metricsOnce     sync.Once
)

// resolverMetrics returns the singleton resolver metrics instance.
func resolverMetrics() *metrics {
	metricsOnce.Do(func() {
		metricsInstance = &metrics{
			resolutions: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "routeforge",
					Subsystem: "resolver",
					Name:      "resolutions_total",
					Help:      "Total number of route resolutions by outcome",
				},
				[]string{"outcome"},
			),
			resolveDuration: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Namespace: "routeforge",
					Subsystem: "resolver",
					Name:      "resolution_duration_seconds",
					Help:      "Time spent resolving a request to a route",
					Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
				},
			),
			candidateCount: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Namespace: "routeforge",
					Subsystem: "resolver",
					Name:      "candidates_per_resolution",
					Help:      "Number of index candidates examined per resolution",
					Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64, 128},
				},
			),
			routesLoaded: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "routeforge",
					Subsystem: "resolver",
					Name:      "routes_loaded",
					Help:      "Number of routes in the published index",
				},
			),
			compileErrors: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "routeforge",
					Subsystem: "resolver",
					Name:      "route_compile_errors_total",
					Help:      "Total number of route definitions skipped as malformed",
				},
			),
		}
	})
	return metricsInstance
}
