package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	responseTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scorefn_http_response_seconds",
			Help:    "http response time by route.",
			Buckets: []float64{0.001, 0.005, 0.025, 0.1, 0.5, 1, 5},
		},
		[]string{"route"},
	)

	totalHttpRequestsFromRole = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "scorefn_http_requests_from_role_total", Help: "http requests from role"},
		[]string{"role"},
	)

	totalHttpRequestsToRoute = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "scorefn_http_requests_to_route_total", Help: "http requests by code, route and method"},
		[]string{"code", "route", "method"},
	)

	totalHttpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "scorefn_http_requests_total", Help: "http requests by code, and method"},
		[]string{"code", "method"},
	)

	resolveTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "scorefn_resolve_total", Help: "registry lookups by registry kind and outcome"},
		[]string{"registry", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		responseTime,
		totalHttpRequestsFromRole,
		totalHttpRequestsToRoute,
		totalHttpRequests,
		resolveTotal,
	)
}
