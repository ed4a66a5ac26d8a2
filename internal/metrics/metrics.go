package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	ResultsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "results_submitted_total",
			Help: "Match results received by the service, by outcome",
		},
		[]string{"outcome"},
	)
	ResultsListed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "results_listed_total",
			Help: "Recent result listings served, by outcome",
		},
		[]string{"outcome"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	StoreAvailable = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "results_store_available",
			Help: "1 when a result store is configured and reachable at startup",
		},
	)
)

func init() {
	prometheus.MustRegister(ResultsSubmitted)
	prometheus.MustRegister(ResultsListed)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(StoreAvailable)
}

// Outcome maps an error to its label value.
func Outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}
