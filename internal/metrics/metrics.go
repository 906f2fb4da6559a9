package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pareto_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pareto_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)

	StatusChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pareto_application_status_changes_total",
			Help: "Application status updates by target status",
		},
		[]string{"status"},
	)

	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pareto_emails_sent_total",
			Help: "Emails handed to the provider by template and result",
		},
		[]string{"template", "result"},
	)

	ProfilesReconciled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pareto_profiles_reconciled_total",
			Help: "Profiles created by the reconciliation worker",
		},
	)
)

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
