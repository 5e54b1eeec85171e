package metrics

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus metrics for a migration run.
type Metrics struct {
	registry *prometheus.Registry

	OperationsApplied *prometheus.CounterVec
	OperationsSkipped *prometheus.CounterVec
	OperationsFailed  *prometheus.CounterVec
	TargetRequests    *prometheus.CounterVec
	APIRetries        prometheus.Counter
}

// New creates the run metrics on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		OperationsApplied: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledgersync_operations_applied_total",
			Help: "Operations applied to the target ledger",
		}, []string{"kind"}),
		OperationsSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledgersync_operations_skipped_total",
			Help: "Operations skipped during execution",
		}, []string{"kind"}),
		OperationsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledgersync_operations_failed_total",
			Help: "Operations rejected by the target ledger",
		}, []string{"kind"}),
		TargetRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledgersync_target_requests_total",
			Help: "Requests sent to the target ledger API",
		}, []string{"call", "outcome"}),
		APIRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgersync_api_retries_total",
			Help: "Retries of retryable target API errors",
		}),
	}
}

// Handler returns the scrape endpoint router for long-running live runs.
func (m *Metrics) Handler() http.Handler {
	r := chi.NewRouter()
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	return r
}
