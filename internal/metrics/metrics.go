// Package metrics exposes the service counters on a private Prometheus registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the application collectors. A nil *Registry is valid and
// records nothing, so components can run without metrics in tests.
type Registry struct {
	reg               *prometheus.Registry
	CheckoutResults   *prometheus.CounterVec
	CheckoutLatency   prometheus.Histogram
	RateLimitRejected *prometheus.CounterVec
	SweepEvicted      *prometheus.CounterVec
	DraftsCreated     prometheus.Counter
}

// NewRegistry creates a registry with the application collectors and the
// standard Go runtime collectors.
func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	checkoutResults := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_checkout_results_total",
		Help: "Checkout attempts by outcome code.",
	}, []string{"code"})
	checkoutLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_checkout_duration_seconds",
		Help:    "Time spent in the checkout pipeline.",
		Buckets: prometheus.DefBuckets,
	})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_ratelimit_rejected_total",
		Help: "Requests rejected by the rate limiter.",
	}, []string{"policy"})
	evicted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_sweep_evicted_total",
		Help: "Entries removed by periodic sweeps.",
	}, []string{"job"})
	drafts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storefront_draft_stores_created_total",
		Help: "Draft stores created during onboarding.",
	})

	r.MustRegister(
		checkoutResults, checkoutLatency, rejected, evicted, drafts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Registry{
		reg:               r,
		CheckoutResults:   checkoutResults,
		CheckoutLatency:   checkoutLatency,
		RateLimitRejected: rejected,
		SweepEvicted:      evicted,
		DraftsCreated:     drafts,
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// ObserveCheckout records one checkout outcome and its duration.
func (r *Registry) ObserveCheckout(code string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.CheckoutResults.WithLabelValues(code).Inc()
	r.CheckoutLatency.Observe(elapsed.Seconds())
}

// RateLimited records a throttled request.
func (r *Registry) RateLimited(policy string) {
	if r == nil {
		return
	}
	r.RateLimitRejected.WithLabelValues(policy).Inc()
}

// Swept records entries removed by a sweep job.
func (r *Registry) Swept(job string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.SweepEvicted.WithLabelValues(job).Add(float64(n))
}

// DraftCreated records a new draft store.
func (r *Registry) DraftCreated() {
	if r == nil {
		return
	}
	r.DraftsCreated.Inc()
}
