package router

import (
	"net/http"

	"storefront/internal/handler"
	"storefront/internal/metrics"
	"storefront/internal/middleware"
	"storefront/internal/ratelimit"

	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Checkout   *handler.CheckoutHandler
	Orders     *handler.OrderHandler
	Products   *handler.ProductHandler
	Stores     *handler.StoreHandler
	DraftStore *handler.DraftStoreHandler
	Slug       *handler.SlugHandler
	Internal   *handler.InternalHandler
}

// Options configures the cross-cutting middleware. A nil Limiter disables
// rate limiting.
type Options struct {
	APIKey  string
	Limiter *ratelimit.Limiter
	Metrics *metrics.Registry
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	mux.Handle("/metrics", opts.Metrics.Handler())

	limit := func(policy ratelimit.Policy) func(http.Handler) http.Handler {
		return middleware.RateLimit(opts.Limiter, policy, opts.Metrics, logger)
	}
	api := func(next http.HandlerFunc, policies ...ratelimit.Policy) http.Handler {
		var wrapped http.Handler = next
		for _, p := range policies {
			wrapped = limit(p)(wrapped)
		}
		return limit(ratelimit.PolicyAPI)(wrapped)
	}

	mux.Handle("/api/checkout", api(h.Checkout.Submit, ratelimit.PolicyCheckout))
	mux.Handle("/api/orders/{id}", api(h.Orders.GetByID))
	mux.Handle("/api/products", api(h.Products.List))
	mux.Handle("/api/products/{id}", api(h.Products.GetByID))
	mux.Handle("/api/stores/{id}/status", api(h.Stores.Status))
	mux.Handle("/api/draft-store/create", api(h.DraftStore.Create, ratelimit.PolicyDraftStore))
	mux.Handle("/api/draft-store/get", api(h.DraftStore.Get))
	mux.Handle("/api/draft-store/update", api(h.DraftStore.Update))
	mux.Handle("/api/slug/check", api(h.Slug.Check))

	mux.Handle("/internal/sweep", middleware.InternalAuth(opts.APIKey, logger)(http.HandlerFunc(h.Internal.Sweep)))

	// Apply middleware in order: Recovery -> Logging -> CORS
	var handler http.Handler = mux
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
