package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"storefront/internal/metrics"
	"storefront/internal/model"
	"storefront/internal/ratelimit"

	"github.com/rs/zerolog"
)

// RateLimitResponse is the body of a throttled response.
type RateLimitResponse struct {
	Success    bool      `json:"success"`
	Code       string    `json:"code"`
	Error      string    `json:"error"`
	Message    string    `json:"message"`
	RetryAfter int       `json:"retryAfter"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"resetAt"`
}

// RateLimit throttles requests per client under the given policy. Every
// response carries the X-RateLimit headers; throttled requests get 429 with
// Retry-After and never reach next.
func RateLimit(limiter *ratelimit.Limiter, policy ratelimit.Policy, m *metrics.Registry, logger zerolog.Logger) func(http.Handler) http.Handler {
	logger = logger.With().Str("component", "ratelimit").Str("policy", string(policy)).Logger()

	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			client := ratelimit.ClientIdentifier(r)
			result := limiter.CheckPolicy(policy, client)

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			h.Set("X-RateLimit-Reset", result.ResetAt.UTC().Format(time.RFC3339))

			if result.Success {
				next.ServeHTTP(w, r)
				return
			}

			retryAfter := int(result.RetryAfter(time.Now()) / time.Second)
			m.RateLimited(string(policy))
			logger.Warn().
				Str("client", client).
				Str("path", r.URL.Path).
				Int("retry_after", retryAfter).
				Msg("rate limit exceeded")

			h.Set("Retry-After", strconv.Itoa(retryAfter))
			h.Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(RateLimitResponse{
				Code:       model.ErrCodeRateLimited,
				Error:      "Too many requests",
				Message:    fmt.Sprintf("Too many requests. Try again in %d seconds.", retryAfter),
				RetryAfter: retryAfter,
				Remaining:  0,
				ResetAt:    result.ResetAt,
			})
		})
	}
}
