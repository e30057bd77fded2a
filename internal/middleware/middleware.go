// Package middleware holds the HTTP middleware shared by all storefront
// routes. Every failure it writes uses the model.ErrorResponse envelope.
package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"storefront/internal/model"
	"storefront/internal/ratelimit"

	"github.com/rs/zerolog"
)

// InternalKeyHeader carries the token for the /internal routes.
const InternalKeyHeader = "X-API-Key"

var (
	allowedMethods = strings.Join([]string{http.MethodGet, http.MethodPost, http.MethodOptions}, ", ")
	allowedHeaders = strings.Join([]string{"Content-Type", InternalKeyHeader}, ", ")
	exposedHeaders = strings.Join([]string{
		"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After",
	}, ", ")
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// CORS lets browser storefronts call the API from any origin and read the
// rate limit headers. Preflight requests stop here.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", allowedMethods)
		h.Set("Access-Control-Allow-Headers", allowedHeaders)
		h.Set("Access-Control-Expose-Headers", exposedHeaders)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// InternalAuth guards the internal trigger routes with a shared token. An
// empty configured token rejects every request.
func InternalAuth(token string, logger zerolog.Logger) func(http.Handler) http.Handler {
	logger = logger.With().Str("component", "internal_auth").Logger()
	expected := []byte(token)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(InternalKeyHeader)
			if provided == "" || len(expected) == 0 ||
				subtle.ConstantTimeCompare([]byte(provided), expected) != 1 {
				logger.Warn().
					Str("path", r.URL.Path).
					Str("client", ratelimit.ClientIdentifier(r)).
					Bool("key_present", provided != "").
					Msg("internal request rejected")
				writeJSON(w, http.StatusUnauthorized, model.ErrorResponse{
					Code:  model.ErrCodeUnauthorised,
					Error: "unauthorised",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Logging writes one line per request. Server errors log at error level and
// client errors at warn.
func Logging(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			event := logger.Info()
			switch {
			case rec.status >= http.StatusInternalServerError:
				event = logger.Error()
			case rec.status >= http.StatusBadRequest:
				event = logger.Warn()
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Int("bytes", rec.bytes).
				Dur("duration", time.Since(start)).
				Str("client", ratelimit.ClientIdentifier(r)).
				Msg("http request")
		})
	}
}

// Recovery turns a panic into a 500 INTERNAL_ERROR response.
func Recovery(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					logger.Error().
						Interface("panic", p).
						Str("method", r.Method).
						Str("path", r.URL.Path).
						Msg("panic recovered")
					writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
						Code:  model.ErrCodeInternalError,
						Error: "internal server error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// statusRecorder captures the status code and body size of a response.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}
