// Package ratelimit implements fixed-window request throttling keyed by
// policy and client identifier.
package ratelimit

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// Config is a fixed window: at most MaxRequests per Window.
type Config struct {
	MaxRequests int
	Window      time.Duration
}

// Result is the outcome of one check.
type Result struct {
	Success   bool      `json:"success"`
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"resetAt"`
}

// RetryAfter is the time left until the window resets, rounded up to a
// whole second and never below one second.
func (r Result) RetryAfter(now time.Time) time.Duration {
	d := r.ResetAt.Sub(now)
	if d <= 0 {
		return time.Second
	}
	return (d + time.Second - 1).Truncate(time.Second)
}

// Policy names a fixed throttling profile.
type Policy string

const (
	PolicyAPI        Policy = "api"
	PolicySignup     Policy = "signup" // account signup, served by the auth layer
	PolicyDraftStore Policy = "draftStore"
	PolicyCheckout   Policy = "checkout"
)

// Policies maps each policy to its window.
var Policies = map[Policy]Config{
	PolicyAPI:        {MaxRequests: 60, Window: time.Minute},
	PolicySignup:     {MaxRequests: 3, Window: time.Hour},
	PolicyDraftStore: {MaxRequests: 10, Window: time.Hour},
	PolicyCheckout:   {MaxRequests: 20, Window: time.Hour},
}

// UnknownClient is the shared bucket for requests without a client address.
const UnknownClient = "unknown"

// Limiter applies fixed-window limits over a Store.
type Limiter struct {
	store Store
	now   func() time.Time

	// mu serializes read-modify-write against the store within this process.
	mu sync.Mutex
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// New creates a limiter. A nil store gets an in-memory one.
func New(store Store, opts ...Option) *Limiter {
	if store == nil {
		store = NewMemoryStore()
	}
	l := &Limiter{store: store, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Check counts one request for identifier against cfg.
func (l *Limiter) Check(identifier string, cfg Config) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.store.Get(identifier)
	if !ok || entry.ResetAt.Before(now) {
		entry = Entry{Count: 1, ResetAt: now.Add(cfg.Window)}
		l.store.Set(identifier, entry)
		return Result{Success: true, Limit: cfg.MaxRequests, Remaining: cfg.MaxRequests - 1, ResetAt: entry.ResetAt}
	}

	entry.Count++
	l.store.Set(identifier, entry)

	if entry.Count > cfg.MaxRequests {
		return Result{Success: false, Limit: cfg.MaxRequests, Remaining: 0, ResetAt: entry.ResetAt}
	}
	return Result{Success: true, Limit: cfg.MaxRequests, Remaining: cfg.MaxRequests - entry.Count, ResetAt: entry.ResetAt}
}

// CheckPolicy checks identifier against a named policy. Each policy counts
// in its own bucket. Unknown policies fall back to the api policy.
func (l *Limiter) CheckPolicy(policy Policy, identifier string) Result {
	cfg, ok := Policies[policy]
	if !ok {
		cfg = Policies[PolicyAPI]
	}
	return l.Check(string(policy)+":"+identifier, cfg)
}

// Sweep evicts expired windows and returns how many were removed.
func (l *Limiter) Sweep() int {
	return l.store.Sweep(l.now())
}

// ClientIdentifier derives the throttling key for r: the first
// X-Forwarded-For entry, then X-Real-IP, then UnknownClient. All clients
// without either header share one bucket.
func ClientIdentifier(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	return UnknownClient
}
