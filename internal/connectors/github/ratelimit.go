package github

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/branchseek/branchseek/internal/core/domain"
)

const (
	// AuthenticatedRateLimit is the authenticated quota (5000/hour).
	AuthenticatedRateLimit = 5000

	// UnauthenticatedRateLimit is the anonymous quota (60/hour).
	UnauthenticatedRateLimit = 60

	// ProactiveRate is the proactive throttle rate (~1.2 req/sec).
	ProactiveRate = 1.2

	// HeaderRateLimit is the rate limit header.
	HeaderRateLimit = "X-RateLimit-Limit"

	// HeaderRateRemaining is the remaining requests header.
	HeaderRateRemaining = "X-RateLimit-Remaining"

	// HeaderRateReset is the reset timestamp header (Unix seconds).
	HeaderRateReset = "X-RateLimit-Reset"
)

// RateLimiter combines proactive token-bucket throttling with reactive
// quota telemetry decoded from the API's response headers.
type RateLimiter struct {
	mu        sync.Mutex
	remaining int
	limit     int
	resetTime time.Time
	bucket    *rate.Limiter
}

// NewRateLimiter creates a rate limiter sized for the given credential.
func NewRateLimiter(authenticated bool) *RateLimiter {
	limit := AuthenticatedRateLimit
	if !authenticated {
		limit = UnauthenticatedRateLimit
	}
	return &RateLimiter{
		remaining: limit, // Assume full quota until headers say otherwise
		limit:     limit,
		bucket:    rate.NewLimiter(rate.Limit(ProactiveRate), 1),
	}
}

// Wait blocks until it's safe to make a request. It never waits out a
// quota reset on its own; exhausted quotas surface as errors so the
// caller keeps retry policy.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.bucket.Wait(ctx)
}

// UpdateFromResponse updates quota telemetry from response headers.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if remaining := resp.Header.Get(HeaderRateRemaining); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			r.remaining = val
		}
	}

	if limit := resp.Header.Get(HeaderRateLimit); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil {
			r.limit = val
		}
	}

	if reset := resp.Header.Get(HeaderRateReset); reset != "" {
		if val, err := strconv.ParseInt(reset, 10, 64); err == nil {
			r.resetTime = time.Unix(val, 0)
		}
	}
}

// Quota returns the latest observed rate-limit snapshot.
func (r *RateLimiter) Quota() domain.RateQuota {
	r.mu.Lock()
	defer r.mu.Unlock()
	return domain.RateQuota{
		Remaining: r.remaining,
		Limit:     r.limit,
		ResetAt:   r.resetTime,
	}
}
