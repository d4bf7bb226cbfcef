package source

import (
	"context"
	"sync"
	"time"
)

// DefaultRequestsPerMinute is the politeness limit for remote hosts.
const DefaultRequestsPerMinute = 120

// RateLimiter is a token bucket shared by every outbound request of a run.
// A 429 response pauses the bucket for the server's Retry-After.
type RateLimiter struct {
	mu sync.Mutex

	perMinute   int
	tokens      float64
	lastRefill  time.Time
	pausedUntil time.Time

	// Statistics
	granted   int64
	waited    time.Duration
	throttled int64
}

// RateLimiterStatus reports current limiter state.
type RateLimiterStatus struct {
	RequestsPerMinute int           `json:"requests_per_minute" yaml:"requests_per_minute"`
	TokensAvailable   int           `json:"tokens_available" yaml:"tokens_available"`
	Granted           int64         `json:"granted" yaml:"granted"`
	Waited            time.Duration `json:"waited" yaml:"waited"`
	Throttled         int64         `json:"throttled" yaml:"throttled"`
	PausedUntil       time.Time     `json:"paused_until,omitempty" yaml:"paused_until,omitempty"`
}

// NewRateLimiter creates a limiter with a full bucket.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = DefaultRequestsPerMinute
	}
	return &RateLimiter{
		perMinute:  requestsPerMinute,
		tokens:     float64(requestsPerMinute),
		lastRefill: time.Now(),
	}
}

// Wait blocks until a token is available or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		r.mu.Lock()
		now := time.Now()
		r.refill(now)

		var wait time.Duration
		switch {
		case now.Before(r.pausedUntil):
			wait = r.pausedUntil.Sub(now)
		case r.tokens >= 1:
			r.tokens--
			r.granted++
			r.mu.Unlock()
			return nil
		default:
			wait = r.timeUntilToken()
		}
		r.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			r.mu.Lock()
			r.waited += wait
			r.mu.Unlock()
		}
	}
}

// Backoff drains the bucket after a 429 and, when retryAfter is positive,
// pauses all requests for that long.
func (r *RateLimiter) Backoff(retryAfter time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.throttled++
	r.tokens = 0
	if retryAfter > 0 {
		if until := now.Add(retryAfter); until.After(r.pausedUntil) {
			r.pausedUntil = until
		}
	}
}

// Status returns current limiter state.
func (r *RateLimiter) Status() RateLimiterStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.refill(now)

	s := RateLimiterStatus{
		RequestsPerMinute: r.perMinute,
		TokensAvailable:   int(r.tokens),
		Granted:           r.granted,
		Waited:            r.waited,
		Throttled:         r.throttled,
	}
	if now.Before(r.pausedUntil) {
		s.PausedUntil = r.pausedUntil
	}
	return s
}

// refill adds tokens for elapsed time. Must be called with lock held.
func (r *RateLimiter) refill(now time.Time) {
	elapsed := now.Sub(r.lastRefill).Seconds()
	r.lastRefill = now

	r.tokens += elapsed * r.perSecond()
	if r.tokens > float64(r.perMinute) {
		r.tokens = float64(r.perMinute)
	}
}

func (r *RateLimiter) perSecond() float64 {
	return float64(r.perMinute) / 60.0
}

// timeUntilToken must be called with lock held.
func (r *RateLimiter) timeUntilToken() time.Duration {
	if r.tokens >= 1 {
		return 0
	}
	return time.Duration((1 - r.tokens) / r.perSecond() * float64(time.Second))
}
