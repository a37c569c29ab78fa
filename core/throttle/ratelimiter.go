package throttle

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// RequestLimiter keeps one token bucket of requests per key.
type RequestLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewRequestLimiter returns a limiter allowing cfg.RequestsPerSecond per
// key. A zero rate disables it.
func NewRequestLimiter(cfg Config) *RequestLimiter {
	limit := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond <= 0 {
		limit = rate.Inf
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = max(1, int(cfg.RequestsPerSecond))
	}
	return &RequestLimiter{
		limit:    limit,
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Allow reports whether a request for key may proceed now.
func (l *RequestLimiter) Allow(key string) bool {
	return l.get(key).Allow()
}

// Wait blocks until a request for key may proceed or ctx is done.
func (l *RequestLimiter) Wait(ctx context.Context, key string) error {
	return l.get(key).Wait(ctx)
}

// get retrieves or creates the limiter for key.
func (l *RequestLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, ok := l.limiters[key]; ok {
		return limiter
	}
	limiter := rate.NewLimiter(l.limit, l.burst)
	l.limiters[key] = limiter
	return limiter
}
