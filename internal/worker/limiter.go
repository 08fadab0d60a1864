package worker

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Limiter implements per-client token-bucket rate limiting. Buckets idle for
// longer than the idle timeout are evicted.
type Limiter struct {
	buckets      *gocache.Cache
	defaultRate  rate.Limit
	defaultBurst int
	idle         time.Duration
}

// NewLimiter creates a new rate limiter
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}
	idle := 10 * time.Minute
	return &Limiter{
		buckets:      gocache.New(idle, time.Minute),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
		idle:         idle,
	}
}

// Allow reports whether a request from key may proceed now
func (l *Limiter) Allow(key string) bool {
	return l.bucket(key).Allow()
}

// Wait blocks until key may proceed or ctx is done
func (l *Limiter) Wait(ctx context.Context, key string) error {
	return l.bucket(key).Wait(ctx)
}

// SetRate sets a custom rate for one key. The bucket never expires.
func (l *Limiter) SetRate(key string, requestsPerSecond float64, burst int) {
	if burst <= 0 {
		burst = l.defaultBurst
	}
	l.buckets.Set(key, rate.NewLimiter(rate.Limit(requestsPerSecond), burst), gocache.NoExpiration)
}

// Exempt lets key through without limit
func (l *Limiter) Exempt(key string) {
	l.SetRate(key, float64(rate.Inf), 1)
}

// bucket returns the limiter for key, creating it on first use. Every access
// extends the idle deadline of default buckets.
func (l *Limiter) bucket(key string) *rate.Limiter {
	if v, exp, found := l.buckets.GetWithExpiration(key); found {
		lim := v.(*rate.Limiter)
		if !exp.IsZero() {
			l.buckets.Set(key, lim, l.idle)
		}
		return lim
	}

	lim := rate.NewLimiter(l.defaultRate, l.defaultBurst)
	if err := l.buckets.Add(key, lim, l.idle); err != nil {
		// Lost the race to another request; use the bucket it stored.
		if v, found := l.buckets.Get(key); found {
			return v.(*rate.Limiter)
		}
	}
	return lim
}
