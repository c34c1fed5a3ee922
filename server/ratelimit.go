package server

import (
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/fulldump/minipay/logging"
)

const (
	limiterIdleTimeout = 3 * time.Minute
	maxLimiters        = 10_000
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	mutex     sync.Mutex
	limiters  map[string]*limiterEntry
	overflow  *rate.Limiter
	lastSweep time.Time
	now       func() time.Time
	rate      rate.Limit
	burst     int
}

func newRateLimiter(rps float64, burst int) *rateLimiter {
	return &rateLimiter{
		limiters:  map[string]*limiterEntry{},
		overflow:  rate.NewLimiter(rate.Limit(rps), burst),
		lastSweep: time.Now(),
		now:       time.Now,
		rate:      rate.Limit(rps),
		burst:     burst,
	}
}

// get returns the limiter of key. Clients idle for longer than
// limiterIdleTimeout are forgotten; once maxLimiters clients are tracked,
// new ones share a single limiter.
func (rl *rateLimiter) get(key string) *rate.Limiter {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) > limiterIdleTimeout {
		rl.sweep(now)
	}

	entry, exists := rl.limiters[key]
	if !exists {
		if len(rl.limiters) >= maxLimiters {
			rl.sweep(now)
		}
		if len(rl.limiters) >= maxLimiters {
			return rl.overflow
		}
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = entry
	}
	entry.lastSeen = now

	return entry.limiter
}

func (rl *rateLimiter) sweep(now time.Time) {
	for key, entry := range rl.limiters {
		if now.Sub(entry.lastSeen) > limiterIdleTimeout {
			delete(rl.limiters, key)
		}
	}
	rl.lastSweep = now
}

// clientKey is the peer address without port. X-Forwarded-For is ignored,
// any client can set it.
func clientKey(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

// RateLimit allows each client rps requests per second with bursts of up to
// burst requests. A non positive rps disables the limit.
func RateLimit(rps float64, burst int) Step {

	if rps <= 0 {
		return Normal(func(r *Request, w *Response, next Next) error {
			next(nil)
			return nil
		})
	}

	if burst < 1 {
		burst = 1
	}

	logger := logging.New("RateLimit")
	rl := newRateLimiter(rps, burst)

	return Normal(func(r *Request, w *Response, next Next) error {

		key := clientKey(r.RemoteAddr)
		if !rl.get(key).Allow() {
			logger.WithField("key", key).
				WithField("method", r.Method).
				WithField("path", r.URL.Path).
				Warn("Rate limit exceeded")
			return TooManyRequests("Too Many Requests")
		}

		next(nil)
		return nil
	})
}
