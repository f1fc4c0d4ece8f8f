package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	lim  *rate.Limiter
	seen time.Time
}

// Limiter keeps one token bucket per key (usually the client address).
type Limiter struct {
	mu    sync.Mutex
	m     map[string]*visitor
	rps   rate.Limit
	burst int
	idle  time.Duration
	now   func() time.Time
}

// New creates a limiter allowing rps requests per second per key with the
// given burst. Buckets unused for longer than idle are dropped by Sweep.
func New(rps float64, burst int, idle time.Duration) *Limiter {
	if burst < 1 {
		burst = 1
	}
	if idle <= 0 {
		idle = 10 * time.Minute
	}
	return &Limiter{
		m:     make(map[string]*visitor),
		rps:   rate.Limit(rps),
		burst: burst,
		idle:  idle,
		now:   time.Now,
	}
}

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	v, ok := l.m[key]
	if !ok {
		v = &visitor{lim: rate.NewLimiter(l.rps, l.burst)}
		l.m[key] = v
	}
	v.seen = now
	l.mu.Unlock()
	return v.lim.AllowN(now, 1)
}

// Sweep drops idle buckets and reports how many were removed.
func (l *Limiter) Sweep() int {
	cutoff := l.now().Add(-l.idle)
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for k, v := range l.m {
		if v.seen.Before(cutoff) {
			delete(l.m, k)
			n++
		}
	}
	return n
}

// Len is the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}
