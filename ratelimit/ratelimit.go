/* ratelimit.go
 * Contains a keyed token bucket limiter. The bot keys it by Discord user id and the web server by client IP.
 * Idle keys are pruned once the map grows past a threshold
 * Authors: Zachary Bower
 */

package ratelimit

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// pruneThreshold is the number of keys above which idle entries are removed
	pruneThreshold = 500
	maxIdleAge     = 10 * time.Minute
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter hands out one token bucket per key
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	r       rate.Limit
	b       int
	now     func() time.Time
}

// New creates a limiter allowing r events per second per key with bursts of b
func New(r rate.Limit, b int) *Limiter {
	return &Limiter{
		entries: make(map[string]*entry),
		r:       r,
		b:       b,
		now:     time.Now,
	}
}

// Allow reports whether an event for key may happen now and consumes a token if so
func (l *Limiter) Allow(key string) bool {
	return l.get(key).AllowN(l.now(), 1)
}

// Len returns the number of tracked keys
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *Limiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.entries) > pruneThreshold {
		cutoff := now.Add(-maxIdleAge)
		for k, e := range l.entries {
			if e.lastSeen.Before(cutoff) {
				delete(l.entries, k)
			}
		}
	}

	e, ok := l.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.r, l.b)}
		l.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter
}

// Middleware rejects requests with 429 once the client IP runs out of tokens
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !l.Allow(ip) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
