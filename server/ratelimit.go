package server

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

// clientLimiter keeps one token bucket per client address
type clientLimiter struct {
	perMinute int

	mu      sync.Mutex
	clients map[string]*limiterEntry
	now     func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// newClientLimiter returns a limiter; perMinute <= 0 disables limiting
func newClientLimiter(perMinute int) *clientLimiter {
	return &clientLimiter{
		perMinute: perMinute,
		clients:   make(map[string]*limiterEntry),
		now:       time.Now,
	}
}

// Allow reports whether the client may make a request now
func (l *clientLimiter) Allow(client string) bool {
	if l == nil || l.perMinute <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.clients[client]
	if !ok {
		burst := l.perMinute / 10
		if burst < 1 {
			burst = 1
		}
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMinute)), burst)}
		l.clients[client] = entry
	}
	entry.lastSeen = now
	l.evictLocked(now)
	return entry.limiter.AllowN(now, 1)
}

func (l *clientLimiter) evictLocked(now time.Time) {
	for client, entry := range l.clients {
		if now.Sub(entry.lastSeen) > limiterIdleTTL {
			delete(l.clients, client)
		}
	}
}
