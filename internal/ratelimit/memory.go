package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter is a per-key token bucket refilling Max tokens per Window.
// It only limits within one process.
type MemoryLimiter struct {
	config Config
	now    func() time.Time

	mu       sync.Mutex
	visitors map[string]*visitor
}

func NewMemoryLimiter(config Config) *MemoryLimiter {
	return &MemoryLimiter{
		config:   config.withDefaults(),
		now:      time.Now,
		visitors: make(map[string]*visitor),
	}
}

func (m *MemoryLimiter) get(key string, now time.Time) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	// idle buckets are full again, drop them
	for k, v := range m.visitors {
		if now.Sub(v.lastSeen) > m.config.Window {
			delete(m.visitors, k)
		}
	}

	v, ok := m.visitors[key]
	if !ok {
		every := m.config.Window / time.Duration(m.config.Max)
		v = &visitor{limiter: rate.NewLimiter(rate.Every(every), m.config.Max)}
		m.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter
}

// Allow implements Limiter
func (m *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := m.now()
	lim := m.get(key, now)

	r := lim.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return Decision{Allowed: false, Limit: m.config.Max, RetryAfter: delay}, nil
	}

	remaining := int(lim.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Allowed: true, Limit: m.config.Max, Remaining: remaining}, nil
}
