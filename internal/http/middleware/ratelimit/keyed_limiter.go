package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Config holds KeyedLimiter settings.
type Config struct {
	Rate       float64       // requests per second per key
	Burst      int           // bucket capacity
	TTL        time.Duration // idle buckets are dropped after TTL, 0 keeps them
	MaxBuckets int           // new keys are refused past this size, 0 is unbounded
}

// KeyedLimiter keeps one token bucket per key.
type KeyedLimiter struct {
	cfg   Config
	clock Clock

	mu          sync.Mutex
	buckets     map[string]*entry
	lastCleanup time.Time
}

type entry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewKeyedLimiter creates a limiter. A nil clock means wall time.
func NewKeyedLimiter(clock Clock, cfg Config) *KeyedLimiter {
	if clock == nil {
		clock = RealClock{}
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.MaxBuckets < 0 {
		cfg.MaxBuckets = 0
	}
	return &KeyedLimiter{
		cfg:     cfg,
		clock:   clock,
		buckets: make(map[string]*entry),
	}
}

// Allow reports whether one more request for key may proceed now.
func (l *KeyedLimiter) Allow(key string) bool {
	now := l.clock.Now()

	l.mu.Lock()
	l.cleanupLocked(now)
	e, ok := l.buckets[key]
	if !ok {
		if l.cfg.MaxBuckets > 0 && len(l.buckets) >= l.cfg.MaxBuckets {
			l.mu.Unlock()
			return false
		}
		e = &entry{lim: rate.NewLimiter(rate.Limit(l.cfg.Rate), l.cfg.Burst)}
		l.buckets[key] = e
	}
	e.lastSeen = now
	l.mu.Unlock()

	return e.lim.AllowN(now, 1)
}

// Len returns the number of live buckets.
func (l *KeyedLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *KeyedLimiter) cleanupLocked(now time.Time) {
	if l.cfg.TTL <= 0 {
		return
	}
	interval := time.Minute
	if half := l.cfg.TTL / 2; half > interval {
		interval = half
	}
	if !l.lastCleanup.IsZero() && now.Sub(l.lastCleanup) < interval {
		return
	}
	l.lastCleanup = now

	for k, e := range l.buckets {
		if now.Sub(e.lastSeen) > l.cfg.TTL {
			delete(l.buckets, k)
		}
	}
}
