package worker

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter gates external credibility evaluations with two tiers: a
// per-caller cap (default 10/minute across all domains) and a per-domain
// cooldown (default 60s between evaluations of the same domain).
type Limiter struct {
	mu       sync.RWMutex
	domains  map[string]*rate.Limiter
	cooldown time.Duration
	caller   *rate.Limiter
}

// NewLimiter creates a limiter allowing perMinute evaluations per caller
// and one evaluation per domain per cooldown
func NewLimiter(perMinute int, cooldown time.Duration) *Limiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	if cooldown <= 0 {
		cooldown = time.Minute
	}

	return &Limiter{
		domains:  make(map[string]*rate.Limiter),
		cooldown: cooldown,
		caller:   rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute),
	}
}

// Wait blocks until both tiers clear the given domain, or ctx is done
func (l *Limiter) Wait(ctx context.Context, domain string) error {
	if err := l.caller.Wait(ctx); err != nil {
		return err
	}
	return l.domainLimiter(domain).Wait(ctx)
}

// Allow reports whether an evaluation of the domain may proceed right now,
// consuming both tiers if so
func (l *Limiter) Allow(domain string) bool {
	if !l.caller.Allow() {
		return false
	}
	return l.domainLimiter(domain).Allow()
}

func (l *Limiter) domainLimiter(domain string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.domains[domain]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, exists := l.domains[domain]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(rate.Every(l.cooldown), 1)
	l.domains[domain] = limiter

	return limiter
}
