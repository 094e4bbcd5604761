// Package ratelimit bounds how often a single account may submit orders,
// independent of the matching engine's own throughput.
package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"

	"github.com/abdoElHodaky/tradsys-clob/internal/config"
)

// Limiter hands out a token-bucket limiter per account, lazily created on
// first use. Accounts never seen before start with a full bucket.
type Limiter struct {
	rps   rate.Limit
	burst int

	mu      sync.Mutex
	perUser map[string]*rate.Limiter
}

// New builds a Limiter from rate-limit config.
func New(cfg config.RateLimitConfig) *Limiter {
	return &Limiter{
		rps:     rate.Limit(cfg.RequestsPerSecond),
		burst:   cfg.Burst,
		perUser: make(map[string]*rate.Limiter),
	}
}

// Allow reports whether accountID may act now, consuming a token if so.
func (l *Limiter) Allow(accountID string) bool {
	return l.limiterFor(accountID).Allow()
}

func (l *Limiter) limiterFor(accountID string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	rl, ok := l.perUser[accountID]
	if !ok {
		rl = rate.NewLimiter(l.rps, l.burst)
		l.perUser[accountID] = rl
	}
	return rl
}
