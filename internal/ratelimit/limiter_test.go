package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abdoElHodaky/tradsys-clob/internal/config"
)

func TestLimiterBurstThenLimited(t *testing.T) {
	l := New(config.RateLimitConfig{RequestsPerSecond: 1, Burst: 2})

	assert.True(t, l.Allow("acct-1"))
	assert.True(t, l.Allow("acct-1"))
	assert.False(t, l.Allow("acct-1"))
}

func TestLimiterPerAccountIndependence(t *testing.T) {
	l := New(config.RateLimitConfig{RequestsPerSecond: 1, Burst: 1})

	assert.True(t, l.Allow("acct-1"))
	assert.False(t, l.Allow("acct-1"))
	assert.True(t, l.Allow("acct-2"))
}
