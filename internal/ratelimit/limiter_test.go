package ratelimit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insighthire/insighthire-backend/internal/monitoring"
)

func newFallbackLimiter(t *testing.T, perMin int) *RateLimiter {
	t.Helper()

	redisClient, err := NewRedisClient("", "", 0)
	require.NoError(t, err)
	require.False(t, redisClient.Enabled())

	cfg := DefaultConfig()
	cfg.IPLimitPerMin = perMin

	return NewRateLimiter(redisClient, cfg, monitoring.NewMetrics())
}

func TestAllowIP_FallbackAllowsWithinBurst(t *testing.T) {
	rl := newFallbackLimiter(t, 60)

	result := rl.AllowIP(context.Background(), "10.0.0.1")

	assert.True(t, result.Allowed)
	assert.Equal(t, 60, result.Limit)
}

func TestAllowIP_FallbackBlocksAfterBurst(t *testing.T) {
	rl := newFallbackLimiter(t, 60)

	blocked := false
	for i := 0; i < 10; i++ {
		if !rl.AllowIP(context.Background(), "10.0.0.2").Allowed {
			blocked = true
			break
		}
	}

	assert.True(t, blocked, "fallback limiter should block once the burst is exhausted")
}

func TestAllowIP_IndependentPerIP(t *testing.T) {
	rl := newFallbackLimiter(t, 60)

	for i := 0; i < 10; i++ {
		rl.AllowIP(context.Background(), "10.0.0.3")
	}

	// Another IP keeps its own token bucket.
	result := rl.AllowIP(context.Background(), "10.0.0.4")
	assert.True(t, result.Allowed)
}
