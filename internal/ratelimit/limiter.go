package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"golang.org/x/time/rate"

	"github.com/insighthire/insighthire-backend/internal/monitoring"
)

// Config holds rate limiter configuration
type Config struct {
	IPLimitPerMin   int // IP-based rate limit per minute
	BurstMultiplier int // Burst capacity multiplier
}

// DefaultConfig returns default rate limiting configuration
func DefaultConfig() Config {
	return Config{
		IPLimitPerMin:   60,
		BurstMultiplier: 2,
	}
}

// Result represents the result of a rate limit check
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// RateLimiter provides distributed rate limiting with Redis and an
// in-memory fallback when Redis is unavailable.
type RateLimiter struct {
	redisLimiter *redis_rate.Limiter
	redisClient  *RedisClient
	config       Config
	metrics      *monitoring.Metrics

	fallbackLimiters map[string]*rate.Limiter
	fallbackMutex    sync.RWMutex
}

// NewRateLimiter creates a new rate limiter with Redis and in-memory fallback
func NewRateLimiter(redisClient *RedisClient, config Config, metrics *monitoring.Metrics) *RateLimiter {
	rl := &RateLimiter{
		redisClient:      redisClient,
		config:           config,
		metrics:          metrics,
		fallbackLimiters: make(map[string]*rate.Limiter),
	}

	if redisClient.Enabled() {
		rl.redisLimiter = redis_rate.NewLimiter(redisClient.Client())
	}

	return rl
}

// AllowIP checks whether a request from the given IP may proceed.
func (rl *RateLimiter) AllowIP(ctx context.Context, ip string) Result {
	if rl.redisLimiter != nil {
		res, err := rl.redisLimiter.Allow(ctx, "ip:"+ip, redis_rate.PerMinute(rl.config.IPLimitPerMin))
		if err == nil {
			return Result{
				Allowed:    res.Allowed > 0,
				Limit:      rl.config.IPLimitPerMin,
				Remaining:  res.Remaining,
				RetryAfter: res.RetryAfter,
			}
		}
		rl.metrics.IncrementRateLimitRedisError()
	}

	return rl.allowFallback(ip)
}

// allowFallback uses per-key token buckets when Redis is unavailable.
func (rl *RateLimiter) allowFallback(key string) Result {
	rl.metrics.IncrementRateLimitFallback()

	rl.fallbackMutex.RLock()
	limiter, exists := rl.fallbackLimiters[key]
	rl.fallbackMutex.RUnlock()

	if !exists {
		rl.fallbackMutex.Lock()
		limiter, exists = rl.fallbackLimiters[key]
		if !exists {
			perSecond := rate.Limit(float64(rl.config.IPLimitPerMin) / 60.0)
			limiter = rate.NewLimiter(perSecond, rl.config.IPLimitPerMin*rl.config.BurstMultiplier/60+1)
			rl.fallbackLimiters[key] = limiter
		}
		rl.fallbackMutex.Unlock()
	}

	if limiter.Allow() {
		return Result{Allowed: true, Limit: rl.config.IPLimitPerMin, Remaining: -1}
	}

	return Result{
		Allowed:    false,
		Limit:      rl.config.IPLimitPerMin,
		RetryAfter: time.Second,
	}
}
