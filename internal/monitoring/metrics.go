package monitoring

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds application metrics
type Metrics struct {
	RequestCount        int64
	ErrorCount          int64
	CacheHits           int64
	CacheMisses         int64
	ScoringRuns         int64
	ReportsPersisted    int64
	RelayEventsSent     int64
	AverageResponseTime int64 // in nanoseconds
	StartTime           time.Time

	// Status code tracking
	RequestCountByStatus map[int]int64
	StatusMutex          sync.RWMutex

	// Rate limit metrics
	RateLimitIPBlocks      int64
	RateLimitRedisErrors   int64
	RateLimitFallbackCount int64
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime:            time.Now(),
		RequestCountByStatus: make(map[int]int64),
	}
}

// IncrementRequest increments the request count
func (m *Metrics) IncrementRequest() {
	atomic.AddInt64(&m.RequestCount, 1)
}

// IncrementError increments the error count
func (m *Metrics) IncrementError() {
	atomic.AddInt64(&m.ErrorCount, 1)
}

// IncrementCacheHit increments cache hit count
func (m *Metrics) IncrementCacheHit() {
	atomic.AddInt64(&m.CacheHits, 1)
}

// IncrementCacheMiss increments cache miss count
func (m *Metrics) IncrementCacheMiss() {
	atomic.AddInt64(&m.CacheMisses, 1)
}

// IncrementScoringRuns increments the scoring computation count
func (m *Metrics) IncrementScoringRuns() {
	atomic.AddInt64(&m.ScoringRuns, 1)
}

// IncrementReportsPersisted increments the persisted report count
func (m *Metrics) IncrementReportsPersisted() {
	atomic.AddInt64(&m.ReportsPersisted, 1)
}

// IncrementRelayEvents increments the relay broadcast count
func (m *Metrics) IncrementRelayEvents() {
	atomic.AddInt64(&m.RelayEventsSent, 1)
}

// IncrementRateLimitIPBlock increments the IP rate limit block count
func (m *Metrics) IncrementRateLimitIPBlock() {
	atomic.AddInt64(&m.RateLimitIPBlocks, 1)
}

// IncrementRateLimitRedisError increments the Redis limiter error count
func (m *Metrics) IncrementRateLimitRedisError() {
	atomic.AddInt64(&m.RateLimitRedisErrors, 1)
}

// IncrementRateLimitFallback increments the in-memory fallback count
func (m *Metrics) IncrementRateLimitFallback() {
	atomic.AddInt64(&m.RateLimitFallbackCount, 1)
}

// RecordResponseTime updates the running average response time
func (m *Metrics) RecordResponseTime(duration time.Duration) {
	// Simple exponential moving average to avoid unbounded sample storage.
	current := atomic.LoadInt64(&m.AverageResponseTime)
	updated := (current*9 + duration.Nanoseconds()) / 10
	atomic.StoreInt64(&m.AverageResponseTime, updated)
}

// RecordRequestByStatus tracks request counts per status code
func (m *Metrics) RecordRequestByStatus(statusCode int) {
	m.StatusMutex.Lock()
	defer m.StatusMutex.Unlock()
	m.RequestCountByStatus[statusCode]++
}

// GetStats returns a snapshot of all metrics
func (m *Metrics) GetStats() map[string]interface{} {
	m.StatusMutex.RLock()
	byStatus := make(map[int]int64, len(m.RequestCountByStatus))
	for code, count := range m.RequestCountByStatus {
		byStatus[code] = count
	}
	m.StatusMutex.RUnlock()

	return map[string]interface{}{
		"request_count":            atomic.LoadInt64(&m.RequestCount),
		"error_count":              atomic.LoadInt64(&m.ErrorCount),
		"cache_hits":               atomic.LoadInt64(&m.CacheHits),
		"cache_misses":             atomic.LoadInt64(&m.CacheMisses),
		"scoring_runs":             atomic.LoadInt64(&m.ScoringRuns),
		"reports_persisted":        atomic.LoadInt64(&m.ReportsPersisted),
		"relay_events_sent":        atomic.LoadInt64(&m.RelayEventsSent),
		"avg_response_time_ns":     atomic.LoadInt64(&m.AverageResponseTime),
		"requests_by_status":       byStatus,
		"rate_limit_ip_blocks":     atomic.LoadInt64(&m.RateLimitIPBlocks),
		"rate_limit_redis_errors":  atomic.LoadInt64(&m.RateLimitRedisErrors),
		"rate_limit_fallback_hits": atomic.LoadInt64(&m.RateLimitFallbackCount),
		"uptime_seconds":           time.Since(m.StartTime).Seconds(),
	}
}
