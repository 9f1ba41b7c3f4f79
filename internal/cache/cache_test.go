package cache

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insighthire/insighthire-backend/internal/monitoring"
)

func TestCache_SetGetExpiry(t *testing.T) {
	c := NewCache(50 * time.Millisecond)

	c.Set("key", []byte("value"))

	data, found := c.Get("key")
	require.True(t, found)
	assert.Equal(t, []byte("value"), data)

	time.Sleep(60 * time.Millisecond)

	_, found = c.Get("key")
	assert.False(t, found)
}

func TestCache_InvalidatePrefix(t *testing.T) {
	c := NewCache(time.Minute)

	c.Set("/api/roles?", []byte("list"))
	c.Set("/api/roles/abc?", []byte("one"))
	c.Set("/api/analytics/trends?", []byte("trends"))

	c.InvalidatePrefix("/api/roles")

	_, found := c.Get("/api/roles?")
	assert.False(t, found)
	_, found = c.Get("/api/roles/abc?")
	assert.False(t, found)
	_, found = c.Get("/api/analytics/trends?")
	assert.True(t, found)
}

func TestCache_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c := NewCache(time.Minute)
	metrics := monitoring.NewMetrics()
	logger := monitoring.NewLogger()

	calls := 0
	r := gin.New()
	r.Use(c.Middleware(metrics, logger, "/api/analytics"))
	r.GET("/api/analytics/trends", func(ctx *gin.Context) {
		calls++
		ctx.JSON(http.StatusOK, gin.H{"points": calls})
	})
	r.GET("/api/sessions/1", func(ctx *gin.Context) {
		calls++
		ctx.JSON(http.StatusOK, gin.H{"id": "1"})
	})

	// First hit populates the cache, second is served from it.
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/analytics/trends", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"points":1}`, w.Body.String())
	}
	assert.Equal(t, 1, calls)

	// Paths outside the prefixes bypass the cache entirely.
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/sessions/1", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, 3, calls)
}
