package middleware

import (
	"IQNet/internal/api/config"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newLimitedRouter(rl *RateLimiter, userID uint64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != 0 {
			c.Set("user_id", userID)
		}
		c.Next()
	})
	r.Use(rl.Handler())
	r.POST("/w", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRateLimiterPerUser(t *testing.T) {
	rl := NewRateLimiter(&config.RateLimitConfig{RPS: 0.001, Burst: 2})
	alice := newLimitedRouter(rl, 1)
	bob := newLimitedRouter(rl, 2)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		alice.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/w", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	// 不同用户使用不同的桶
	w := httptest.NewRecorder()
	bob.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/w", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiterEvictsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(&config.RateLimitConfig{RPS: 1, Burst: 1})
	rl.ttl = 0
	rl.get("user:1")
	rl.lookups = 999
	rl.get("user:2")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	_, ok := rl.visitors["user:1"]
	assert.False(t, ok)
	_, ok = rl.visitors["user:2"]
	assert.True(t, ok)
}
