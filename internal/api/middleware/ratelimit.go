package middleware

import (
	"IQNet/internal/api/config"
	"IQNet/internal/pkg/response"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter 按用户（未登录按 IP）划分的令牌桶
type RateLimiter struct {
	rps      rate.Limit
	burst    int
	ttl      time.Duration
	mu       sync.Mutex
	visitors map[string]*visitor
	lookups  uint64
}

func NewRateLimiter(cfg *config.RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		rps:      rate.Limit(10),
		burst:    20,
		ttl:      10 * time.Minute,
		visitors: make(map[string]*visitor),
	}
	if cfg != nil {
		if cfg.RPS > 0 {
			rl.rps = rate.Limit(cfg.RPS)
		}
		if cfg.Burst > 0 {
			rl.burst = cfg.Burst
		}
		if cfg.TTLMinutes > 0 {
			rl.ttl = time.Duration(cfg.TTLMinutes) * time.Minute
		}
	}
	return rl
}

func visitorKey(c *gin.Context) string {
	if userID := c.GetUint64("user_id"); userID != 0 {
		return "user:" + strconv.FormatUint(userID, 10)
	}
	return "ip:" + c.ClientIP()
}

// get 每 1000 次查找顺带清理一次空闲的桶
func (rl *RateLimiter) get(key string) *rate.Limiter {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.lookups++
	if rl.lookups >= 1000 {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) >= rl.ttl {
				delete(rl.visitors, k)
			}
		}
		rl.lookups = 0
	}

	if v, ok := rl.visitors[key]; ok {
		v.lastSeen = now
		return v.limiter
	}
	lim := rate.NewLimiter(rl.rps, rl.burst)
	rl.visitors[key] = &visitor{limiter: lim, lastSeen: now}
	return lim
}

func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.get(visitorKey(c)).Allow() {
			c.Next()
			return
		}
		c.Header("Retry-After", "1")
		response.Fail(c, response.TooManyRequests, "请求过于频繁")
		c.Abort()
	}
}
