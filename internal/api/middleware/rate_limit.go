package middleware

import (
	"math"
	"strconv"
	"time"

	"fridge-planner/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter 令牌桶限流器：window 內最多 requests 個請求
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter 創建新的限流器
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	if requests <= 0 {
		requests = 1
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Every(window/time.Duration(requests)), requests),
	}
}

// Allow 檢查是否允許請求
func (rl *RateLimiter) Allow() bool {
	return rl.limiter.Allow()
}

// Reserve 嘗試取得令牌；被拒時回傳需等待的時間
func (rl *RateLimiter) Reserve(now time.Time) (time.Duration, bool) {
	r := rl.limiter.ReserveN(now, 1)
	if !r.OK() {
		return 0, false
	}
	delay := r.DelayFrom(now)
	if delay > 0 {
		r.CancelAt(now)
		return delay, false
	}
	return 0, true
}

// RateLimit 限流中間件
func RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	limiter := NewRateLimiter(requests, window)

	return func(c *gin.Context) {
		wait, ok := limiter.Reserve(time.Now())
		if !ok {
			common.LogInfo("Rate limit exceeded",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
				zap.Duration("retry_after", wait),
			)

			c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(wait)))
			ce := common.ErrTooManyRequests
			c.AbortWithStatusJSON(ce.Status, ce.ToResponse(false, requestid.Get(c)))
			return
		}

		c.Next()
	}
}

func retryAfterSeconds(wait time.Duration) int {
	return max(1, int(math.Ceil(wait.Seconds())))
}
