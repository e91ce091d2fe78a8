package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yockii/md2docx/internal/constant"
	"github.com/yockii/md2docx/internal/service"
	"github.com/yockii/md2docx/pkg/logger"
)

// RateLimiter 按客户端IP的固定窗口限流器
type RateLimiter struct {
	maxRequests int
	duration    time.Duration
	mu          sync.Mutex
	tokens      map[string]*tokenBucket
	stop        chan struct{}
	stopOnce    sync.Once
}

type tokenBucket struct {
	tokens    int
	lastReset time.Time
}

// NewRateLimiter 创建限流器
func NewRateLimiter(maxRequests int, duration time.Duration) *RateLimiter {
	return &RateLimiter{
		maxRequests: maxRequests,
		duration:    duration,
		tokens:      make(map[string]*tokenBucket),
		stop:        make(chan struct{}),
	}
}

// Handler 限流中间件，需放在鉴权之前，未通过鉴权的请求同样计数
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		clientID := c.IP()

		if !rl.allow(clientID) {
			logger.Warn("rate limit exceeded",
				logger.F("clientId", clientID),
				logger.F("path", c.Path()),
			)
			return c.Status(fiber.StatusTooManyRequests).JSON(service.Error(constant.ErrTooManyRequests))
		}

		return c.Next()
	}
}

// allow 检查是否允许请求
func (rl *RateLimiter) allow(clientID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	bucket, exists := rl.tokens[clientID]

	if !exists {
		// 新客户端，创建令牌桶
		rl.tokens[clientID] = &tokenBucket{
			tokens:    rl.maxRequests - 1, // 减1是因为当前请求
			lastReset: now,
		}
		return rl.maxRequests > 0
	}

	// 检查是否需要重置令牌
	if now.Sub(bucket.lastReset) >= rl.duration {
		bucket.tokens = rl.maxRequests - 1
		bucket.lastReset = now
		return rl.maxRequests > 0
	}

	// 检查令牌是否足够
	if bucket.tokens > 0 {
		bucket.tokens--
		return true
	}

	return false
}

// cleanup 清理过期的令牌桶
func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for clientID, bucket := range rl.tokens {
		if now.Sub(bucket.lastReset) >= rl.duration*2 {
			delete(rl.tokens, clientID)
		}
	}
}

// StartCleanup 启动清理任务，调用Stop后退出
func (rl *RateLimiter) StartCleanup(interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rl.cleanup()
			case <-rl.stop:
				return
			}
		}
	}()
}

// Stop 停止清理任务，可重复调用
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stop)
	})
}
