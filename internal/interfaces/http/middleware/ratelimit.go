package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/savedeities/contribute/internal/infrastructure/ratelimit"
	"github.com/savedeities/contribute/internal/shared/logger"
	"github.com/savedeities/contribute/internal/shared/utils"
)

const rateLimitCheckTimeout = 500 * time.Millisecond

// RateLimiter throttles requests per client IP. Shared through Redis, so
// the limit holds across instances.
type RateLimiter struct {
	limiter ratelimit.RateLimiter
	logger  logger.Interface
}

func NewRateLimiter(limiter ratelimit.RateLimiter, log logger.Interface) *RateLimiter {
	return &RateLimiter{limiter: limiter, logger: log}
}

// Limit returns a Gin middleware that enforces the limit. When the limiter
// cannot be reached the request is allowed.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), rateLimitCheckTimeout)
		defer cancel()

		key := "ip:" + c.ClientIP()
		allowed, err := rl.limiter.Allow(ctx, key)
		if err != nil {
			rl.logger.Warnw("rate limiter unavailable, allowing request", "client_ip", c.ClientIP(), "error", err)
			c.Next()
			return
		}

		if !allowed {
			rl.logger.Infow("rate limit exceeded", "client_ip", c.ClientIP(), "path", c.Request.URL.Path)
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
