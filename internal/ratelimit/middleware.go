package ratelimit

import (
	"appointment-ivr/internal/observability"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Middleware limits requests per client IP.
func (s *Service) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := observability.GetRealClientIP(c)
		ctx := observability.WithFields(c.Request.Context(),
			observability.Field{Key: "client_ip", Value: clientIP},
			observability.Field{Key: "rate_limit_rpm", Value: s.limit},
		)

		result, err := s.CheckRateLimit(ctx, clientIP)
		if err != nil {
			s.logger.Error(ctx, "rate limit check failed", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetAt.Unix()))

		if !result.Allowed {
			retryAfter := (result.RetryAfterMs + 999) / 1000
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			s.logger.Warn(ctx, "rate limit exceeded")

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"code":        "RATE_LIMIT_EXCEEDED",
				"limit":       result.Limit,
				"retry_after": retryAfter,
				"reset_at":    result.ResetAt.Unix(),
			})
			return
		}

		c.Next()
	}
}
