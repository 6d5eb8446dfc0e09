package handlers

import (
	"errors"
	"net/http"

	"github.com/jhanna0/links/internal/services"

	"github.com/gin-gonic/gin"
)

// accessKeyCookie carries the elevated-tier credential. The frontend reads
// it, so it is deliberately not HttpOnly.
const accessKeyCookie = "apiKey"

const elevatedKey = "elevated_access"

func (h *Handler) RateLimitMiddleware(limiter *services.IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		l := limiter.GetLimiter(ip)
		if !l.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			return
		}
		c.Next()
	}
}

// AccessKeyTier resolves the caller's rate-limit tier. A valid, unexpired
// access key (cookie or header) marks the request elevated; anything else
// proceeds as baseline. An invalid or expired cookie is cleared.
func (h *Handler) AccessKeyTier() gin.HandlerFunc {
	return func(c *gin.Context) {
		key, _ := c.Cookie(accessKeyCookie)
		fromCookie := key != ""
		if key == "" {
			key = c.GetHeader("X-Access-Key")
		}
		if key == "" {
			c.Next()
			return
		}

		err := h.accessKeyService.Verify(c.Request.Context(), key)
		switch {
		case err == nil:
			c.Set(elevatedKey, true)
		case errors.Is(err, services.ErrKeyNotFound), errors.Is(err, services.ErrKeyExpired):
			if fromCookie {
				c.SetCookie(accessKeyCookie, "", -1, "/", "", h.secureCookies(), false)
			}
		default:
			h.logger.Error("Access key verification failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
			return
		}
		c.Next()
	}
}

// tieredLimit enforces the named buckets in order. The first exhausted
// bucket rejects the request before any validation or write happens.
func (h *Handler) tieredLimit(limiter *services.TieredLimiter, buckets ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		ip := c.ClientIP()
		elevated := c.GetBool(elevatedKey)
		for _, bucket := range buckets {
			if ok, msg := limiter.Allow(bucket, ip, elevated); !ok {
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": msg})
				return
			}
		}
		c.Next()
	}
}

func (h *Handler) secureCookies() bool {
	return h.cfg.AppEnv == "production"
}
