package handlers

import (
	"github.com/jhanna0/links/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) SetupRouter(floodLimiter *services.IPRateLimiter, tieredLimiter *services.TieredLimiter) *gin.Engine {
	r := gin.Default()

	if floodLimiter != nil {
		r.Use(h.RateLimitMiddleware(floodLimiter))
	}
	r.Use(h.AccessKeyTier())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	r.POST("/add", h.tieredLimit(tieredLimiter, services.BucketPostMinute, services.BucketPostDay), h.AddLink)
	r.POST("/create-private-page", h.tieredLimit(tieredLimiter, services.BucketPrivateCreate), h.CreatePrivatePage)
	r.POST("/verify-password", h.tieredLimit(tieredLimiter, services.BucketVerify), h.VerifyPassword)

	api := r.Group("/api")
	{
		api.GET("/retrieve-key", h.tieredLimit(tieredLimiter, services.BucketKeyRecovery, services.BucketKeyRecoveryDay), h.RetrieveKey)
		api.POST("/verify-key", h.tieredLimit(tieredLimiter, services.BucketKeyRecovery, services.BucketKeyRecoveryDay), h.VerifyKey)
		api.POST("/payments/confirm", h.ConfirmPayment)
		api.GET("/:pagename/new", h.NewEntries)
	}

	// Catch-all page views
	r.GET("/:pagename", h.tieredLimit(tieredLimiter, services.BucketReadDay), h.ShowPage)
	r.GET("/:pagename/qr", h.PageQR)

	return r
}
