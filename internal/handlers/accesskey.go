package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/jhanna0/links/internal/services"
	"github.com/jhanna0/links/pkg/utils"

	"github.com/gin-gonic/gin"
)

const accessKeyCookieMaxAge = int(services.AccessKeyLifetime / time.Second)

type VerifyKeyRequest struct {
	APIKey string `form:"apiKey" json:"apiKey"`
}

type ConfirmPaymentRequest struct {
	Email     string `form:"email" json:"email" binding:"required"`
	SessionID string `form:"session_id" json:"session_id" binding:"required"`
}

// RetrieveKey handles GET /api/retrieve-key?email=. The latest key for the
// hashed email comes back whether or not it has expired, with its status.
func (h *Handler) RetrieveKey(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email required."})
		return
	}

	key, err := h.accessKeyService.Retrieve(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, services.ErrKeyNotFound) {
			c.JSON(http.StatusOK, gin.H{
				"success": false,
				"message": "No API key found.",
				"apiKey":  nil,
				"expired": false,
			})
			return
		}
		h.logger.Error("Failed to retrieve access key", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Error retrieving API Key."})
		return
	}

	message := "API Key is valid."
	if key.Expired() {
		message = "API Key is expired."
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"apiKey":    key.Key,
		"expiresAt": key.ExpiresAt,
		"expired":   key.Expired(),
		"message":   message,
	})
}

// VerifyKey handles POST /api/verify-key.
func (h *Handler) VerifyKey(c *gin.Context) {
	var req VerifyKeyRequest
	if err := c.ShouldBind(&req); err != nil || req.APIKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "API Key required."})
		return
	}

	err := h.accessKeyService.Verify(c.Request.Context(), req.APIKey)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "API Key is valid."})
	case errors.Is(err, services.ErrKeyNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid API Key."})
	case errors.Is(err, services.ErrKeyExpired):
		c.JSON(http.StatusGone, gin.H{"error": "API Key expired."})
	default:
		h.logger.Error("Failed to verify access key", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error verifying API Key."})
	}
}

// ConfirmPayment handles POST /api/payments/confirm — the hook the opaque
// payment provider calls after a successful checkout. The shared provider
// secret is the only authentication; issuance is idempotent per session.
func (h *Handler) ConfirmPayment(c *gin.Context) {
	secret := c.GetHeader("X-Provider-Secret")
	if !utils.SecureCompare(secret, h.cfg.PaymentProviderSecret) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req ConfirmPaymentRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and session_id are required."})
		return
	}

	key, err := h.accessKeyService.Issue(c.Request.Context(), req.Email, req.SessionID)
	if err != nil {
		h.logger.Error("Failed to issue access key", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.auditService.LogAction("ISSUE_KEY", req.SessionID, nil, c.ClientIP())

	// Not HttpOnly: the frontend reads the key to show it to the buyer
	c.SetCookie(accessKeyCookie, key.Key, accessKeyCookieMaxAge, "/", "", h.secureCookies(), false)

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"apiKey":    key.Key,
		"expiresAt": key.ExpiresAt,
	})
}
