package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/jhanna0/links/internal/services"

	"github.com/gin-gonic/gin"
)

const authCookieMaxAge = int(services.DefaultTokenTTL / time.Second)

type VerifyPasswordRequest struct {
	PageName string `form:"pagename" json:"pagename" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// CreatePrivatePage handles POST /create-private-page. The plaintext
// passwords in the response are shown exactly once; only hashes survive.
func (h *Handler) CreatePrivatePage(c *gin.Context) {
	creds, err := h.pageService.CreatePrivatePage(c.Request.Context(), c.ClientIP())
	if err != nil {
		if errors.Is(err, services.ErrNameExhausted) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate a unique page name, please try again."})
			return
		}
		h.logger.Error("Failed to create private page", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"pageName":        creds.PageName,
		"postingPassword": creds.PostingPassword,
		"viewingPassword": creds.ViewingPassword,
	})
}

// VerifyPassword handles POST /verify-password. A successful check issues
// a fresh signed token as an HTTP-only cookie scoped to the page's auth
// namespace; the token is the whole session.
func (h *Handler) VerifyPassword(c *gin.Context) {
	var req VerifyPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Page name and password are required."})
		return
	}

	token, err := h.authService.VerifyPagePassword(c.Request.Context(), req.PageName, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPageNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Page not found"})
		case errors.Is(err, services.ErrInvalidPassword):
			h.auditService.LogAction("VERIFY_PASSWORD_FAILED", req.PageName, nil, c.ClientIP())
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password."})
		default:
			h.logger.Error("Password verification failed", "page", req.PageName, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.SetCookie(authCookieName(req.PageName), token, authCookieMaxAge, "/", "", h.secureCookies(), true)
	h.auditService.LogAction("VERIFY_PASSWORD", req.PageName, nil, c.ClientIP())

	c.JSON(http.StatusOK, gin.H{"success": true, "redirect": "/" + req.PageName})
}
