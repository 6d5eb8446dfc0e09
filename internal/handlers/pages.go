package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/jhanna0/links/internal/models"
	"github.com/jhanna0/links/internal/services"
	"github.com/jhanna0/links/internal/validation"

	"github.com/gin-gonic/gin"
)

type AddLinkRequest struct {
	Page        string `form:"page" json:"page"`
	Link        string `form:"link" json:"link"`
	Description string `form:"description" json:"description"`
}

type entryView struct {
	Link        string `json:"link"`
	Description string `json:"description"`
}

func entryViews(entries []models.Entry) []entryView {
	views := make([]entryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, entryView{Link: e.Link, Description: e.Description})
	}
	return views
}

func authCookieName(page string) string {
	return "auth_" + page
}

// AddLink handles POST /add: validate, authenticate when the page is
// private, then insert idempotently.
func (h *Handler) AddLink(c *gin.Context) {
	var req AddLinkRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if ok, reason := validation.ValidatePageName(req.Page); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": reason})
		return
	}

	link := validation.NormalizeLink(req.Link)
	if ok, reason := validation.ValidateLink(link); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": reason})
		return
	}

	// Description is optional on submission; when present it has to pass
	if req.Description != "" {
		if ok, reason := validation.ValidateDescription(req.Description); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": reason})
			return
		}
	}

	token, _ := c.Cookie(authCookieName(req.Page))
	access, err := h.authService.Resolve(c.Request.Context(), req.Page, token)
	if err != nil {
		if errors.Is(err, services.ErrPageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Page not found"})
			return
		}
		h.logger.Error("Access resolution failed", "page", req.Page, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if !access.CanPost() {
		switch access {
		case services.AccessNoToken:
			c.JSON(http.StatusForbidden, gin.H{"error": "Authentication required to post to this private page."})
		case services.AccessInvalidToken:
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid authentication token."})
		default:
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to post to this page."})
		}
		return
	}

	created, err := h.pageService.AddEntry(c.Request.Context(), req.Page, link, req.Description, c.ClientIP())
	if err != nil {
		h.logger.Error("Failed to insert entry", "page", req.Page, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if !created {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Entry already exists."})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Link added successfully"})
}

// ShowPage handles GET /:pagename. Private pages answer with a password
// prompt marker instead of entries until the caller authenticates.
func (h *Handler) ShowPage(c *gin.Context) {
	page := c.Param("pagename")

	if ok, reason := validation.ValidatePageName(page); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": reason})
		return
	}

	token, _ := c.Cookie(authCookieName(page))
	access, err := h.authService.Resolve(c.Request.Context(), page, token)
	if err != nil {
		if errors.Is(err, services.ErrPageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Page not found"})
			return
		}
		h.logger.Error("Access resolution failed", "page", page, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if !access.CanView() {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":  "Authentication required",
			"prompt": "password_required",
		})
		return
	}

	entries, err := h.pageService.ListEntries(c.Request.Context(), page, 0)
	if err != nil {
		h.logger.Error("Failed to list entries", "page", page, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	accessLevel := "post"
	if access == services.AccessViewOnly {
		accessLevel = "view"
	}

	c.JSON(http.StatusOK, gin.H{
		"page":    page,
		"access":  accessLevel,
		"entries": entryViews(entries),
	})
}

// NewEntries handles GET /api/:pagename/new?offset=N for incremental
// refresh: only the rows past what the client already has, oldest first.
func (h *Handler) NewEntries(c *gin.Context) {
	page := c.Param("pagename")

	if ok, reason := validation.ValidatePageName(page); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": reason})
		return
	}

	token, _ := c.Cookie(authCookieName(page))
	access, err := h.authService.Resolve(c.Request.Context(), page, token)
	if err != nil {
		if errors.Is(err, services.ErrPageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Page not found"})
			return
		}
		h.logger.Error("Access resolution failed", "page", page, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if !access.CanView() {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":  "Authentication required",
			"prompt": "password_required",
		})
		return
	}

	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	entries, err := h.pageService.ListEntries(c.Request.Context(), page, offset)
	if err != nil {
		h.logger.Error("Failed to list entries", "page", page, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entryViews(entries)})
}

// PageQR handles GET /:pagename/qr with the same visibility rules as the
// page itself.
func (h *Handler) PageQR(c *gin.Context) {
	page := c.Param("pagename")

	if ok, reason := validation.ValidatePageName(page); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": reason})
		return
	}

	token, _ := c.Cookie(authCookieName(page))
	access, err := h.authService.Resolve(c.Request.Context(), page, token)
	if err != nil {
		if errors.Is(err, services.ErrPageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Page not found"})
			return
		}
		h.logger.Error("Access resolution failed", "page", page, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !access.CanView() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	size, _ := strconv.Atoi(c.DefaultQuery("size", "256"))
	png, err := h.qrService.GeneratePNG(page, size)
	if err != nil {
		h.logger.Error("Failed to render QR code", "page", page, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
