package handlers

import (
	"log/slog"
	"os"
	"testing"

	"github.com/jhanna0/links/internal/config"
	"github.com/jhanna0/links/internal/models"
	"github.com/jhanna0/links/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestHandler(t *testing.T) (*Handler, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Entry{},
		&models.PrivatePage{},
		&models.AccessKey{},
		&models.AuditLog{},
	))

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg := config.Config{
		AppEnv:                "test",
		BaseURL:               "http://localhost:8080",
		TokenSecret:           "test-secret-12345678901234567890",
		PaymentProviderSecret: "test-provider-secret",
	}

	audit := services.NewAuditService(db, logger)
	pages := services.NewPageService(db, audit)
	auth := services.NewAuthService(db, cfg.TokenSecret)
	keys := services.NewAccessKeyService(db, nil, logger)
	qr := services.NewQRService(cfg.BaseURL)

	h := NewHandler(cfg, logger, db, pages, auth, keys, audit, qr)
	return h, db
}

func setupTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return h.SetupRouter(nil, nil)
}

func setupLimitedRouter(h *Handler, buckets map[string]services.BucketConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return h.SetupRouter(nil, services.NewTieredLimiter(buckets, logger))
}
