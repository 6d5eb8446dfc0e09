package handlers

import (
	"log/slog"

	"github.com/jhanna0/links/internal/config"
	"github.com/jhanna0/links/internal/services"

	"gorm.io/gorm"
)

type Handler struct {
	cfg              config.Config
	logger           *slog.Logger
	db               *gorm.DB
	pageService      *services.PageService
	authService      *services.AuthService
	accessKeyService *services.AccessKeyService
	auditService     *services.AuditService
	qrService        *services.QRService
}

func NewHandler(
	cfg config.Config,
	logger *slog.Logger,
	db *gorm.DB,
	pageService *services.PageService,
	authService *services.AuthService,
	accessKeyService *services.AccessKeyService,
	auditService *services.AuditService,
	qrService *services.QRService,
) *Handler {
	return &Handler{
		cfg:              cfg,
		logger:           logger,
		db:               db,
		pageService:      pageService,
		authService:      authService,
		accessKeyService: accessKeyService,
		auditService:     auditService,
		qrService:        qrService,
	}
}
