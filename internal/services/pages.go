package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhanna0/links/internal/models"
	"github.com/jhanna0/links/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	privateNameLength     = 8
	privatePasswordLength = 8
	maxNameAttempts       = 5
)

// PrivatePageCredentials carries the generated plaintext passwords back to
// the creator. This is the only time they exist outside the caller's hands;
// the store keeps hashes only.
type PrivatePageCredentials struct {
	PageName        string `json:"pageName"`
	PostingPassword string `json:"postingPassword"`
	ViewingPassword string `json:"viewingPassword"`
}

type PageService struct {
	db           *gorm.DB
	auditService *AuditService
}

func NewPageService(db *gorm.DB, auditService *AuditService) *PageService {
	return &PageService{
		db:           db,
		auditService: auditService,
	}
}

// AddEntry inserts a link under page. Duplicate (page, link, description)
// triples are absorbed by the unique index: the insert becomes a no-op and
// created is false, with no error. Retried submissions are idempotent.
func (s *PageService) AddEntry(ctx context.Context, page, link, description, clientIP string) (bool, error) {
	entry := models.Entry{
		Page:        page,
		Link:        link,
		Description: description,
	}

	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&entry)
	if result.Error != nil {
		return false, fmt.Errorf("failed to insert entry: %w", result.Error)
	}

	created := result.RowsAffected > 0
	if created {
		s.auditService.LogAction("ADD_LINK", page, map[string]interface{}{"link": link}, clientIP)
	}
	return created, nil
}

// ListEntries returns a page's entries in ascending creation order,
// skipping the first offset rows. Callers wanting newest-first reverse on
// their side.
func (s *PageService) ListEntries(ctx context.Context, page string, offset int) ([]models.Entry, error) {
	if offset < 0 {
		offset = 0
	}

	var entries []models.Entry
	err := s.db.WithContext(ctx).
		Where("page = ?", page).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// GetPrivatePage loads the credential set for a private page name.
func (s *PageService) GetPrivatePage(ctx context.Context, page string) (*models.PrivatePage, error) {
	var pp models.PrivatePage
	if err := s.db.WithContext(ctx).Where("page = ?", page).First(&pp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("failed to load private page: %w", err)
	}
	return &pp, nil
}

// CreatePrivatePage generates a private page with two independent
// passwords hashed against one shared salt. Uniqueness of the generated
// name is enforced by the unique constraint on the page column: the insert
// is attempted directly and only a duplicate-key conflict triggers another
// attempt, bounded and failing closed.
func (s *PageService) CreatePrivatePage(ctx context.Context, clientIP string) (*PrivatePageCredentials, error) {
	postingSuffix, err := utils.GenerateSecureString(privatePasswordLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate posting password: %w", err)
	}
	viewingSuffix, err := utils.GenerateSecureString(privatePasswordLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate viewing password: %w", err)
	}
	salt, err := utils.GenerateSalt()
	if err != nil {
		return nil, err
	}

	postingPassword := "P-" + postingSuffix
	viewingPassword := "V-" + viewingSuffix

	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		suffix, err := utils.GenerateSecureString(privateNameLength)
		if err != nil {
			return nil, fmt.Errorf("failed to generate page name: %w", err)
		}
		pageName := PrivatePagePrefix + suffix

		pp := models.PrivatePage{
			Page:            pageName,
			PostingPassword: utils.HashPassword(postingPassword, salt),
			ViewingPassword: utils.HashPassword(viewingPassword, salt),
			Salt:            salt,
		}

		err = s.db.WithContext(ctx).Create(&pp).Error
		if err == nil {
			s.auditService.LogAction("CREATE_PRIVATE_PAGE", pageName, nil, clientIP)
			return &PrivatePageCredentials{
				PageName:        pageName,
				PostingPassword: postingPassword,
				ViewingPassword: viewingPassword,
			}, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		return nil, fmt.Errorf("failed to create private page: %w", err)
	}

	return nil, ErrNameExhausted
}
