package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jhanna0/links/internal/models"
	"github.com/jhanna0/links/pkg/utils"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// AccessKeyLifetime is how long an issued key stays valid.
const AccessKeyLifetime = 365 * 24 * time.Hour

const keyCachePrefix = "accesskey:"

// keyCacheTTL caps how long a positive verification is cached; a key whose
// remaining life is shorter caps it further.
const keyCacheTTL = time.Hour

// AccessKeyService manages the long-lived elevated-tier credentials. Redis
// fronts the verification path; every cache failure falls back to the DB.
type AccessKeyService struct {
	db     *gorm.DB
	rdb    *redis.Client
	logger *slog.Logger
}

func NewAccessKeyService(db *gorm.DB, rdb *redis.Client, logger *slog.Logger) *AccessKeyService {
	return &AccessKeyService{
		db:     db,
		rdb:    rdb,
		logger: logger,
	}
}

// Issue creates an access key for email, recording only the email digest.
// Issue is idempotent per payment session: a second confirmation for the
// same sessionID returns the existing key instead of minting another.
func (s *AccessKeyService) Issue(ctx context.Context, email, sessionID string) (*models.AccessKey, error) {
	var existing models.AccessKey
	err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	key := models.AccessKey{
		Key:         uuid.NewString(),
		HashedEmail: utils.HashEmail(email),
		SessionID:   sessionID,
		ExpiresAt:   time.Now().Add(AccessKeyLifetime),
	}

	if err := s.db.WithContext(ctx).Create(&key).Error; err != nil {
		// A concurrent confirmation for the same session may have won the
		// insert; the unique session_id constraint makes that visible.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if lookupErr := s.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&existing).Error; lookupErr == nil {
				return &existing, nil
			}
		}
		return nil, fmt.Errorf("failed to create access key: %w", err)
	}

	return &key, nil
}

// Verify checks that key exists and is unexpired. The positive result is
// cached in redis so the per-request tier check does not hit the DB.
func (s *AccessKeyService) Verify(ctx context.Context, key string) error {
	if key == "" {
		return ErrKeyNotFound
	}

	if s.cachedValid(ctx, key) {
		return nil
	}

	var row models.AccessKey
	if err := s.db.WithContext(ctx).Where("key = ?", key).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrKeyNotFound
		}
		return fmt.Errorf("failed to look up access key: %w", err)
	}

	if row.Expired() {
		return ErrKeyExpired
	}

	s.cacheValid(ctx, &row)
	return nil
}

// Retrieve returns the newest key for an email regardless of expiry, so
// the recovery flow can tell the user whether theirs has lapsed.
func (s *AccessKeyService) Retrieve(ctx context.Context, email string) (*models.AccessKey, error) {
	var row models.AccessKey
	err := s.db.WithContext(ctx).
		Where("hashed_email = ?", utils.HashEmail(email)).
		Order("created_at DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to retrieve access key: %w", err)
	}
	return &row, nil
}

func (s *AccessKeyService) cachedValid(ctx context.Context, key string) bool {
	if s.rdb == nil {
		return false
	}
	val, err := s.rdb.Get(ctx, keyCachePrefix+key).Result()
	if err != nil {
		return false
	}
	return val == "1"
}

func (s *AccessKeyService) cacheValid(ctx context.Context, row *models.AccessKey) {
	if s.rdb == nil {
		return
	}
	ttl := keyCacheTTL
	if remaining := time.Until(row.ExpiresAt); remaining < ttl {
		ttl = remaining
	}
	if ttl <= 0 {
		return
	}
	if err := s.rdb.Set(ctx, keyCachePrefix+row.Key, "1", ttl).Err(); err != nil {
		s.logger.Debug("Access key cache write failed", "error", err)
	}
}
