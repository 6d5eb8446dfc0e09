package services

import (
	"context"
	"testing"
	"time"

	"github.com/jhanna0/links/internal/models"
	"github.com/jhanna0/links/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccessKeyService(t *testing.T) *AccessKeyService {
	t.Helper()
	// nil redis client: the verification path must work DB-only
	return NewAccessKeyService(setupTestDB(t), nil, testLogger())
}

func TestIssue(t *testing.T) {
	svc := newTestAccessKeyService(t)
	ctx := context.Background()

	key, err := svc.Issue(ctx, "buyer@example.com", "sess_123")
	require.NoError(t, err)
	assert.NotEmpty(t, key.Key)
	assert.Equal(t, utils.HashEmail("buyer@example.com"), key.HashedEmail)
	assert.WithinDuration(t, time.Now().Add(AccessKeyLifetime), key.ExpiresAt, time.Minute)
}

func TestIssue_IdempotentPerSession(t *testing.T) {
	svc := newTestAccessKeyService(t)
	ctx := context.Background()

	first, err := svc.Issue(ctx, "buyer@example.com", "sess_same")
	require.NoError(t, err)
	second, err := svc.Issue(ctx, "buyer@example.com", "sess_same")
	require.NoError(t, err)

	assert.Equal(t, first.Key, second.Key)

	var count int64
	svc.db.Model(&models.AccessKey{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestVerify(t *testing.T) {
	svc := newTestAccessKeyService(t)
	ctx := context.Background()

	key, err := svc.Issue(ctx, "buyer@example.com", "sess_ok")
	require.NoError(t, err)

	assert.NoError(t, svc.Verify(ctx, key.Key))
	assert.ErrorIs(t, svc.Verify(ctx, "no-such-key"), ErrKeyNotFound)
	assert.ErrorIs(t, svc.Verify(ctx, ""), ErrKeyNotFound)
}

func TestVerify_Expired(t *testing.T) {
	svc := newTestAccessKeyService(t)
	ctx := context.Background()

	expired := models.AccessKey{
		Key:         "expired-key-value",
		HashedEmail: utils.HashEmail("old@example.com"),
		SessionID:   "sess_old",
		ExpiresAt:   time.Now().Add(-time.Hour),
	}
	require.NoError(t, svc.db.Create(&expired).Error)

	assert.ErrorIs(t, svc.Verify(ctx, "expired-key-value"), ErrKeyExpired)
}

func TestRetrieve(t *testing.T) {
	svc := newTestAccessKeyService(t)
	ctx := context.Background()

	issued, err := svc.Issue(ctx, "buyer@example.com", "sess_r1")
	require.NoError(t, err)

	found, err := svc.Retrieve(ctx, "buyer@example.com")
	require.NoError(t, err)
	assert.Equal(t, issued.Key, found.Key)
	assert.False(t, found.Expired())

	// Expired keys are still returned: the recovery flow reports expiry
	expired := models.AccessKey{
		Key:         "lapsed-key",
		HashedEmail: utils.HashEmail("lapsed@example.com"),
		SessionID:   "sess_r2",
		ExpiresAt:   time.Now().Add(-time.Hour),
	}
	require.NoError(t, svc.db.Create(&expired).Error)

	found, err = svc.Retrieve(ctx, "lapsed@example.com")
	require.NoError(t, err)
	assert.True(t, found.Expired())

	_, err = svc.Retrieve(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}
