package repository

import (
	"testing"

	"github.com/jhanna0/links/internal/config"
	"github.com/jhanna0/links/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestInitDB_Sqlite(t *testing.T) {
	cfg := config.Config{DatabaseURL: "sqlite://:memory:"}
	db, err := InitDB(cfg)

	assert.NoError(t, err)
	assert.NotNil(t, db)

	// AutoMigrate must have created the tables
	assert.True(t, db.Migrator().HasTable(&models.Entry{}))
	assert.True(t, db.Migrator().HasTable(&models.PrivatePage{}))
	assert.True(t, db.Migrator().HasTable(&models.AccessKey{}))
	assert.True(t, db.Migrator().HasTable(&models.AuditLog{}))
}

func TestInitDB_UnsupportedDriver(t *testing.T) {
	cfg := config.Config{DatabaseURL: "mysql://nope"}
	_, err := InitDB(cfg)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestInitDB_UniqueConstraints(t *testing.T) {
	cfg := config.Config{DatabaseURL: "sqlite://:memory:"}
	db, err := InitDB(cfg)
	assert.NoError(t, err)

	// The composite entry index rejects exact duplicates
	e := models.Entry{Page: "p", Link: "https://example.com", Description: "d"}
	assert.NoError(t, db.Create(&e).Error)
	dup := models.Entry{Page: "p", Link: "https://example.com", Description: "d"}
	assert.Error(t, db.Create(&dup).Error)

	// Differing description is a new row
	other := models.Entry{Page: "p", Link: "https://example.com", Description: "other"}
	assert.NoError(t, db.Create(&other).Error)

	// Private page names are unique
	pp := models.PrivatePage{Page: "~abc", PostingPassword: "x", ViewingPassword: "y", Salt: "s"}
	assert.NoError(t, db.Create(&pp).Error)
	dupPage := models.PrivatePage{Page: "~abc", PostingPassword: "x2", ViewingPassword: "y2", Salt: "s2"}
	assert.Error(t, db.Create(&dupPage).Error)
}
