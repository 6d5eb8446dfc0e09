package models

import (
	"time"
)

// AccessKey is a long-lived elevated-tier credential issued after an
// external payment confirmation. The owner's email is stored only as a
// one-way digest.
type AccessKey struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Key         string    `gorm:"unique;index;not null;size:36" json:"key"`
	HashedEmail string    `gorm:"index;not null;size:64" json:"-"`
	SessionID   string    `gorm:"unique;not null;size:255" json:"-"`
	ExpiresAt   time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (AccessKey) TableName() string {
	return "access_keys"
}

// Expired reports whether the key is past its expiry.
func (k *AccessKey) Expired() bool {
	return time.Now().After(k.ExpiresAt)
}
