package models

import (
	"time"
)

// PrivatePage holds the credential set for one private page: two
// independently verifiable password hashes sharing one salt. Rows are
// created once at page creation and never rotated.
type PrivatePage struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Page            string    `gorm:"unique;not null;size:100" json:"page"`
	Title           string    `gorm:"size:100;not null;default:'Page Title'" json:"title"`
	PostingPassword string    `gorm:"not null;size:255" json:"-"` // pbkdf2 hash, grants read+write
	ViewingPassword string    `gorm:"not null;size:255" json:"-"` // pbkdf2 hash, grants read-only
	Salt            string    `gorm:"not null;size:64" json:"-"`
	CreatedAt       time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (PrivatePage) TableName() string {
	return "private_pages"
}
