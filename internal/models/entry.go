package models

import (
	"time"
)

// Entry is a single link posted to a page. The composite unique index makes
// repeated submissions of the same (page, link, description) idempotent.
type Entry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Page        string    `gorm:"size:100;not null;index;uniqueIndex:idx_entries_page_link_description" json:"page"`
	Link        string    `gorm:"size:2048;not null;uniqueIndex:idx_entries_page_link_description" json:"link"`
	Description string    `gorm:"size:100;uniqueIndex:idx_entries_page_link_description" json:"description"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Entry) TableName() string {
	return "entries"
}
