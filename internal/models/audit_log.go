package models

import (
	"time"
)

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Action    string    `gorm:"size:50;not null" json:"action"`  // e.g. "ADD_LINK", "CREATE_PRIVATE_PAGE"
	EntityID  string    `gorm:"size:100" json:"entity_id"`       // page name or key prefix affected
	Details   string    `gorm:"type:text" json:"details"`        // JSON description
	IPAddress string    `gorm:"size:45" json:"ip_address"`
	Timestamp time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"timestamp"`
}
