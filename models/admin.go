package models

import (
	"time"

	"gorm.io/datatypes"
)

// AdminUser is an allow-list row layered over token identity.
type AdminUser struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Email     string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	IsActive  bool       `gorm:"not null" json:"is_active"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}

// Audit actions
const (
	ActionCreate     = "CREATE"
	ActionUpdate     = "UPDATE"
	ActionDelete     = "DELETE"
	ActionBulkUpdate = "BULK_UPDATE"
)

// Audited entity types
const (
	EntityProduct = "product"
	EntityConfig  = "config"
)

// AuditLog is an append-only record of a mutating admin action.
type AuditLog struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	AdminID    uint           `gorm:"index" json:"admin_id"`
	Action     string         `gorm:"size:16;not null" json:"action"`
	EntityType string         `gorm:"size:32;not null;index:idx_audit_entity" json:"entity_type"`
	EntityID   string         `gorm:"size:128;index:idx_audit_entity" json:"entity_id"`
	Changes    datatypes.JSON `json:"changes"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
