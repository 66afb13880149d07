package service

import (
	"catalog/metrics"
	"catalog/models"
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditService appends and reads the admin audit trail.
type AuditService struct {
	db *gorm.DB
}

// NewAuditService constructs an audit service
func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Record appends one entry using tx, so the entry commits or rolls back with the mutation it describes.
func (s *AuditService) Record(tx *gorm.DB, adminID uint, action, entityType, entityID string, changes interface{}) error {
	data, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("failed to encode audit changes: %w", err)
	}

	entry := models.AuditLog{
		AdminID:    adminID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Changes:    datatypes.JSON(data),
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}

	metrics.AuditEntries.WithLabelValues(action, entityType).Inc()
	return nil
}

// AuditFilter narrows ListPage; empty fields match everything.
type AuditFilter struct {
	EntityType string
	EntityID   string
	Action     string
}

// ListPage returns entries newest first, with the total matching count.
func (s *AuditService) ListPage(ctx context.Context, filter AuditFilter, page, pageSize int) ([]models.AuditLog, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	q := s.db.WithContext(ctx).Model(&models.AuditLog{})
	if filter.EntityType != "" {
		q = q.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != "" {
		q = q.Where("entity_id = ?", filter.EntityID)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, upstream("Failed to fetch audit log", err)
	}

	var entries []models.AuditLog
	offset := (page - 1) * pageSize
	if err := q.Order("id desc").Offset(offset).Limit(pageSize).Find(&entries).Error; err != nil {
		return nil, 0, upstream("Failed to fetch audit log", err)
	}
	return entries, total, nil
}
