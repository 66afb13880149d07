package service

import (
	"catalog/database"
	"catalog/models"
	"context"
	"encoding/json"
	"errors"
	"sort"

	"gorm.io/gorm"
)

// ConfigService manages the site_config key/value rows.
type ConfigService struct {
	db    *gorm.DB
	audit *AuditService
}

// NewConfigService constructs a config service
func NewConfigService(db *gorm.DB, audit *AuditService) *ConfigService {
	return &ConfigService{db: db, audit: audit}
}

// GetAll returns every key merged into one flat map. An empty store yields an empty map.
func (s *ConfigService) GetAll(ctx context.Context) (map[string]json.RawMessage, error) {
	rows, err := database.ListConfigRows(s.db.WithContext(ctx))
	if err != nil {
		return nil, upstream("Failed to fetch configuration", err)
	}

	out := make(map[string]json.RawMessage, len(rows))
	for _, row := range rows {
		out[row.Key] = json.RawMessage(row.Value)
	}
	return out, nil
}

// Get returns the value stored under key.
func (s *ConfigService) Get(ctx context.Context, key string) (json.RawMessage, error) {
	if err := validateKey(key); err != nil {
		return nil, wrapSentinel("Config not found", ErrNotFound)
	}

	row, ok, err := database.GetConfigRow(s.db.WithContext(ctx), key)
	if err != nil {
		return nil, upstream("Failed to fetch configuration", err)
	}
	if !ok {
		return nil, wrapSentinel("Config not found", ErrNotFound)
	}
	return json.RawMessage(row.Value), nil
}

// Put upserts key. The audit action is CREATE for a new key and UPDATE otherwise.
// A nil value means the caller sent none; JSON null is a valid value.
func (s *ConfigService) Put(ctx context.Context, adminID uint, key string, value json.RawMessage) (*models.SiteConfig, string, error) {
	if value == nil {
		return nil, "", wrapSentinel("Value is required", ErrBadRequest)
	}
	if err := validateKey(key); err != nil {
		return nil, "", wrapSentinel("Invalid config key", ErrBadRequest)
	}

	var (
		stored *models.SiteConfig
		action string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, ok, err := database.GetConfigRow(tx, key)
		if err != nil {
			return err
		}

		row := models.SiteConfig{Key: key, Value: models.ConfigValue(value), UpdatedBy: &adminID}
		if err := database.UpsertConfigRows(tx, []models.SiteConfig{row}); err != nil {
			return err
		}

		var before interface{}
		action = models.ActionCreate
		if ok {
			action = models.ActionUpdate
			before = json.RawMessage(existing.Value)
		}

		if err := s.audit.Record(tx, adminID, action, models.EntityConfig, key,
			map[string]interface{}{"before": before, "after": value}); err != nil {
			return err
		}

		stored, _, err = database.GetConfigRow(tx, key)
		return err
	})
	if err != nil {
		return nil, "", upstream("Failed to update configuration", err)
	}
	return stored, action, nil
}

// Bulk upserts every entry in one batch and writes a single BULK_UPDATE audit entry.
func (s *ConfigService) Bulk(ctx context.Context, adminID uint, updates map[string]json.RawMessage) ([]models.SiteConfig, error) {
	if updates == nil {
		return nil, wrapSentinel("Updates object is required", ErrBadRequest)
	}

	keys := make([]string, 0, len(updates))
	for key := range updates {
		if err := validateKey(key); err != nil {
			return nil, wrapSentinel("Invalid config key", ErrBadRequest)
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rows := make([]models.SiteConfig, 0, len(keys))
	for _, key := range keys {
		value := updates[key]
		if value == nil {
			value = json.RawMessage("null")
		}
		by := adminID
		rows = append(rows, models.SiteConfig{Key: key, Value: models.ConfigValue(value), UpdatedBy: &by})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := database.UpsertConfigRows(tx, rows); err != nil {
			return err
		}
		return s.audit.Record(tx, adminID, models.ActionBulkUpdate, models.EntityConfig, "multiple",
			map[string]interface{}{"updates": updates})
	})
	if err != nil {
		return nil, upstream("Failed to bulk update configuration", err)
	}
	return rows, nil
}

// Delete removes key, recording the deleted value.
func (s *ConfigService) Delete(ctx context.Context, adminID uint, key string) error {
	if err := validateKey(key); err != nil {
		return wrapSentinel("Config key not found", ErrNotFound)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, ok, err := database.GetConfigRow(tx, key)
		if err != nil {
			return err
		}
		if !ok {
			return wrapSentinel("Config key not found", ErrNotFound)
		}

		if err := database.DeleteConfigRow(tx, key); err != nil {
			return err
		}
		return s.audit.Record(tx, adminID, models.ActionDelete, models.EntityConfig, key,
			map[string]interface{}{"deleted": json.RawMessage(existing.Value)})
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return upstream("Failed to delete configuration key", err)
	}
	return nil
}

func validateKey(key string) error {
	return validate.Var(key, "required,max=128,printascii")
}
