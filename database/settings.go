package database

import (
	"catalog/models"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errEmptyKey = errors.New("empty config key")

// GetConfigRow returns the stored row for key. ok is false when the key was never written.
// db may be a transaction.
func GetConfigRow(db *gorm.DB, key string) (row *models.SiteConfig, ok bool, err error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false, errEmptyKey
	}

	var s models.SiteConfig
	if err := db.First(&s, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &s, true, nil
}

// ListConfigRows returns every row ordered by key.
func ListConfigRows(db *gorm.DB) ([]models.SiteConfig, error) {
	var rows []models.SiteConfig
	if err := db.Order("key").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpsertConfigRows inserts or replaces rows keyed by key in a single statement.
func UpsertConfigRows(db *gorm.DB, rows []models.SiteConfig) error {
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		rows[i].Key = strings.TrimSpace(rows[i].Key)
		if rows[i].Key == "" {
			return errEmptyKey
		}
		if len(rows[i].Value) == 0 {
			rows[i].Value = models.ConfigValue("null")
		}
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_by", "updated_at"}),
	}).Create(&rows).Error
}

// DeleteConfigRow removes key if present.
func DeleteConfigRow(db *gorm.DB, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errEmptyKey
	}
	return db.Where("key = ?", key).Delete(&models.SiteConfig{}).Error
}
