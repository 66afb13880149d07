package models

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"time"
)

// SiteConfig is one named JSON blob controlling an area of the storefront.
// The value is opaque to the store.
type SiteConfig struct {
	Key       string      `gorm:"primaryKey;size:128" json:"key"`
	Value     ConfigValue `gorm:"type:text;not null" json:"value"`
	UpdatedBy *uint       `json:"updated_by"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (SiteConfig) TableName() string {
	return "site_config"
}

// ConfigValue is raw JSON kept as text. Any JSON type is allowed, including bare
// numbers and booleans, which some drivers hand back as native values.
type ConfigValue []byte

// Value implements driver.Valuer. An empty value is stored as JSON null.
func (v ConfigValue) Value() (driver.Value, error) {
	if len(v) == 0 {
		return "null", nil
	}
	return string(v), nil
}

// Scan implements sql.Scanner.
func (v *ConfigValue) Scan(src interface{}) error {
	switch s := src.(type) {
	case nil:
		*v = ConfigValue("null")
	case []byte:
		*v = append(ConfigValue(nil), s...)
	case string:
		*v = ConfigValue(s)
	case int64:
		*v = ConfigValue(strconv.FormatInt(s, 10))
	case float64:
		*v = ConfigValue(strconv.FormatFloat(s, 'g', -1, 64))
	case bool:
		*v = ConfigValue(strconv.FormatBool(s))
	default:
		return fmt.Errorf("unsupported config value type %T", src)
	}
	return nil
}

func (v ConfigValue) MarshalJSON() ([]byte, error) {
	if len(v) == 0 {
		return []byte("null"), nil
	}
	return v, nil
}

func (v *ConfigValue) UnmarshalJSON(data []byte) error {
	*v = append((*v)[:0], data...)
	return nil
}

// GormDataType keeps the column textual so SQLite does not apply numeric affinity.
func (ConfigValue) GormDataType() string {
	return "text"
}
