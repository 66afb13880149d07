package database

import (
	"catalog/config"
	"catalog/models"
	"database/sql"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB opens the configured database, migrates the catalog tables, seeds the admin allow-list and assigns DB.
func InitDB() error {
	db, err := Open(config.Settings)
	if err != nil {
		return err
	}

	if err := Migrate(db); err != nil {
		return err
	}

	if err := SeedAdmins(db, config.Settings.AdminEmails); err != nil {
		return err
	}

	DB = db
	zap.S().Infow("Database initialized", "type", config.Settings.DatabaseType)
	return nil
}

// Open connects to sqlite (default) or postgres according to settings.
func Open(settings *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: newGormLogger(settings.LogLevel)}

	switch strings.ToLower(settings.DatabaseType) {
	case "postgres", "postgresql":
		db, err := gorm.Open(postgres.Open(settings.DatabaseURL), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		return db, nil
	case "", "sqlite":
		db, err := gorm.Open(sqlite.Open(sqliteDSN(settings.DatabaseURL, sqlitePragmas(settings))), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		limitSQLitePool(sqlDB, settings)
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database type %q", settings.DatabaseType)
	}
}

// OpenInMemory returns a migrated private in-memory sqlite database. Used by tests.
func OpenInMemory(name string) (*gorm.DB, error) {
	db, err := Open(&config.Config{
		DatabaseType:         "sqlite",
		DatabaseURL:          memoryDSN(name),
		SQLitePragmasEnabled: true,
		SQLiteForeignKeys:    true,
		SQLiteMaxOpenConns:   1,
		SQLiteMaxIdleConns:   1,
		LogLevel:             "ERROR",
	})
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// memoryDSN names a shared-cache memory database so every pooled connection
// sees the same tables.
func memoryDSN(name string) string {
	name = strings.NewReplacer("/", "_", " ", "_", "#", "_", "?", "_", "&", "_").Replace(name)
	return "file:" + name + "?mode=memory&cache=shared"
}

// sqlitePragmas lists the name(value) pairs every new connection runs.
// Unknown journal or synchronous modes are skipped.
func sqlitePragmas(settings *config.Config) []string {
	if !settings.SQLitePragmasEnabled {
		return nil
	}
	var pragmas []string
	if settings.SQLiteBusyTimeoutMS > 0 {
		pragmas = append(pragmas, "busy_timeout("+strconv.Itoa(settings.SQLiteBusyTimeoutMS)+")")
	}
	if mode := strings.ToUpper(strings.TrimSpace(settings.SQLiteJournalMode)); slices.Contains(journalModes, mode) {
		pragmas = append(pragmas, "journal_mode("+mode+")")
	}
	if mode := strings.ToUpper(strings.TrimSpace(settings.SQLiteSynchronous)); slices.Contains(synchronousModes, mode) {
		pragmas = append(pragmas, "synchronous("+mode+")")
	}
	if settings.SQLiteForeignKeys {
		pragmas = append(pragmas, "foreign_keys(1)")
	} else {
		pragmas = append(pragmas, "foreign_keys(0)")
	}
	return pragmas
}

var (
	journalModes     = []string{"WAL", "DELETE", "TRUNCATE", "PERSIST", "MEMORY", "OFF"}
	synchronousModes = []string{"OFF", "NORMAL", "FULL", "EXTRA", "0", "1", "2", "3"}
)

// sqliteDSN adds one _pragma parameter per pragma to path, keeping its query.
func sqliteDSN(path string, pragmas []string) string {
	if len(pragmas) == 0 {
		return path
	}
	base, rawQuery, _ := strings.Cut(path, "?")
	query, _ := url.ParseQuery(rawQuery)
	for _, p := range pragmas {
		query.Add("_pragma", p)
	}
	return base + "?" + query.Encode()
}

// limitSQLitePool keeps at least one open connection and never more idle than open.
// Negative durations mean no limit.
func limitSQLitePool(sqlDB *sql.DB, settings *config.Config) {
	open := max(settings.SQLiteMaxOpenConns, 1)
	idle := min(max(settings.SQLiteMaxIdleConns, 0), open)
	sqlDB.SetMaxOpenConns(open)
	sqlDB.SetMaxIdleConns(idle)
	sqlDB.SetConnMaxIdleTime(time.Duration(max(settings.SQLiteConnMaxIdleSec, 0)) * time.Second)
	sqlDB.SetConnMaxLifetime(time.Duration(max(settings.SQLiteConnMaxLifeSec, 0)) * time.Second)
}

// Migrate creates or updates the catalog tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Product{},
		&models.SiteConfig{},
		&models.AdminUser{},
		&models.AuditLog{},
	)
}

// SeedAdmins makes sure every listed email has an active allow-list row.
func SeedAdmins(db *gorm.DB, emails []string) error {
	for _, email := range emails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" {
			continue
		}
		admin := models.AdminUser{Email: email}
		if err := db.Where(models.AdminUser{Email: email}).
			Assign(map[string]interface{}{"is_active": true}).
			FirstOrCreate(&admin).Error; err != nil {
			return fmt.Errorf("failed to seed admin %s: %w", email, err)
		}
	}
	return nil
}

// CloseDB closes the database connection and releases resources
func CloseDB() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	zap.S().Info("Closing database connection...")
	return sqlDB.Close()
}

func newGormLogger(level string) logger.Interface {
	logLevel := logger.Silent
	switch strings.ToUpper(level) {
	case "DEBUG":
		logLevel = logger.Info
	case "INFO", "WARN":
		logLevel = logger.Warn
	}

	return catalogLogger{logger.New(
		zapWriter{},
		logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
		},
	)}
}
