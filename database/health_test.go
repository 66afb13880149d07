package database

import (
	"catalog/config"
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContention(t *testing.T) {
	cases := []struct {
		name         string
		err          error
		busy, locked bool
	}{
		{"nil", nil, false, false},
		{"busy", errors.New("SQLITE_BUSY: database is locked"), true, false},
		{"locked", errors.New("SQLITE_LOCKED: database table is locked"), false, true},
		{"canceled", context.Canceled, false, false},
		{"other", errors.New("UNIQUE constraint failed: admin_users.email"), false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			busy, locked := contention(tc.err)
			assert.Equal(t, tc.busy, busy)
			assert.Equal(t, tc.locked, locked)
		})
	}
}

func TestCatalogLogger_CountsContention(t *testing.T) {
	busyBefore, lockedBefore := SQLiteBusyErrorsTotal(), SQLiteLockedErrorsTotal()

	l := newGormLogger("ERROR")
	trace := func(err error) {
		l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 0 }, err)
	}
	trace(errors.New("database is locked"))
	trace(errors.New("database table is locked"))
	trace(errors.New("no such table: products"))
	trace(context.Canceled)
	trace(nil)

	assert.Equal(t, busyBefore+1, SQLiteBusyErrorsTotal())
	assert.Equal(t, lockedBefore+1, SQLiteLockedErrorsTotal())
}

func TestUp(t *testing.T) {
	assert.False(t, Up(context.Background(), nil))

	db, err := OpenInMemory(t.Name())
	require.NoError(t, err)
	assert.True(t, Up(context.Background(), db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	assert.False(t, Up(context.Background(), db))
}

func TestSQLitePragmas(t *testing.T) {
	cfg := &config.Config{
		SQLitePragmasEnabled: true,
		SQLiteBusyTimeoutMS:  5000,
		SQLiteJournalMode:    " wal ",
		SQLiteSynchronous:    "normal",
		SQLiteForeignKeys:    true,
	}
	assert.Equal(t, []string{"busy_timeout(5000)", "journal_mode(WAL)", "synchronous(NORMAL)", "foreign_keys(1)"}, sqlitePragmas(cfg))

	cfg.SQLiteJournalMode = "sideways"
	cfg.SQLiteSynchronous = "9"
	cfg.SQLiteForeignKeys = false
	cfg.SQLiteBusyTimeoutMS = 0
	assert.Equal(t, []string{"foreign_keys(0)"}, sqlitePragmas(cfg))

	cfg.SQLitePragmasEnabled = false
	assert.Empty(t, sqlitePragmas(cfg))
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "catalog.db", sqliteDSN("catalog.db", nil))

	dsn := sqliteDSN("file:x?mode=memory&cache=shared", []string{"busy_timeout(5000)", "foreign_keys(1)"})
	base, rawQuery, ok := strings.Cut(dsn, "?")
	require.True(t, ok)
	assert.Equal(t, "file:x", base)
	q, err := url.ParseQuery(rawQuery)
	require.NoError(t, err)
	assert.Equal(t, "memory", q.Get("mode"))
	assert.Equal(t, "shared", q.Get("cache"))
	assert.Equal(t, []string{"busy_timeout(5000)", "foreign_keys(1)"}, q["_pragma"])
}

func TestMemoryDSN_EscapesTestNames(t *testing.T) {
	assert.Equal(t, "file:TestX_case_1?mode=memory&cache=shared", memoryDSN("TestX/case 1"))
}

func TestOpen_SQLitePoolAndPragmas(t *testing.T) {
	db, err := Open(&config.Config{
		DatabaseType:         "sqlite",
		DatabaseURL:          memoryDSN(t.Name()),
		SQLitePragmasEnabled: true,
		SQLiteBusyTimeoutMS:  1234,
		SQLiteForeignKeys:    true,
		SQLiteMaxOpenConns:   0,
		SQLiteMaxIdleConns:   5,
		LogLevel:             "ERROR",
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)

	var timeout, fk int
	require.NoError(t, db.Raw("PRAGMA busy_timeout").Scan(&timeout).Error)
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1234, timeout)
	assert.Equal(t, 1, fk)
}

func TestOpen_UnsupportedType(t *testing.T) {
	_, err := Open(&config.Config{DatabaseType: "mysql"})
	assert.ErrorContains(t, err, "unsupported database type")
}
