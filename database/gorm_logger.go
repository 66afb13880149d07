package database

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// zapWriter routes gorm's printf-style output to the global zap logger.
type zapWriter struct{}

func (zapWriter) Printf(format string, args ...interface{}) {
	zap.S().Named("gorm").Infof(format, args...)
}

// Lock contention seen by any query since start, exported through /metrics.
var busyErrors, lockedErrors atomic.Uint64

// SQLiteBusyErrorsTotal counts queries that failed because another connection held the write lock.
func SQLiteBusyErrorsTotal() uint64 { return busyErrors.Load() }

// SQLiteLockedErrorsTotal counts queries that hit a locked table in the shared cache.
func SQLiteLockedErrorsTotal() uint64 { return lockedErrors.Load() }

// contention inspects a driver error message. Errors from cancelled requests never count.
func contention(err error) (busy, locked bool) {
	if err == nil || contextDone(err) {
		return false, false
	}
	msg := strings.ToLower(err.Error())
	busy = strings.Contains(msg, "sqlite_busy") || strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy timeout")
	locked = strings.Contains(msg, "sqlite_locked") || strings.Contains(msg, "database table is locked")
	return busy, locked
}

func countContention(err error) {
	busy, locked := contention(err)
	if busy {
		busyErrors.Add(1)
	}
	if locked {
		lockedErrors.Add(1)
	}
}

// catalogLogger is gorm's logger plus contention counting on every traced query.
type catalogLogger struct {
	logger.Interface
}

func (l catalogLogger) LogMode(level logger.LogLevel) logger.Interface {
	return catalogLogger{l.Interface.LogMode(level)}
}

func (l catalogLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	countContention(err)
	l.Interface.Trace(ctx, begin, fc, err)
}
