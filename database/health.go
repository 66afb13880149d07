package database

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

const pingTimeout = 200 * time.Millisecond

// Up reports whether db answers a ping. Without a live deadline on ctx the ping
// gets pingTimeout.
func Up(ctx context.Context, db *gorm.DB) bool {
	if db == nil {
		return false
	}
	sqlDB, err := db.DB()
	if err != nil {
		return false
	}
	if deadline, ok := ctx.Deadline(); !ok || time.Until(deadline) <= 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, pingTimeout)
		defer cancel()
	}
	return sqlDB.PingContext(ctx) == nil
}

func contextDone(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
