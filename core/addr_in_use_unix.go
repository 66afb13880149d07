//go:build !windows

package core

import (
	"errors"
	"syscall"
)

// isAddrInUse matches EADDRINUSE from bind.
func isAddrInUse(err error) bool {
	return errors.Is(err, syscall.EADDRINUSE)
}
