//go:build !linux && !darwin && !freebsd && !openbsd && !netbsd && !dragonfly

package secstr

import (
	"errors"
	"os"
)

var errNoMemoryLock = errors.New("memory locking not supported on this platform")

func pageSize() int {
	return os.Getpagesize()
}

func mapAnonymous(int) ([]byte, error) {
	return nil, errNoMemoryLock
}

func unmap([]byte) error {
	return nil
}

func lockMemory([]byte) error {
	return errNoMemoryLock
}

func unlockMemory([]byte) error {
	return nil
}
